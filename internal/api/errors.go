package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoToken is returned before any request is sent when no bearer token is
// available. Loaders treat it as "nothing to load" rather than as a failure.
var ErrNoToken = errors.New("no auth token")

// Error is a non-2xx response from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Message returns the server's error message when err carries one, else
// fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// errorFromBody builds an *Error from a non-2xx body. The message comes from
// the "error" field, then "message". A body that is not JSON yields no message.
func errorFromBody(status int, body []byte) *Error {
	apiErr := &Error{Status: status}
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	if len(payload.Error) > 0 {
		var s string
		if err := json.Unmarshal(payload.Error, &s); err == nil {
			apiErr.Message = strings.TrimSpace(s)
		} else {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload.Error, &nested); err == nil {
				apiErr.Message = strings.TrimSpace(nested.Message)
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(payload.Message)
	}
	return apiErr
}
