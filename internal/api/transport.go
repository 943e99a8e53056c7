package api

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs every request after it completes.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get(requestIDHeader),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		t.logger.Warn("request failed", append(attrs, "error", err)...)
		return nil, err
	}
	t.logger.Info("request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
