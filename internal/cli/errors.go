package cli

import (
	"context"
	"errors"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/form"
	"github.com/vbonduro/cmsadmin/internal/mutate"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func (e *cliError) Unwrap() error { return e.err }

const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitValidation = 3
	exitAPI        = 4
	exitAuth       = 5
	exitCancelled  = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	var ve *form.ValidationError
	var apiErr *api.Error
	switch {
	case errors.Is(err, mutate.ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return exitCancelled
	case errors.Is(err, api.ErrNoToken), api.IsUnauthorized(err):
		return exitAuth
	case errors.As(err, &ve):
		return exitValidation
	case errors.As(err, &apiErr):
		return exitAPI
	default:
		return exitFailure
	}
}
