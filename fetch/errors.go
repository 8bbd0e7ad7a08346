package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrTimeout indicates the page did not arrive (or render) within the
// configured budget.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrTransport indicates a network or browser transport failure.
type ErrTransport struct {
	Err error
}

func (e ErrTransport) Error() string {
	return fmt.Errorf("transport: %w", e.Err).Error()
}

func (e ErrTransport) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates a missing page (HTTP 404 or an absent fixture file).
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return fmt.Errorf("not_found: %w", e.Err).Error()
}

func (e ErrNotFound) Unwrap() error {
	return e.Err
}

// classifyError maps a transport failure onto the fetch error taxonomy.
func classifyError(err error, statusCode int) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}

	if statusCode == http.StatusNotFound {
		if err == nil {
			err = fmt.Errorf("http status %d", statusCode)
		}
		return ErrNotFound{Err: err}
	}

	if err == nil {
		err = fmt.Errorf("http status %d", statusCode)
	}
	return ErrTransport{Err: err}
}

// TypeLabel returns the taxonomy tag for a fetch error, used as a
// metrics label and in logs.
func TypeLabel(err error) string {
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var notFound ErrNotFound
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var transport ErrTransport
	if errors.As(err, &transport) {
		return "transport"
	}
	return "other"
}
