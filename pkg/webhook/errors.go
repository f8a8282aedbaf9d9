package webhook

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL        = errors.New("invalid webhook URL")
	ErrInvalidPayload    = errors.New("invalid webhook payload")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrTimeout           = errors.New("webhook request timeout")
	ErrConnectionRefused = errors.New("webhook connection refused")
	ErrDeliveryFailed    = errors.New("webhook delivery failed")
	ErrUnexpectedStatus  = errors.New("webhook returned unexpected status")
)

// StatusError carries the status code of a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// StatusCode extracts the HTTP status from err, or 0 if none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
