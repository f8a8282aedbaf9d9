package bloodrequest

import (
	"errors"
	"net/http"

	"github.com/bloodlink/bloodlink/core"
)

var (
	ErrRequestNotFound   = errors.New("bloodrequest: not found")
	ErrCenterNotFound    = errors.New("bloodrequest: health center profile not found")
	ErrDonorNotFound     = errors.New("bloodrequest: donor profile not found")
	ErrInvalidTransition = errors.New("bloodrequest: status change not allowed")
	ErrRequestNotActive  = errors.New("bloodrequest: request is not active")
)

var httpErrors = []struct {
	err  error
	http core.HTTPError
}{
	{ErrRequestNotFound, core.ErrRequestNotFound},
	{ErrCenterNotFound, core.ErrProfileNotFound.WithMessage("Health center profile not found. Please complete your profile setup.")},
	{ErrDonorNotFound, core.ErrProfileNotFound.WithMessage("Donor profile not found")},
	{ErrInvalidTransition, core.ErrInvalidStatusTransition},
	{ErrRequestNotActive, core.NewHTTPError(http.StatusBadRequest, "REQUEST_NOT_ACTIVE", "Only active blood requests can notify donors")},
}

// HTTPError maps blood request errors to their client-facing form.
func HTTPError(err error) error {
	for _, m := range httpErrors {
		if errors.Is(err, m.err) {
			return m.http
		}
	}
	return err
}
