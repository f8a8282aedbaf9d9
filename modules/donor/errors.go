package donor

import (
	"errors"
	"net/http"

	"github.com/bloodlink/bloodlink/core"
)

var (
	ErrProfileNotFound     = errors.New("donor: profile not found")
	ErrInvalidAvailability = errors.New("donor: availability must be a boolean")
)

var httpErrors = []struct {
	err  error
	http core.HTTPError
}{
	{ErrProfileNotFound, core.ErrProfileNotFound.WithMessage("Donor profile not found")},
	{ErrInvalidAvailability, core.NewHTTPError(http.StatusBadRequest, "INVALID_AVAILABILITY", "isAvailable must be a boolean value")},
}

// HTTPError maps donor errors to their client-facing form.
func HTTPError(err error) error {
	for _, m := range httpErrors {
		if errors.Is(err, m.err) {
			return m.http
		}
	}
	return err
}
