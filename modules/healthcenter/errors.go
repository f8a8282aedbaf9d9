package healthcenter

import (
	"errors"
	"net/http"

	"github.com/bloodlink/bloodlink/core"
)

var (
	ErrProfileNotFound   = errors.New("healthcenter: profile not found")
	ErrAlreadyVerified   = errors.New("healthcenter: already verified")
	ErrBloodTypeRequired = errors.New("healthcenter: blood type required")
)

var httpErrors = []struct {
	err  error
	http core.HTTPError
}{
	{ErrProfileNotFound, core.ErrProfileNotFound.WithMessage("Health center profile not found")},
	{ErrAlreadyVerified, core.ErrAlreadyVerified},
	{ErrBloodTypeRequired, core.NewHTTPError(http.StatusBadRequest, "BLOOD_TYPE_REQUIRED", "Blood type is required for donor search")},
}

// HTTPError maps health center errors to their client-facing form.
func HTTPError(err error) error {
	for _, m := range httpErrors {
		if errors.Is(err, m.err) {
			return m.http
		}
	}
	return err
}
