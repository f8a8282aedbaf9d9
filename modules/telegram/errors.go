package telegram

import (
	"errors"
	"net/http"

	"github.com/bloodlink/bloodlink/core"
)

var (
	ErrUserNotFound           = errors.New("telegram: user not found")
	ErrAlreadyLinked          = errors.New("telegram: chat already linked to another user")
	ErrBloodRequestIDRequired = errors.New("telegram: blood request id is required")
	ErrInvalidSignature       = errors.New("telegram: invalid bot signature")
)

var httpErrors = []struct {
	err  error
	http core.HTTPError
}{
	{ErrUserNotFound, core.ErrUserNotFound},
	{ErrAlreadyLinked, core.ErrTelegramAlreadyLinked},
	{ErrBloodRequestIDRequired, core.NewHTTPError(http.StatusBadRequest, "BLOOD_REQUEST_ID_REQUIRED", "Blood request ID is required")},
	{ErrInvalidSignature, core.NewHTTPError(http.StatusUnauthorized, "INVALID_SIGNATURE", "Request signature is missing or invalid")},
}

// HTTPError maps telegram errors to their client-facing form.
func HTTPError(err error) error {
	for _, m := range httpErrors {
		if errors.Is(err, m.err) {
			return m.http
		}
	}
	return err
}
