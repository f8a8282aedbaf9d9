package account

import (
	"errors"

	"github.com/bloodlink/bloodlink/core"
)

var (
	ErrEmailTaken          = errors.New("account: email already registered")
	ErrUserNotFound        = errors.New("account: user not found")
	ErrInvalidCredentials  = errors.New("account: invalid credentials")
	ErrRoleMismatch        = errors.New("account: role mismatch")
	ErrAccountSuspended    = errors.New("account: suspended")
	ErrAccountInactive     = errors.New("account: inactive")
	ErrInvalidRefreshToken = errors.New("account: invalid or expired refresh token")
	ErrInvalidResetToken   = errors.New("account: invalid or expired reset token")
	ErrWrongPassword       = errors.New("account: current password is incorrect")
	ErrInvalidAccessToken  = errors.New("account: invalid access token")
)

var httpErrors = []struct {
	err  error
	http core.HTTPError
}{
	{ErrEmailTaken, core.ErrEmailExists},
	{ErrUserNotFound, core.ErrUserNotFound},
	{ErrInvalidCredentials, core.ErrInvalidCredentials},
	{ErrRoleMismatch, core.ErrRoleMismatch},
	{ErrAccountSuspended, core.ErrAccountSuspended},
	{ErrAccountInactive, core.ErrAccountInactive},
	{ErrInvalidRefreshToken, core.ErrInvalidRefreshToken},
	{ErrInvalidResetToken, core.ErrInvalidResetToken},
	{ErrWrongPassword, core.ErrInvalidPassword},
	{ErrInvalidAccessToken, core.ErrInvalidToken},
}

// HTTPError maps account errors to their client-facing form. Unknown errors
// are returned unchanged.
func HTTPError(err error) error {
	for _, m := range httpErrors {
		if errors.Is(err, m.err) {
			return m.http
		}
	}
	return err
}
