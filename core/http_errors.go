package core

import "net/http"

// HTTPError is an error with a fixed HTTP status and a stable machine code.
// Message is what clients see.
type HTTPError struct {
	Code    int
	Key     string
	Message string
}

func (e HTTPError) Error() string {
	return e.Message
}

// WithMessage returns a copy of e with a different client message.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// Is matches any HTTPError with the same Key, regardless of message.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Key == e.Key && t.Code == e.Code
}

func NewHTTPError(code int, key, message string) HTTPError {
	return HTTPError{Code: code, Key: key, Message: message}
}

var (
	ErrValidation              = HTTPError{http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed"}
	ErrInvalidPassword         = HTTPError{http.StatusBadRequest, "INVALID_PASSWORD", "Current password is incorrect"}
	ErrInvalidResetToken       = HTTPError{http.StatusBadRequest, "INVALID_RESET_TOKEN", "Invalid or expired password reset token"}
	ErrAlreadyVerified         = HTTPError{http.StatusBadRequest, "ALREADY_VERIFIED", "Health center is already verified"}
	ErrInvalidStatusTransition = HTTPError{http.StatusBadRequest, "INVALID_STATUS_TRANSITION", "Status change is not allowed"}

	ErrUnauthorized        = HTTPError{http.StatusUnauthorized, "NOT_AUTHENTICATED", "You are not logged in! Please log in to get access."}
	ErrInvalidToken        = HTTPError{http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token. Please log in again."}
	ErrInvalidCredentials  = HTTPError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrRoleMismatch        = HTTPError{http.StatusUnauthorized, "ROLE_MISMATCH", "Invalid role for this account"}
	ErrInvalidRefreshToken = HTTPError{http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token"}

	ErrAccessDenied     = HTTPError{http.StatusForbidden, "ACCESS_DENIED", "You do not have permission to perform this action"}
	ErrAccountSuspended = HTTPError{http.StatusForbidden, "ACCOUNT_SUSPENDED", "Your account has been suspended. Please contact support."}
	ErrAccountInactive  = HTTPError{http.StatusForbidden, "ACCOUNT_INACTIVE", "Your account is inactive. Please contact support."}

	ErrNotFound        = HTTPError{http.StatusNotFound, "NOT_FOUND", "Resource not found"}
	ErrUserNotFound    = HTTPError{http.StatusNotFound, "USER_NOT_FOUND", "User not found"}
	ErrProfileNotFound = HTTPError{http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found. Please complete your profile setup."}
	ErrRequestNotFound = HTTPError{http.StatusNotFound, "REQUEST_NOT_FOUND", "Blood request not found"}

	ErrEmailExists           = HTTPError{http.StatusConflict, "EMAIL_EXISTS", "User with this email already exists"}
	ErrTelegramAlreadyLinked = HTTPError{http.StatusConflict, "TELEGRAM_ALREADY_LINKED", "This Telegram account is already linked to another user"}

	ErrMethodNotAllowed = HTTPError{http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"}
	ErrTooManyRequests  = HTTPError{http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests from this IP, please try again later."}

	ErrInternal = HTTPError{http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Something went wrong!"}
)
