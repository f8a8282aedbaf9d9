package account

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/handler"
	"github.com/bloodlink/bloodlink/pkg/jwt"
)

var userKey = handler.NewContextKey("account.user")

var errTokenUserGone = core.NewHTTPError(http.StatusUnauthorized, "USER_NOT_FOUND",
	"The user belonging to this token does no longer exist.")

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u core.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user set by Middleware.Require or Optional.
func UserFromContext(ctx context.Context) (core.User, bool) {
	return handler.ContextValueOK[core.User](ctx, userKey)
}

// TokenAuthenticator resolves access tokens. Satisfied by *Service.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (core.User, error)
}

// ErrorWriter renders a middleware failure, e.g. handler.ErrorResponder.Write.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type Middleware struct {
	auth     TokenAuthenticator
	writeErr ErrorWriter
}

func NewMiddleware(auth TokenAuthenticator, writeErr ErrorWriter) *Middleware {
	return &Middleware{auth: auth, writeErr: writeErr}
}

// Require rejects requests without a valid bearer token for an account
// that is neither suspended nor inactive.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := jwt.BearerToken(r)
		if err != nil {
			m.writeErr(w, r, core.ErrUnauthorized)
			return
		}

		u, err := m.auth.Authenticate(r.Context(), tok)
		switch {
		case errors.Is(err, ErrInvalidAccessToken):
			m.writeErr(w, r, core.ErrInvalidToken)
			return
		case errors.Is(err, ErrUserNotFound):
			m.writeErr(w, r, errTokenUserGone)
			return
		case err != nil:
			m.writeErr(w, r, err)
			return
		}

		if err := CheckStatus(u.Status); err != nil {
			m.writeErr(w, r, HTTPError(err))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// Optional sets the user when a valid token of an active account is present
// and otherwise continues anonymously.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := jwt.BearerToken(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		u, err := m.auth.Authenticate(r.Context(), tok)
		if err != nil || u.Status != core.UserActive {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireRole admits authenticated users holding one of roles. Must run
// after Require.
func (m *Middleware) RequireRole(roles ...core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				m.writeErr(w, r, core.ErrUnauthorized)
				return
			}
			if !slices.Contains(roles, u.Role) {
				m.writeErr(w, r, core.ErrAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
