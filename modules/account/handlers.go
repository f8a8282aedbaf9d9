package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/handler"
	"github.com/bloodlink/bloodlink/pkg/binder"
)

const msgForgotPassword = "If an account with that email exists, we have sent a password reset link."

type Handlers struct {
	svc          *Service
	auth         *Middleware
	authLimit    func(http.Handler) http.Handler
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewHandlers builds the /auth and /users routers. authLimit guards the
// credential endpoints; nil disables it.
func NewHandlers(svc *Service, auth *Middleware, authLimit func(http.Handler) http.Handler, errorHandler handler.ErrorHandler[handler.Context]) *Handlers {
	if authLimit == nil {
		authLimit = func(next http.Handler) http.Handler { return next }
	}
	h := &Handlers{svc: svc, auth: auth, authLimit: authLimit}
	h.errorHandler = func(ctx handler.Context, err error) {
		errorHandler(ctx, HTTPError(err))
	}
	return h
}

func wrap[R any](h handler.HandlerFunc[handler.Context, R], onErr handler.ErrorHandler[handler.Context], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](onErr),
	)
}

// AuthRouter serves registration, login and password management.
func (h *Handlers) AuthRouter() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.authLimit)
		r.Post("/register", wrap(h.register, h.errorHandler, binder.JSON()))
		r.Post("/login", wrap(h.login, h.errorHandler, binder.JSON()))
		r.Post("/forgot-password", wrap(h.forgotPassword, h.errorHandler, binder.JSON()))
		r.Post("/reset-password", wrap(h.resetPassword, h.errorHandler, binder.JSON()))
	})
	r.Post("/refresh", wrap(h.refresh, h.errorHandler, binder.JSON()))
	r.Post("/logout", wrap(h.logout, h.errorHandler, binder.JSON()))

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Require)
		r.Get("/me", wrap(h.me, h.errorHandler))
		r.Get("/profile", wrap(h.me, h.errorHandler))
		r.Post("/change-password", wrap(h.changePassword, h.errorHandler, binder.JSON()))
		r.Put("/change-password", wrap(h.changePassword, h.errorHandler, binder.JSON()))
	})
	return r
}

// UsersRouter serves the caller's own account.
func (h *Handlers) UsersRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(h.auth.Require)
	r.Get("/profile", wrap(h.me, h.errorHandler))
	r.Put("/profile", wrap(h.updateProfile, h.errorHandler, binder.JSON()))
	r.Get("/stats", wrap(h.stats, h.errorHandler))
	r.Delete("/account", wrap(h.deactivate, h.errorHandler))
	return r
}

func (h *Handlers) register(ctx handler.Context, req RegisterRequest) handler.Response {
	sess, err := h.svc.Register(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(sess, "Registration successful! Please verify your email address.")
}

func (h *Handlers) login(ctx handler.Context, req LoginRequest) handler.Response {
	sess, err := h.svc.Login(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(sess, handler.WithMessage("Login successful!"))
}

func (h *Handlers) refresh(ctx handler.Context, req RefreshRequest) handler.Response {
	sess, err := h.svc.Refresh(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(sess, handler.WithMessage("Token refreshed successfully"))
}

func (h *Handlers) logout(ctx handler.Context, req LogoutRequest) handler.Response {
	if err := h.svc.Logout(ctx, req.RefreshToken); err != nil {
		return handler.Error(err)
	}
	return handler.Message("Logged out successfully")
}

type forgotPasswordResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

func (h *Handlers) forgotPassword(ctx handler.Context, req ForgotPasswordRequest) handler.Response {
	tok, err := h.svc.ForgotPassword(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	resp := forgotPasswordResponse{Success: true, Message: msgForgotPassword}
	if h.svc.cfg.ExposeResetToken {
		resp.ResetToken = tok
	}
	return handler.RawJSON(http.StatusOK, resp)
}

func (h *Handlers) resetPassword(ctx handler.Context, req ResetPasswordRequest) handler.Response {
	if err := h.svc.ResetPassword(ctx, req); err != nil {
		return handler.Error(err)
	}
	return handler.Message("Password has been reset successfully. You can now log in with your new password.")
}

func (h *Handlers) changePassword(ctx handler.Context, req ChangePasswordRequest) handler.Response {
	u, ok := UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	if err := h.svc.ChangePassword(ctx, u.ID, req); err != nil {
		return handler.Error(err)
	}
	return handler.Message("Password changed successfully")
}

type userResponse struct {
	User core.Profile `json:"user"`
}

func (h *Handlers) me(ctx handler.Context, _ struct{}) handler.Response {
	u, ok := UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	p, err := h.svc.Profile(ctx, u.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(userResponse{User: p})
}

func (h *Handlers) updateProfile(ctx handler.Context, req UpdateProfileRequest) handler.Response {
	u, ok := UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	p, err := h.svc.UpdateProfile(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(userResponse{User: p}, handler.WithMessage("Profile updated successfully"))
}

func (h *Handlers) stats(ctx handler.Context, _ struct{}) handler.Response {
	u, ok := UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	stats, err := h.svc.Stats(ctx, u.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]any{"stats": stats})
}

func (h *Handlers) deactivate(ctx handler.Context, _ struct{}) handler.Response {
	u, ok := UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	if err := h.svc.Deactivate(ctx, u.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Message("Account deactivated successfully")
}
