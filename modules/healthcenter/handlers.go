package healthcenter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/handler"
	"github.com/bloodlink/bloodlink/modules/account"
	"github.com/bloodlink/bloodlink/pkg/binder"
)

type Handlers struct {
	svc          *Service
	auth         *account.Middleware
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewHandlers(svc *Service, auth *account.Middleware, errorHandler handler.ErrorHandler[handler.Context]) *Handlers {
	h := &Handlers{svc: svc, auth: auth}
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

// Router serves /health-centers.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.With(h.auth.Optional).Get("/", wrap(h.list, h.errorHandler, binder.Query()))
	r.Get("/stats", wrap(h.stats, h.errorHandler))

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Require, h.auth.RequireRole(core.RoleHealthCenter))
		r.Get("/profile", wrap(h.profile, h.errorHandler))
		r.Put("/profile", wrap(h.updateProfile, h.errorHandler, binder.JSON()))
		r.Post("/verification", wrap(h.submitVerification, h.errorHandler, binder.JSON()))
		r.Get("/verification", wrap(h.verificationStatus, h.errorHandler))
		r.Get("/search-donors", wrap(h.searchDonors, h.errorHandler, binder.Query()))
	})
	return r
}

type listResponse struct {
	HealthCenters []Listing   `json:"healthCenters"`
	Pagination    core.Window `json:"pagination"`
}

func (h *Handlers) list(ctx handler.Context, q ListQuery) handler.Response {
	_, authenticated := account.UserFromContext(ctx)
	centers, page, err := h.svc.List(ctx, q, authenticated)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(listResponse{HealthCenters: centers, Pagination: page})
}

func (h *Handlers) stats(ctx handler.Context, _ struct{}) handler.Response {
	st, err := h.svc.Stats(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(st)
}

type centerResponse struct {
	HealthCenter core.HealthCenter `json:"healthCenter"`
}

func (h *Handlers) profile(ctx handler.Context, _ struct{}) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	hc, err := h.svc.Profile(ctx, u.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(centerResponse{HealthCenter: hc})
}

func (h *Handlers) updateProfile(ctx handler.Context, req UpdateProfileRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	hc, err := h.svc.UpdateProfile(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(centerResponse{HealthCenter: hc}, handler.WithMessage("Health center profile updated successfully"))
}

func (h *Handlers) submitVerification(ctx handler.Context, req VerificationRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	hc, err := h.svc.SubmitVerification(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(centerResponse{HealthCenter: hc},
		handler.WithMessage("Verification request submitted successfully. Our team will review it shortly."))
}

func (h *Handlers) verificationStatus(ctx handler.Context, _ struct{}) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	st, err := h.svc.VerificationStatus(ctx, u.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]VerificationStatus{"verificationStatus": st})
}

func (h *Handlers) searchDonors(ctx handler.Context, q SearchQuery) handler.Response {
	res, err := h.svc.SearchDonors(ctx, q)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}
