package donor

import (
	"net/http"
	"time"

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

// Router serves /donors. The directory and stats are public; the rest is
// for signed-in donors.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.With(h.auth.Optional).Get("/", wrap(h.list, h.errorHandler, binder.Query()))
	r.Get("/stats", wrap(h.stats, h.errorHandler))

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Require, h.auth.RequireRole(core.RoleDonor))
		r.Get("/profile", wrap(h.profile, h.errorHandler))
		r.Put("/profile", wrap(h.updateProfile, h.errorHandler, binder.JSON()))
		r.Put("/availability", wrap(h.setAvailability, h.errorHandler, binder.JSON()))
		r.Post("/donations", wrap(h.recordDonation, h.errorHandler, binder.JSON()))
		r.Get("/donations", wrap(h.donationHistory, h.errorHandler))
	})
	return r
}

type listResponse struct {
	Donors     []Listing   `json:"donors"`
	Pagination core.Window `json:"pagination"`
}

func (h *Handlers) list(ctx handler.Context, q ListQuery) handler.Response {
	_, authenticated := account.UserFromContext(ctx)
	donors, page, err := h.svc.List(ctx, q, authenticated)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(listResponse{Donors: donors, Pagination: page})
}

func (h *Handlers) stats(ctx handler.Context, _ struct{}) handler.Response {
	st, err := h.svc.Stats(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(st)
}

type donorResponse struct {
	Donor core.Donor `json:"donor"`
}

func (h *Handlers) profile(ctx handler.Context, _ struct{}) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	d, err := h.svc.Profile(ctx, u.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(donorResponse{Donor: d})
}

func (h *Handlers) updateProfile(ctx handler.Context, req UpdateProfileRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	d, err := h.svc.UpdateProfile(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(donorResponse{Donor: d}, handler.WithMessage("Donor profile updated successfully"))
}

type availabilityResponse struct {
	IsAvailable bool      `json:"isAvailable"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (h *Handlers) setAvailability(ctx handler.Context, req AvailabilityRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	d, err := h.svc.SetAvailability(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	state := "unavailable"
	if d.IsAvailable {
		state = "available"
	}
	return handler.JSON(availabilityResponse{IsAvailable: d.IsAvailable, UpdatedAt: d.UpdatedAt},
		handler.WithMessage("Availability updated to "+state))
}

func (h *Handlers) recordDonation(ctx handler.Context, req DonationRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	d, err := h.svc.RecordDonation(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(donorResponse{Donor: d}, "Donation recorded successfully")
}

func (h *Handlers) donationHistory(ctx handler.Context, _ struct{}) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	hist, err := h.svc.DonationHistory(ctx, u.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]DonationHistory{"donationHistory": hist})
}
