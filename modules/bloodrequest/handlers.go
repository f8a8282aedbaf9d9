package bloodrequest

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

// Router serves /blood-requests. Everything requires a signed-in user; the
// feed is for donors and the rest for health centers.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.auth.Require)

	r.With(h.auth.RequireRole(core.RoleDonor)).
		Get("/donor", wrap(h.feed, h.errorHandler, binder.Query()))

	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireRole(core.RoleHealthCenter))
		r.Post("/", wrap(h.create, h.errorHandler, binder.JSON()))
		r.Get("/", wrap(h.list, h.errorHandler, binder.Query()))
		r.Get("/{id}", wrap(h.get, h.errorHandler, binder.Path()))
		r.Put("/{id}", wrap(h.update, h.errorHandler, binder.Path(), binder.JSON()))
		r.Delete("/{id}", wrap(h.cancel, h.errorHandler, binder.Path()))
	})
	return r
}

type summaryResponse struct {
	BloodRequest Summary `json:"bloodRequest"`
}

type requestResponse struct {
	BloodRequest core.BloodRequest `json:"bloodRequest"`
}

type listResponse[T any] struct {
	Requests   []T       `json:"requests"`
	Pagination core.Page `json:"pagination"`
}

func (h *Handlers) create(ctx handler.Context, req CreateRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	br, err := h.svc.Create(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(summaryResponse{BloodRequest: summarize(br)},
		"Blood request created successfully. Eligible donors will be notified.")
}

func (h *Handlers) list(ctx handler.Context, q ListQuery) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	items, page, err := h.svc.List(ctx, u.ID, q)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(listResponse[core.BloodRequest]{Requests: items, Pagination: page})
}

func (h *Handlers) feed(ctx handler.Context, q FeedQuery) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	items, page, err := h.svc.Feed(ctx, u.ID, q)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(listResponse[FeedItem]{Requests: items, Pagination: page})
}

func (h *Handlers) get(ctx handler.Context, p IDParam) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	br, err := h.svc.Get(ctx, u.ID, p.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(requestResponse{BloodRequest: br})
}

func (h *Handlers) update(ctx handler.Context, req UpdateRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	br, err := h.svc.Update(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(requestResponse{BloodRequest: br}, handler.WithMessage("Blood request updated successfully"))
}

func (h *Handlers) cancel(ctx handler.Context, p IDParam) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	if err := h.svc.Cancel(ctx, u.ID, p.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Message("Blood request cancelled successfully")
}
