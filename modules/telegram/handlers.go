package telegram

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/handler"
	"github.com/bloodlink/bloodlink/modules/account"
	"github.com/bloodlink/bloodlink/modules/bloodrequest"
	"github.com/bloodlink/bloodlink/pkg/binder"
	"github.com/bloodlink/bloodlink/pkg/webhook"
)

const signatureMaxAge = 5 * time.Minute

type Handlers struct {
	svc          *Service
	auth         *account.Middleware
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewHandlers(svc *Service, auth *account.Middleware, errorHandler handler.ErrorHandler[handler.Context]) *Handlers {
	h := &Handlers{svc: svc, auth: auth}
	h.errorHandler = func(ctx handler.Context, err error) {
		errorHandler(ctx, bloodrequest.HTTPError(HTTPError(err)))
	}
	return h
}

func wrap[R any](h handler.HandlerFunc[handler.Context, R], onErr handler.ErrorHandler[handler.Context], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](onErr),
	)
}

// Router serves /telegram. Deep links and linking are called by the
// frontend and the bot without a session.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/deep-link/{userId}", wrap(h.deepLink, h.errorHandler, binder.Path()))
	r.Post("/link-telegram", wrap(h.link, h.errorHandler, signedJSON(h.svc.cfg.Secret)))

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Require)
		r.Get("/test-broadcast", wrap(h.testBroadcast, h.errorHandler))
		r.With(h.auth.RequireRole(core.RoleHealthCenter)).
			Post("/notify-blood-request", wrap(h.notify, h.errorHandler, binder.JSON()))
	})
	return r
}

// signedJSON decodes a JSON body after checking the bot's webhook
// signature. An empty secret disables the check.
func signedJSON(secret string) handler.Bind {
	decode := binder.JSON()
	if secret == "" {
		return decode
	}
	return func(r *http.Request, v any) error {
		body, err := io.ReadAll(io.LimitReader(r.Body, binder.DefaultMaxJSONSize))
		if err != nil {
			return err
		}
		headers, err := webhook.ParseSignatureHeaders(r.Header)
		if err != nil {
			return ErrInvalidSignature
		}
		if err := webhook.VerifySignature(secret, body, headers, signatureMaxAge); err != nil {
			return ErrInvalidSignature
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		return decode(r, v)
	}
}

func (h *Handlers) deepLink(ctx handler.Context, p UserIDParam) handler.Response {
	link, err := h.svc.DeepLink(ctx, p.UserID)
	if err != nil {
		return handler.Error(err)
	}
	msg := "Deep link generated successfully. Click the link to connect your Telegram account."
	if link.IsAlreadyLinked {
		msg = "Telegram account already linked. You can still use this link to reconnect."
	}
	return handler.JSON(link, handler.WithMessage(msg))
}

func (h *Handlers) link(ctx handler.Context, req LinkRequest) handler.Response {
	link, err := h.svc.Link(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(link, handler.WithMessage("Telegram account linked successfully"))
}

func (h *Handlers) testBroadcast(ctx handler.Context, _ struct{}) handler.Response {
	res, err := h.svc.TestBroadcast(ctx)
	if err != nil {
		return handler.Error(err)
	}
	msg := "Test broadcast sent successfully"
	if res.Recipients == 0 {
		msg = "No users with linked Telegram accounts found for testing"
	}
	return handler.JSON(res, handler.WithMessage(msg))
}

func (h *Handlers) notify(ctx handler.Context, req NotifyRequest) handler.Response {
	u, ok := account.UserFromContext(ctx)
	if !ok {
		return handler.Error(core.ErrUnauthorized)
	}
	out, err := h.svc.NotifyBloodRequest(ctx, u.ID, req)
	if err != nil {
		return handler.Error(err)
	}
	msg := "Blood request notifications sent successfully"
	if out.EligibleDonors == 0 {
		msg = "No eligible donors with linked Telegram accounts found"
	}
	return handler.JSON(out, handler.WithMessage(msg))
}
