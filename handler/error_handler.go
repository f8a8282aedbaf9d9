package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/binder"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/requestid"
	"github.com/bloodlink/bloodlink/pkg/validator"
)

// ErrorBody is the failure body shape.
type ErrorBody struct {
	Success   bool                       `json:"success"`
	Status    string                     `json:"status"`
	Code      string                     `json:"code"`
	Message   string                     `json:"message"`
	Timestamp string                     `json:"timestamp"`
	RequestID string                     `json:"requestId,omitempty"`
	Errors    []validator.ValidationError `json:"errors,omitempty"`
}

// ErrorResponder classifies errors, logs them and writes ErrorBody.
type ErrorResponder struct {
	log        *slog.Logger
	production bool
	now        func() time.Time
}

// NewErrorResponder creates a responder. In production, messages of
// unclassified errors are replaced with a generic one.
func NewErrorResponder(log *slog.Logger, production bool) *ErrorResponder {
	if log == nil {
		log = slog.Default()
	}
	return &ErrorResponder{log: log, production: production, now: time.Now}
}

// Handle satisfies ErrorHandler[Context].
func (e *ErrorResponder) Handle(ctx Context, err error) {
	e.Write(ctx.ResponseWriter(), ctx.Request(), err)
}

// Write renders err for r. Usable from plain middleware.
func (e *ErrorResponder) Write(w http.ResponseWriter, r *http.Request, err error) {
	body, status := e.classify(err)
	body.RequestID = requestid.FromContext(r.Context())

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	e.log.LogAttrs(r.Context(), level, "request error",
		logger.Error(err),
		slog.Int("status_code", status),
		slog.String("code", body.Code),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	)

	if wErr := writeJSON(w, status, body); wErr != nil {
		e.log.ErrorContext(r.Context(), "failed to write error response", logger.Error(wErr))
	}
}

func (e *ErrorResponder) classify(err error) (ErrorBody, int) {
	body := ErrorBody{
		Success:   false,
		Status:    "error",
		Timestamp: e.now().UTC().Format(time.RFC3339),
	}

	var (
		httpErr core.HTTPError
		valErr  validator.ValidationErrors
		status  int
	)
	switch {
	case errors.As(err, &valErr):
		status = core.ErrValidation.Code
		body.Code = core.ErrValidation.Key
		body.Message = core.ErrValidation.Message
		body.Errors = valErr
	case errors.As(err, &httpErr):
		status = httpErr.Code
		body.Code = httpErr.Key
		body.Message = httpErr.Message
	case binder.IsBindError(err):
		status = http.StatusBadRequest
		body.Code = core.ErrValidation.Key
		body.Message = err.Error()
	default:
		status = core.ErrInternal.Code
		body.Code = core.ErrInternal.Key
		body.Message = core.ErrInternal.Message
		if !e.production && err != nil {
			body.Message = err.Error()
		}
	}

	if status < http.StatusInternalServerError {
		body.Status = "fail"
	}
	return body, status
}
