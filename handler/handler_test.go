package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/handler"
	"github.com/bloodlink/bloodlink/pkg/binder"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/validator"
)

type greetRequest struct {
	Name string `json:"name"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrapSuccess(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, req greetRequest) handler.Response {
		return handler.Created(map[string]string{"greeting": "hi " + req.Name}, "Greeted")
	}, handler.WithBinders[handler.Context, greetRequest](binder.JSON()))

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada"}`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Greeted","data":{"greeting":"hi Ada"}}`, rec.Body.String())
}

func TestWrapDecoratorsRunOutermostFirst(t *testing.T) {
	t.Parallel()

	var order []string
	deco := func(name string) handler.Decorator[handler.Context, struct{}] {
		return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
			return func(ctx handler.Context, req struct{}) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		order = append(order, "handler")
		return handler.Message("ok")
	}, handler.WithDecorators(deco("a"), deco("b")))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
	assert.JSONEq(t, `{"success":true,"message":"ok"}`, rec.Body.String())
}

func TestWrapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		production bool
		err        error
		wantStatus int
		wantCode   string
		wantKind   string
		wantMsg    string
	}{
		{
			name:       "http error",
			err:        fmt.Errorf("lookup: %w", core.ErrRequestNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "REQUEST_NOT_FOUND",
			wantKind:   "fail",
			wantMsg:    "Blood request not found",
		},
		{
			name:       "validation error",
			err:        validator.Apply(validator.Required("email", "")),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantKind:   "fail",
			wantMsg:    "Validation failed",
		},
		{
			name:       "unknown error in development",
			err:        errors.New("db exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantKind:   "error",
			wantMsg:    "db exploded",
		},
		{
			name:       "unknown error in production",
			production: true,
			err:        errors.New("db exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantKind:   "error",
			wantMsg:    "Something went wrong!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			responder := handler.NewErrorResponder(logger.Nop(), tt.production)
			h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
				return handler.Error(tt.err)
			}, handler.WithErrorHandler[handler.Context, struct{}](responder.Handle))

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantKind, body["status"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotEmpty(t, body["timestamp"])
		})
	}
}

func TestValidationErrorsListed(t *testing.T) {
	t.Parallel()

	responder := handler.NewErrorResponder(logger.Nop(), true)
	rec := httptest.NewRecorder()
	responder.Write(rec, httptest.NewRequest(http.MethodPost, "/", nil), validator.Apply(
		validator.Required("email", ""),
		validator.Between("unitsNeeded", 0, 1, 10),
	))

	var body handler.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "email", body.Errors[0].Field)
	assert.Equal(t, "unitsNeeded", body.Errors[1].Field)
}

func TestBinderErrorIsBadRequest(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(handler.Context, greetRequest) handler.Response {
		t.Fatal("handler must not run")
		return nil
	}, handler.WithBinders[handler.Context, greetRequest](binder.JSON()))

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, rec)["code"])
}

func TestNilResponse(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(handler.Context, struct{}) handler.Response { return nil })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, handler.ErrNilResponse.Error(), decodeBody(t, rec)["message"])
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	key := handler.NewContextKey("user")
	assert.Equal(t, "user", key.String())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), key, 42))
	ctx := handler.NewContext(httptest.NewRecorder(), r)

	assert.Equal(t, 42, handler.ContextValue[int](ctx, key))
	_, ok := handler.ContextValueOK[string](ctx, key)
	assert.False(t, ok)
	assert.Same(t, r, ctx.Request())
}
