package binder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/pkg/binder"
)

type createRequest struct {
	BloodType   string `json:"bloodType"`
	UnitsNeeded int    `json:"unitsNeeded"`
	PatientAge  *int   `json:"patientAge"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantErr     error
		want        createRequest
	}{
		{
			name:        "valid body",
			method:      http.MethodPost,
			contentType: "application/json; charset=utf-8",
			body:        `{"bloodType":"O-","unitsNeeded":3,"extra":true}`,
			want:        createRequest{BloodType: "O-", UnitsNeeded: 3},
		},
		{
			name:        "missing content type",
			method:      http.MethodPost,
			body:        `{}`,
			wantErr:     binder.ErrMissingContentType,
		},
		{
			name:        "wrong media type",
			method:      http.MethodPost,
			contentType: "text/plain",
			body:        `{}`,
			wantErr:     binder.ErrUnsupportedMediaType,
		},
		{
			name:        "malformed",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"bloodType":`,
			wantErr:     binder.ErrFailedToParseJSON,
		},
		{
			name:        "wrong type",
			method:      http.MethodPut,
			contentType: "application/json",
			body:        `{"unitsNeeded":"three"}`,
			wantErr:     binder.ErrFailedToParseJSON,
		},
		{
			name:        "empty body",
			method:      http.MethodPost,
			contentType: "application/json",
			wantErr:     binder.ErrFailedToParseJSON,
		},
		{
			name:    "bodyless post is skipped",
			method:  http.MethodPost,
			wantErr: binder.ErrBinderNotApplicable,
		},
		{
			name:    "bodyless delete is skipped",
			method:  http.MethodDelete,
			wantErr: binder.ErrBinderNotApplicable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			var got createRequest
			err := binder.JSON()(r, &got)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantErr != binder.ErrBinderNotApplicable, binder.IsBindError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type listQuery struct {
	Status   string   `query:"status"`
	Page     int      `query:"page"`
	Urgent   bool     `query:"urgent"`
	Types    []string `query:"types"`
	Ignored  string   `query:"-"`
	Location string
}

func TestQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?status=active&page=2&urgent=true&types=A%2B,O-&Ignored=x&location=Kigali", nil)
	var q listQuery
	require.NoError(t, binder.Query()(r, &q))
	assert.Equal(t, listQuery{Status: "active", Page: 2, Urgent: true, Types: []string{"A+", "O-"}, Location: "Kigali"}, q)

	r = httptest.NewRequest(http.MethodGet, "/?page=two", nil)
	assert.ErrorIs(t, binder.Query()(r, &q), binder.ErrFailedToParseQuery)

	assert.ErrorIs(t, binder.Query()(r, q), binder.ErrFailedToParseQuery)
}

type pathParams struct {
	ID     uuid.UUID `path:"id"`
	UserID string    `path:"userId"`
}

func TestPath(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	rctx.URLParams.Add("userId", "u-1")
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	var p pathParams
	require.NoError(t, binder.Path()(r, &p))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "u-1", p.UserID)

	bad := chi.NewRouteContext()
	bad.URLParams.Add("id", "not-a-uuid")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, bad))
	assert.ErrorIs(t, binder.Path()(r, &p), binder.ErrFailedToParsePath)

	assert.ErrorIs(t, binder.PathWith(nil)(r, &p), binder.ErrFailedToParsePath)
}
