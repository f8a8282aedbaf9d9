// Package accounttest provides fakes for handlers that sit behind
// account.Middleware.
package accounttest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/account"
)

// Tokens maps bearer tokens to the users they authenticate.
type Tokens map[string]core.User

func (t Tokens) Authenticate(_ context.Context, token string) (core.User, error) {
	u, ok := t[token]
	if !ok {
		return core.User{}, account.ErrInvalidAccessToken
	}
	return u, nil
}

// User returns an active user of role with a fresh ID.
func User(role core.Role) core.User {
	return core.User{
		ID:       uuid.New(),
		Email:    string(role) + "@example.com",
		Role:     role,
		Status:   core.UserActive,
		Phone:    "+251911000000",
		Location: "Addis Ababa",
	}
}

// DoJSON sends body as JSON (if non-nil) with an optional bearer token and
// decodes the JSON reply.
func DoJSON(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

// Data returns the "data" object of a success envelope.
func Data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "no data object in %v", body)
	return data
}
