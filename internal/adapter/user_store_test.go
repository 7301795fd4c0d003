// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/session"
)

func newTestUserStore(t *testing.T, handler http.HandlerFunc) *UserStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	transport, err := NewHTTPTransport(srv.URL, time.Second, logger.Nop())
	require.NoError(t, err)
	return NewUserStore(DefaultPipeline(transport, session.New(), "kid", "secret", "1.0.0"), "kid", logger.Nop())
}

func TestUserStore_Login(t *testing.T) {
	us := newTestUserStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/kid/login", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Basic ")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"_id":  "alice",
			"_kmd": map[string]any{"authtoken": "token-1"},
		})
	})

	token, err := us.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
}

func TestUserStore_Login_NoToken(t *testing.T) {
	us := newTestUserStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"_id": "alice"})
	})

	_, err := us.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, errs.ErrServer)
}

func TestUserStore_Login_Rejected(t *testing.T) {
	us := newTestUserStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"error": "InvalidCredentialsError"})
	})

	_, err := us.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}
