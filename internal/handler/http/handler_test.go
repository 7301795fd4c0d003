// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

const (
	testAppKey    = "kid"
	testAppSecret = "secret"
	testSignKey   = "sign-key"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, app config.App) *Handler {
	t.Helper()
	cfg := &config.ServerConfig{App: app, Server: config.Server{HTTPAddress: ":0"}}
	h := NewHandler(store.NewMemoryAdapter(), cfg, logger.Nop())
	h.now = func() time.Time { return testNow }
	return h
}

func defaultApp() config.App {
	return config.App{AppKey: testAppKey, AppSecret: testAppSecret, TokenSignKey: testSignKey, Version: "1.2.3"}
}

func basicAuth(key, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(key+":"+secret))
}

func serve(h *Handler, method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAuth(t *testing.T) {
	token, err := utils.GenerateJWTToken("test", "user-1", time.Hour, testSignKey)
	require.NoError(t, err)
	foreign, err := utils.GenerateJWTToken("test", "user-1", time.Hour, "other-key")
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		auth       string
		wantStatus int
	}{
		{name: "no header", path: "/appdata/kid/books", wantStatus: http.StatusUnauthorized},
		{name: "unknown scheme", path: "/appdata/kid/books", auth: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "scheme only", path: "/appdata/kid/books", auth: "Basic", wantStatus: http.StatusUnauthorized},
		{name: "broken base64", path: "/appdata/kid/books", auth: "Basic !!!", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", path: "/appdata/kid/books", auth: basicAuth(testAppKey, "nope"), wantStatus: http.StatusUnauthorized},
		{name: "key does not match url", path: "/appdata/other/books", auth: basicAuth("other", testAppSecret), wantStatus: http.StatusUnauthorized},
		{name: "app credentials", path: "/appdata/kid/books", auth: basicAuth(testAppKey, testAppSecret), wantStatus: http.StatusOK},
		{name: "valid token", path: "/appdata/kid/books", auth: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "token signed by someone else", path: "/appdata/kid/books", auth: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", path: "/appdata/kid/books", auth: "Bearer abc.def", wantStatus: http.StatusUnauthorized},
	}

	h := newTestHandler(t, defaultApp())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.path, "", tt.auth)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusUnauthorized {
				body := decodeBody[utils.ErrorBody](t, rec)
				assert.Equal(t, "InvalidCredentialsError", body.Error)
			}
		})
	}
}

// TestAuth_UnsignedTokensWithoutSignKey — без ключа подписи токен не проверяется.
func TestAuth_UnsignedTokensWithoutSignKey(t *testing.T) {
	app := defaultApp()
	app.TokenSignKey = ""
	h := newTestHandler(t, app)

	token, err := utils.GenerateJWTToken("test", "user-1", time.Hour, "anything")
	require.NoError(t, err)

	rec := serve(h, http.MethodGet, "/appdata/kid/books", "", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCollection_CRUD(t *testing.T) {
	h := newTestHandler(t, defaultApp())
	auth := basicAuth(testAppKey, testAppSecret)

	rec := serve(h, http.MethodPost, "/appdata/kid/books", `{"title":"Dune","year":1965,"_kmd":{"local":true}}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Document](t, rec)

	id := created.ID()
	assert.Len(t, id, 24)
	assert.Equal(t, "2026-10-18T12:00:00.000Z", created.LastModified())
	assert.False(t, created.IsLocal(), "client flags are not stored")

	rec = serve(h, http.MethodGet, "/appdata/kid/books/"+id, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dune", decodeBody[models.Document](t, rec)["title"])

	rec = serve(h, http.MethodPut, "/appdata/kid/books/"+id, `{"_id":"ignored","title":"Dune Messiah","year":1969}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[models.Document](t, rec)
	assert.Equal(t, id, updated.ID(), "the id comes from the url")
	assert.Equal(t, "Dune Messiah", updated["title"])

	rec = serve(h, http.MethodDelete, "/appdata/kid/books/"+id, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[countResponse](t, rec).Count)

	rec = serve(h, http.MethodDelete, "/appdata/kid/books/"+id, "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFoundError", decodeBody[utils.ErrorBody](t, rec).Error)

	rec = serve(h, http.MethodGet, "/appdata/kid/books/"+id, "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollection_PutCreatesMissingDocument(t *testing.T) {
	h := newTestHandler(t, defaultApp())
	auth := basicAuth(testAppKey, testAppSecret)

	rec := serve(h, http.MethodPut, "/appdata/kid/books/b1", `{"title":"Solaris"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/appdata/kid/books/b1", "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCollection_FindWithQuery(t *testing.T) {
	h := newTestHandler(t, defaultApp())
	auth := basicAuth(testAppKey, testAppSecret)

	for _, body := range []string{
		`{"_id":"1","genre":"sf","year":1965}`,
		`{"_id":"2","genre":"sf","year":1961}`,
		`{"_id":"3","genre":"drama","year":1950}`,
		`{"_id":"4","genre":"sf","year":1972}`,
	} {
		rec := serve(h, http.MethodPost, "/appdata/kid/books", body, auth)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := serve(h, http.MethodGet, `/appdata/kid/books?query=%7B%22genre%22%3A%22sf%22%7D&sort=%7B%22year%22%3A1%7D&limit=2`, "", auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	docs := decodeBody[[]models.Document](t, rec)
	require.Len(t, docs, 2)
	assert.Equal(t, "2", docs[0].ID())
	assert.Equal(t, "1", docs[1].ID())

	// limit не влияет на _count
	rec = serve(h, http.MethodGet, `/appdata/kid/books/_count?query=%7B%22genre%22%3A%22sf%22%7D&limit=1`, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeBody[countResponse](t, rec).Count)

	rec = serve(h, http.MethodGet, "/appdata/kid/books?query=not-json", "", auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "KinveyError", decodeBody[utils.ErrorBody](t, rec).Error)
}

func TestCollection_EmptyCollection(t *testing.T) {
	h := newTestHandler(t, defaultApp())

	rec := serve(h, http.MethodGet, "/appdata/kid/nothing", "", basicAuth(testAppKey, testAppSecret))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCollection_InvalidBody(t *testing.T) {
	h := newTestHandler(t, defaultApp())

	rec := serve(h, http.MethodPost, "/appdata/kid/books", `[1,2]`, basicAuth(testAppKey, testAppSecret))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "KinveyError", decodeBody[utils.ErrorBody](t, rec).Error)
}

func TestCollection_TokenUserBecomesCreator(t *testing.T) {
	h := newTestHandler(t, defaultApp())
	token, err := utils.GenerateJWTToken("test", "user-1", time.Hour, testSignKey)
	require.NoError(t, err)

	rec := serve(h, http.MethodPost, "/appdata/kid/books", `{"title":"Dune"}`, "Bearer "+token)
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := decodeBody[models.Document](t, rec)
	assert.Equal(t, map[string]any{"creator": "user-1"}, doc[models.ACLField])
}

func TestDeltaSet_NotEnabled(t *testing.T) {
	h := newTestHandler(t, defaultApp())

	rec := serve(h, http.MethodGet, "/appdata/kid/books/_deltaset?since=2026-10-18T10:00:00.000Z", "", basicAuth(testAppKey, testAppSecret))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MissingConfigurationError", decodeBody[utils.ErrorBody](t, rec).Error)
}

func TestPing(t *testing.T) {
	h := newTestHandler(t, defaultApp())

	rec := serve(h, http.MethodGet, "/appdata/kid/", "", basicAuth(testAppKey, testAppSecret))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "hello kid", body["kinvey"])
}

func TestNotFoundRoute(t *testing.T) {
	h := newTestHandler(t, defaultApp())

	rec := serve(h, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFoundError", decodeBody[utils.ErrorBody](t, rec).Error)

	rec = serve(h, http.MethodPatch, "/appdata/kid/books/1", "", basicAuth(testAppKey, testAppSecret))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(t, defaultApp())

	req := httptest.NewRequest(http.MethodGet, "/appdata/kid/books", nil)
	req.Header.Set("Authorization", basicAuth(testAppKey, testAppSecret))
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))

	rec = serve(h, http.MethodGet, "/appdata/kid/books", "", basicAuth(testAppKey, testAppSecret))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestLogin(t *testing.T) {
	h := newTestHandler(t, defaultApp())
	auth := basicAuth(testAppKey, testAppSecret)

	rec := serve(h, http.MethodPost, "/user/kid/login", `{"username":"alice","password":"x"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[loginResponse](t, rec)
	assert.Equal(t, "alice", resp.Username)

	token, _ := resp.Metadata["authtoken"].(string)
	claims, err := utils.ValidateAndParseJWTToken(token, testSignKey)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)

	rec = serve(h, http.MethodPost, "/user/kid/login", `{}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodPost, "/user/kid/login", `{"username":"alice"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_SigningDisabled(t *testing.T) {
	app := defaultApp()
	app.TokenSignKey = ""
	h := newTestHandler(t, app)

	rec := serve(h, http.MethodPost, "/user/kid/login", `{"username":"alice"}`, basicAuth(testAppKey, testAppSecret))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MissingConfigurationError", decodeBody[utils.ErrorBody](t, rec).Error)
}
