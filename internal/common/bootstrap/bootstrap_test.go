package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/config"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
)

func newTestApp(t *testing.T) (*App, *clock.MockClock) {
	t.Helper()
	cfg := config.TrackerConfig{
		DatabaseURL:            "sqlite://:memory:",
		SessionSecret:          "0123456789abcdef0123456789abcdef",
		SessionTTL:             time.Hour,
		RequestTimeout:         5 * time.Second,
		SessionCleanupInterval: time.Hour,
	}
	clk := clock.NewMockClock(time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC))

	app, err := NewApp(context.Background(), cfg, logger.NewWriter(io.Discard, "test", "error"), Options{
		Clock:      clk,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, clk
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/login",
		`{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestApp_EndToEnd(t *testing.T) {
	app, clk := newTestApp(t)
	h := app.Handler
	assert.Equal(t, config.StoreSQLite, app.Store)

	rec := do(t, h, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"pw123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"other"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already taken")

	rec = do(t, h, http.MethodPost, "/api/auth/register", `{"username":"bob","password":"pw456"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	aliceToken := login(t, h, "alice", "pw123")
	bobToken := login(t, h, "bob", "pw456")

	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":"X","description":"first task","due_date":"2024-01-01"}`, aliceToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":"","description":"no title","due_date":"2024-01-01"}`, aliceToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing field: title")

	rec = do(t, h, http.MethodGet, "/api/tasks", "", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []struct {
			Title   string `json:"title"`
			DueDate string `json:"due_date"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "X", list.Items[0].Title)
	assert.Equal(t, "2024-01-01", list.Items[0].DueDate)

	rec = do(t, h, http.MethodGet, "/api/tasks", "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)

	rec = do(t, h, http.MethodGet, "/api/summary", "", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"habits":0,"tasks":1,"goals":0}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/logout", "", aliceToken)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/auth/logout", "", aliceToken)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/auth/me", "", aliceToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	clk.Advance(2 * time.Hour)
	rec = do(t, h, http.MethodGet, "/api/auth/me", "", bobToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "expired session must not resolve")
}

func TestApp_PagesRedirectAnonymous(t *testing.T) {
	app, _ := newTestApp(t)

	rec := do(t, app.Handler, http.MethodGet, "/habits", "", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = do(t, app.Handler, http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestApp_Health(t *testing.T) {
	app, _ := newTestApp(t)

	rec := do(t, app.Handler, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewApp_RejectsUnknownStore(t *testing.T) {
	_, err := NewApp(context.Background(), config.TrackerConfig{DatabaseURL: "mysql://x"}, logger.NewWriter(io.Discard, "test", "error"), Options{})
	assert.Error(t, err)
}
