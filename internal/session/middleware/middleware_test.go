package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

var alice = userdomain.Identity{ID: "user-1", Username: "alice"}

type mockResolver struct {
	currentFunc func(ctx context.Context, token domain.Token) (userdomain.Identity, bool, error)
}

func (m *mockResolver) Current(ctx context.Context, token domain.Token) (userdomain.Identity, bool, error) {
	return m.currentFunc(ctx, token)
}

func tokenResolver(valid domain.Token) *mockResolver {
	return &mockResolver{currentFunc: func(_ context.Context, token domain.Token) (userdomain.Identity, bool, error) {
		if token == valid {
			return alice, true, nil
		}
		return userdomain.Identity{}, false, nil
	}}
}

func testLogger() *logger.Logger {
	return logger.NewWriter(io.Discard, "test", "info")
}

func identityEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = io.WriteString(w, identity.Username)
	})
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(req); got != "" {
		t.Errorf("empty request token = %q", got)
	}

	req.Header.Set("Authorization", "Bearer header-token")
	if got := TokenFromRequest(req); got != "header-token" {
		t.Errorf("bearer token = %q", got)
	}

	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "cookie-token"})
	if got := TokenFromRequest(req); got != "cookie-token" {
		t.Errorf("cookie should win, got %q", got)
	}

	basic := httptest.NewRequest(http.MethodGet, "/", nil)
	basic.Header.Set("Authorization", "Basic abc")
	if got := TokenFromRequest(basic); got != "" {
		t.Errorf("basic auth token = %q", got)
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(tokenResolver("good"), testLogger())(identityEcho(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/habits", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Errorf("valid session: status = %d body = %q", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/habits", nil)
	req.Header.Set("Authorization", "Bearer stale")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("stale session: status = %d", rec.Code)
	}
}

func TestRequireSessionOrRedirect(t *testing.T) {
	handler := RequireSessionOrRedirect(tokenResolver("good"), testLogger(), "/login")(identityEcho(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestResolverFaultIsServerError(t *testing.T) {
	resolver := &mockResolver{currentFunc: func(context.Context, domain.Token) (userdomain.Identity, bool, error) {
		return userdomain.Identity{}, false, errors.New("failed to find active session: timeout")
	}}
	handler := RequireSessionOrRedirect(resolver, testLogger(), "/login")(identityEcho(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "good"})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestLoadIsOptional(t *testing.T) {
	handler := Load(tokenResolver("good"), testLogger())(identityEcho(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("anonymous status = %d", rec.Code)
	}
}

func TestCookies(t *testing.T) {
	policy := CookiePolicy{Secure: true, MaxAge: 2 * time.Hour}

	rec := httptest.NewRecorder()
	WriteCookie(rec, "tok", policy)
	set := rec.Result().Cookies()
	if len(set) != 1 {
		t.Fatalf("cookies = %+v", set)
	}
	c := set[0]
	if c.Name != constants.SessionCookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure || c.MaxAge != 7200 || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie = %+v", c)
	}

	rec = httptest.NewRecorder()
	ClearCookie(rec, policy)
	if cleared := rec.Result().Cookies(); len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Errorf("cleared = %+v", cleared)
	}
}
