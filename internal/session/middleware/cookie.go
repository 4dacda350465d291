package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
)

type CookiePolicy struct {
	Secure bool
	MaxAge time.Duration
}

func WriteCookie(w http.ResponseWriter, token domain.Token, policy CookiePolicy) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    string(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   policy.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(policy.MaxAge.Seconds()),
	})
}

func ClearCookie(w http.ResponseWriter, policy CookiePolicy) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   policy.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// TokenFromRequest reads the session cookie, falling back to a bearer
// Authorization header.
func TokenFromRequest(r *http.Request) domain.Token {
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return domain.Token(value)
		}
	}

	raw := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(raw, "Bearer "); ok {
		return domain.Token(strings.TrimSpace(token))
	}
	return ""
}
