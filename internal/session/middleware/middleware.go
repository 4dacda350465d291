package middleware

import (
	"context"
	"net/http"

	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
	commonhttp "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/http"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type Resolver interface {
	Current(ctx context.Context, token domain.Token) (userdomain.Identity, bool, error)
}

type contextKey string

const identityKey contextKey = "session_identity"

func WithIdentity(ctx context.Context, identity userdomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (userdomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(userdomain.Identity)
	return identity, ok
}

// Load attaches the identity of a valid session to the request context and
// always calls next.
func Load(resolver Resolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok, err := resolver.Current(r.Context(), TokenFromRequest(r))
			if err != nil {
				commonhttp.HandleError(w, r, err, log)
				return
			}
			if ok {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession answers 401 when the request carries no valid session.
func RequireSession(resolver Resolver, log *logger.Logger) func(http.Handler) http.Handler {
	return require(resolver, log, func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(r.Context(), logger.Fields{
			"path":   r.URL.Path,
			"action": "session_required",
		}).Warn("request without valid session")
		commonhttp.HandleError(w, r, commonerrors.ErrNotAuthenticated, log)
	})
}

// RequireSessionOrRedirect sends browsers without a valid session to loginPath.
func RequireSessionOrRedirect(resolver Resolver, log *logger.Logger, loginPath string) func(http.Handler) http.Handler {
	return require(resolver, log, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
	})
}

func require(resolver Resolver, log *logger.Logger, onMissing http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok, err := resolver.Current(r.Context(), TokenFromRequest(r))
			if err != nil {
				commonhttp.HandleError(w, r, err, log)
				return
			}
			if !ok {
				onMissing(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
