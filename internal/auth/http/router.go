package http

import (
	"context"
	"net/http"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/auth/service"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	commonhttp "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/http"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	sessiondomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	sessionmw "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/middleware"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type Authenticator interface {
	Register(ctx context.Context, input service.RegisterInput) (userdomain.Identity, error)
	Login(ctx context.Context, input service.LoginInput) (userdomain.Identity, sessiondomain.Token, error)
	Logout(ctx context.Context, token sessiondomain.Token) error
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type HandlerDeps struct {
	Auth           Authenticator
	Sessions       sessionmw.Resolver
	Cookie         sessionmw.CookiePolicy
	RequestTimeout time.Duration
	Log            *logger.Logger
}

type Handler struct {
	auth   Authenticator
	cookie sessionmw.CookiePolicy
	log    *logger.Logger
}

// NewHandler serves the /api/auth/ routes.
func NewHandler(deps HandlerDeps) http.Handler {
	h := &Handler{auth: deps.Auth, cookie: deps.Cookie, log: deps.Log}
	requestTimeout := deps.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = constants.DefaultRequestTimeout
	}
	timeout := commonhttp.WithTimeout(requestTimeout)
	requireSession := sessionmw.RequireSession(deps.Sessions, deps.Log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", commonhttp.RequireMethod(http.MethodPost)(timeout(h.register)))
	mux.HandleFunc("/api/auth/login", commonhttp.RequireMethod(http.MethodPost)(timeout(h.login)))
	mux.HandleFunc("/api/auth/logout", commonhttp.RequireMethod(http.MethodPost)(timeout(h.logout)))
	mux.Handle("/api/auth/me", requireSession(commonhttp.RequireMethod(http.MethodGet)(h.me)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_invalid_json",
		}).Warnf("register failed: %v", err)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	identity, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toIdentityResponse(identity))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: %v", err)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	_, token, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	sessionmw.WriteCookie(w, token, h.cookie)
	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), sessionmw.TokenFromRequest(r)); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	sessionmw.ClearCookie(w, h.cookie)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, _ := sessionmw.IdentityFromContext(r.Context())
	commonhttp.WriteJSON(w, http.StatusOK, toIdentityResponse(identity))
}

func toIdentityResponse(identity userdomain.Identity) identityResponse {
	return identityResponse{
		ID:        string(identity.ID),
		Username:  identity.Username,
		CreatedAt: identity.CreatedAt,
	}
}
