package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	authservice "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/auth/service"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
	commonhttp "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/http"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	sessiondomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	sessionmw "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/middleware"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

const loginPath = "/login"

type Authenticator interface {
	Register(ctx context.Context, input authservice.RegisterInput) (userdomain.Identity, error)
	Login(ctx context.Context, input authservice.LoginInput) (userdomain.Identity, sessiondomain.Token, error)
	Logout(ctx context.Context, token sessiondomain.Token) error
}

type Records interface {
	Create(ctx context.Context, ownerID userdomain.ID, variant domain.Variant, fields domain.Fields) (domain.Record, error)
	ListByOwner(ctx context.Context, ownerID userdomain.ID, variant domain.Variant) ([]domain.Record, error)
	Summary(ctx context.Context, ownerID userdomain.ID) (domain.Counts, error)
}

type HandlerDeps struct {
	Auth           Authenticator
	Records        Records
	Sessions       sessionmw.Resolver
	Cookie         sessionmw.CookiePolicy
	RequestTimeout time.Duration
	Log            *logger.Logger
}

type Handler struct {
	auth     Authenticator
	records  Records
	sessions sessionmw.Resolver
	cookie   sessionmw.CookiePolicy
	log      *logger.Logger
}

// NewHandler serves the HTML pages. Pages behind a session redirect
// anonymous visitors to /login.
func NewHandler(deps HandlerDeps) http.Handler {
	h := &Handler{
		auth:     deps.Auth,
		records:  deps.Records,
		sessions: deps.Sessions,
		cookie:   deps.Cookie,
		log:      deps.Log,
	}
	requestTimeout := deps.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = constants.DefaultRequestTimeout
	}
	timeout := commonhttp.WithTimeout(requestTimeout)
	private := sessionmw.RequireSessionOrRedirect(deps.Sessions, deps.Log, loginPath)

	mux := http.NewServeMux()
	mux.Handle("/", private(timeout(h.dashboard)))
	mux.HandleFunc("/register", timeout(h.register))
	mux.HandleFunc(loginPath, timeout(h.login))
	mux.HandleFunc("/logout", commonhttp.RequireMethod(http.MethodPost)(timeout(h.logout)))
	for _, variant := range domain.Variants() {
		mux.Handle("/"+variant.Plural(), private(timeout(h.recordsHandler(variant))))
	}
	return mux
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	viewer, _ := sessionmw.IdentityFromContext(r.Context())
	if r.URL.Path != "/" {
		writePage(w, r, h.log, page{
			Title:      "Not found",
			StatusCode: http.StatusNotFound,
			Viewer:     &viewer,
			Fragment:   errorPage("page not found"),
		})
		return
	}

	counts, err := h.records.Summary(r.Context(), viewer.ID)
	if err != nil {
		h.writeError(w, r, &viewer, err)
		return
	}

	writePage(w, r, h.log, page{
		Title:    "Dashboard",
		Viewer:   &viewer,
		Fragment: dashboardPage(counts),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		writePage(w, r, h.log, page{Title: "Register", Fragment: registerPage(credentialsForm{})})
		return
	case http.MethodPost:
	default:
		methodNotAllowed(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, r, http.StatusBadRequest, credentialsForm{Error: commonerrors.ErrInvalidPayload.Message()})
		return
	}
	form := credentialsForm{Username: r.PostForm.Get("username")}

	_, err := h.auth.Register(r.Context(), authservice.RegisterInput{
		Username: form.Username,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		status, message := userMessage(r, h.log, err)
		form.Error = message
		h.renderRegister(w, r, status, form)
		return
	}

	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, form credentialsForm) {
	writePage(w, r, h.log, page{Title: "Register", StatusCode: status, Fragment: registerPage(form)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		writePage(w, r, h.log, page{Title: "Log in", Fragment: loginPage(credentialsForm{})})
		return
	case http.MethodPost:
	default:
		methodNotAllowed(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, credentialsForm{Error: commonerrors.ErrInvalidPayload.Message()})
		return
	}
	form := credentialsForm{Username: r.PostForm.Get("username")}

	_, token, err := h.auth.Login(r.Context(), authservice.LoginInput{
		Username: form.Username,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		status, message := userMessage(r, h.log, err)
		form.Error = message
		h.renderLogin(w, r, status, form)
		return
	}

	sessionmw.WriteCookie(w, token, h.cookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form credentialsForm) {
	writePage(w, r, h.log, page{Title: "Log in", StatusCode: status, Fragment: loginPage(form)})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), sessionmw.TokenFromRequest(r)); err != nil {
		h.writeError(w, r, nil, err)
		return
	}
	sessionmw.ClearCookie(w, h.cookie)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (h *Handler) recordsHandler(variant domain.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, _ := sessionmw.IdentityFromContext(r.Context())

		var form recordForm
		status := http.StatusOK

		switch r.Method {
		case http.MethodGet, http.MethodHead:
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				h.writeError(w, r, &viewer, commonerrors.ErrInvalidPayload.WithCause(err))
				return
			}
			form.Fields = domain.Fields{
				Title:       r.PostForm.Get("title"),
				Description: r.PostForm.Get("description"),
				DueDate:     r.PostForm.Get("due_date"),
				TargetDate:  r.PostForm.Get("target_date"),
			}

			_, err := h.records.Create(r.Context(), viewer.ID, variant, form.Fields)
			if err == nil {
				http.Redirect(w, r, "/"+variant.Plural(), http.StatusSeeOther)
				return
			}
			if !errors.Is(err, commonerrors.ErrValidation) {
				h.writeError(w, r, &viewer, err)
				return
			}
			status, form.Error = userMessage(r, h.log, err)
		default:
			methodNotAllowed(w)
			return
		}

		records, err := h.records.ListByOwner(r.Context(), viewer.ID, variant)
		if err != nil {
			h.writeError(w, r, &viewer, err)
			return
		}

		writePage(w, r, h.log, page{
			Title:      variantTitle(variant),
			StatusCode: status,
			Viewer:     &viewer,
			Fragment:   recordsPage(variant, records, form),
		})
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", "GET, POST")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
