package web

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type page struct {
	Title      string
	StatusCode int
	Viewer     *userdomain.Identity
	Fragment   templ.Component
}

// writePage renders into a buffer first so a render failure can still
// produce a clean 500.
func writePage(w http.ResponseWriter, r *http.Request, log *logger.Logger, p page) {
	status := p.StatusCode
	if status <= 0 {
		status = http.StatusOK
	}
	fragment := p.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}

	var buf bytes.Buffer
	ctx := templ.WithChildren(r.Context(), fragment)
	if err := layout(p.Title, p.Viewer).Render(ctx, &buf); err != nil {
		log.WithFields(r.Context(), logger.Fields{
			"path":   r.URL.Path,
			"action": "page_render_failed",
		}).Errorf("render page failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// userMessage maps err to the status and text shown on a page. Anything that
// is not a user-facing domain error becomes a generic 500.
func userMessage(r *http.Request, log *logger.Logger, err error) (int, string) {
	if de, ok := commonerrors.AsDomainError(err); ok && de.Category() != commonerrors.CategoryInternal {
		return de.HTTPStatus(), de.Message()
	}

	log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)
	return http.StatusInternalServerError, "internal server error"
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, viewer *userdomain.Identity, err error) {
	status, message := userMessage(r, h.log, err)
	writePage(w, r, h.log, page{
		Title:      "Something went wrong",
		StatusCode: status,
		Viewer:     viewer,
		Fragment:   errorPage(message),
	})
}
