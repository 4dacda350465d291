package http

import (
	"context"
	"net/http"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	commonhttp "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/http"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	sessionmw "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/middleware"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type Records interface {
	Create(ctx context.Context, ownerID userdomain.ID, variant domain.Variant, fields domain.Fields) (domain.Record, error)
	ListByOwner(ctx context.Context, ownerID userdomain.ID, variant domain.Variant) ([]domain.Record, error)
	Summary(ctx context.Context, ownerID userdomain.ID) (domain.Counts, error)
}

type recordResponse struct {
	ID          string       `json:"id"`
	Variant     string       `json:"variant"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *domain.Date `json:"due_date,omitempty"`
	TargetDate  *domain.Date `json:"target_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type listResponse struct {
	Items []recordResponse `json:"items"`
}

type HandlerDeps struct {
	Records        Records
	Sessions       sessionmw.Resolver
	RequestTimeout time.Duration
	Log            *logger.Logger
}

type Handler struct {
	records Records
	log     *logger.Logger
}

// NewHandler serves /api/habits, /api/tasks, /api/goals and /api/summary.
// Every route requires a session and is scoped to its identity.
func NewHandler(deps HandlerDeps) http.Handler {
	h := &Handler{records: deps.Records, log: deps.Log}
	requestTimeout := deps.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = constants.DefaultRequestTimeout
	}
	timeout := commonhttp.WithTimeout(requestTimeout)
	requireSession := sessionmw.RequireSession(deps.Sessions, deps.Log)

	mux := http.NewServeMux()
	for _, variant := range domain.Variants() {
		mux.Handle("/api/"+variant.Plural(), requireSession(timeout(h.collection(variant))))
	}
	mux.Handle("/api/summary", requireSession(commonhttp.RequireMethod(http.MethodGet)(timeout(h.summary))))
	return mux
}

func (h *Handler) collection(variant domain.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			h.list(w, r, variant)
		case http.MethodPost:
			h.create(w, r, variant)
		default:
			w.Header().Set("Allow", "GET, POST")
			commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		}
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, variant domain.Variant) {
	identity, _ := sessionmw.IdentityFromContext(r.Context())

	records, err := h.records.ListByOwner(r.Context(), identity.ID, variant)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := listResponse{Items: make([]recordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Items = append(resp.Items, toRecordResponse(rec))
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, variant domain.Variant) {
	identity, _ := sessionmw.IdentityFromContext(r.Context())

	var fields domain.Fields
	if err := commonhttp.DecodeJSON(r, &fields); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"variant": string(variant),
			"action":  "record_invalid_json",
		}).Warnf("create record failed: %v", err)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	record, err := h.records.Create(r.Context(), identity.ID, variant, fields)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toRecordResponse(record))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	identity, _ := sessionmw.IdentityFromContext(r.Context())

	counts, err := h.records.Summary(r.Context(), identity.ID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, counts)
}

func toRecordResponse(rec domain.Record) recordResponse {
	return recordResponse{
		ID:          string(rec.ID),
		Variant:     string(rec.Variant),
		Title:       rec.Title,
		Description: rec.Description,
		DueDate:     rec.DueDate,
		TargetDate:  rec.TargetDate,
		CreatedAt:   rec.CreatedAt,
	}
}
