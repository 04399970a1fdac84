package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	httperrors "github.com/openbook-edu/openbook-server/pkg/http/errors"
)

var generatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "openbook_questions_generated_total",
	Help: "Temp questions generated, by question type.",
}, []string{"type"})

var committedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "openbook_questions_committed_total",
	Help: "Generated questions persisted by admins.",
})

// HTTPHandlers exposes the question engine over REST.
type HTTPHandlers struct {
	engine *Engine
	logger zerolog.Logger
}

// NewHTTPHandlers constructs question HTTP handlers.
func NewHTTPHandlers(engine *Engine, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		engine: engine,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Preview handles GET /admin/temp-question?type=&category=&title=.
func (h *HTTPHandlers) Preview(w http.ResponseWriter, r *http.Request) {
	typ, err := strconv.Atoi(r.URL.Query().Get("type"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "type must be an integer")
		return
	}
	category := r.URL.Query().Get("category")
	title := r.URL.Query().Get("title")
	if category == "" && title == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "category or title is required")
		return
	}

	temp, err := h.engine.Generate(r.Context(), typ, category, title)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	generatedTotal.WithLabelValues(strconv.Itoa(typ)).Inc()
	writeJSON(w, http.StatusOK, temp)
}

// Commit handles POST /admin/questions.
func (h *HTTPHandlers) Commit(w http.ResponseWriter, r *http.Request) {
	var temp TempQuestion
	if err := json.NewDecoder(r.Body).Decode(&temp); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed question payload")
		return
	}

	saved, err := h.engine.Commit(r.Context(), &temp)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	committedTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]int64{"id": saved.ID})
}

// Get handles GET /questions/{id}.
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payload, err := h.engine.Get(r.Context(), id)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// Update handles PATCH /admin/questions/{id}.
func (h *HTTPHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed update payload")
		return
	}

	updated, err := h.engine.Update(r.Context(), id, params)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": updated.ID})
}

// Delete handles DELETE /admin/questions/{id}.
func (h *HTTPHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.engine.Delete(r.Context(), id); err != nil {
		h.respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *HTTPHandlers) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidType):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuestionType, err.Error())
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, err.Error())
	case errors.Is(err, ErrNoEligibleCandidate):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNoEligibleCandidate, err.Error())
	case errors.Is(err, ErrInsufficientCandidates):
		httperrors.RespondNotFound(w, httperrors.ErrCodeInsufficientCandidates, err.Error())
	case errors.Is(err, ErrPersistenceConflict):
		httperrors.RespondConflict(w, httperrors.ErrCodeQuestionCommitConflict, err.Error())
	default:
		h.logger.Error().Err(err).Msg("question request failed")
		httperrors.RespondInternalError(w, "internal error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// headers already sent; nothing else to do
		return
	}
}
