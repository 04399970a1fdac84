package bookmark

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/openbook-edu/openbook-server/pkg/http/errors"
)

// HTTPHandlers exposes bookmarks over REST.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "bookmark_http").Logger(),
	}
}

type bookmarkParams struct {
	CustomerID int64  `json:"customerId"`
	TopicTitle string `json:"topicTitle"`
}

// Add handles POST /bookmarks.
func (h *HTTPHandlers) Add(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.service.Add(r.Context(), params.CustomerID, params.TopicTitle); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Remove handles DELETE /bookmarks.
func (h *HTTPHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), params.CustomerID, params.TopicTitle); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// List handles GET /customers/{id}/bookmarks.
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "id must be an integer")
		return
	}
	titles, err := h.service.List(r.Context(), customerID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string][]string{"topics": titles})
}

func (h *HTTPHandlers) decode(w http.ResponseWriter, r *http.Request) (bookmarkParams, bool) {
	var params bookmarkParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed bookmark payload")
		return params, false
	}
	if params.CustomerID == 0 || params.TopicTitle == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "customerId and topicTitle are required")
		return params, false
	}
	return params, true
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrTopicNotFound),
		errors.Is(err, ErrBookmarkNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("bookmark request failed")
		httperrors.RespondInternalError(w, "internal error")
	}
}
