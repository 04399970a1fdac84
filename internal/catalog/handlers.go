package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/openbook-edu/openbook-server/pkg/http/errors"
)

// HTTPHandlers exposes the catalog over REST. Public reads and admin
// mutations share one handler set; the router decides which paths exist.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "catalog_http").Logger(),
	}
}

// GetTopic handles GET /topics/{title}.
func (h *HTTPHandlers) GetTopic(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.TopicDetail(r.Context(), r.PathValue("title"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ListChapterTopics handles GET /chapters/{number}/topics.
func (h *HTTPHandlers) ListChapterTopics(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	titles, err := h.service.TopicsInChapter(r.Context(), number)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"topics": titles})
}

// CreateTopic handles POST /admin/topics.
func (h *HTTPHandlers) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var params TopicParams
	if !decodeBody(w, r, &params) {
		return
	}
	if fieldErrors := validateTopicParams(params); len(fieldErrors) > 0 {
		httperrors.RespondFieldErrors(w, fieldErrors)
		return
	}
	topic, err := h.service.CreateTopic(r.Context(), params)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": topic.ID})
}

// UpdateTopic handles PATCH /admin/topics/{title}.
func (h *HTTPHandlers) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	var params TopicParams
	if !decodeBody(w, r, &params) {
		return
	}
	if fieldErrors := validateTopicParams(params); len(fieldErrors) > 0 {
		httperrors.RespondFieldErrors(w, fieldErrors)
		return
	}
	if err := h.service.UpdateTopic(r.Context(), r.PathValue("title"), params); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteTopic handles DELETE /admin/topics/{title}.
func (h *HTTPHandlers) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTopic(r.Context(), r.PathValue("title")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListChapters handles GET /chapters.
func (h *HTTPHandlers) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.service.Chapters(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapters)
}

type chapterParams struct {
	Title     string `json:"title"`
	Number    int    `json:"number"`
	NewNumber *int   `json:"newNumber,omitempty"`
}

// CreateChapter handles POST /admin/chapters.
func (h *HTTPHandlers) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var params chapterParams
	if !decodeBody(w, r, &params) {
		return
	}
	if params.Title == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "title is required")
		return
	}
	chapter, err := h.service.CreateChapter(r.Context(), params.Title, params.Number)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": chapter.ID})
}

// UpdateChapter handles PATCH /admin/chapters/{number}.
func (h *HTTPHandlers) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	var params chapterParams
	if !decodeBody(w, r, &params) {
		return
	}
	newNumber := number
	if params.NewNumber != nil {
		newNumber = *params.NewNumber
	}
	if err := h.service.UpdateChapter(r.Context(), number, params.Title, newNumber); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteChapter handles DELETE /admin/chapters/{number}.
func (h *HTTPHandlers) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	if err := h.service.DeleteChapter(r.Context(), number); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListCategories handles GET /categories.
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type categoryParams struct {
	Name    string `json:"name"`
	NewName string `json:"newName,omitempty"`
}

// CreateCategory handles POST /admin/categories.
func (h *HTTPHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var params categoryParams
	if !decodeBody(w, r, &params) {
		return
	}
	if params.Name == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "name is required")
		return
	}
	category, err := h.service.CreateCategory(r.Context(), params.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": category.ID})
}

// RenameCategory handles PATCH /admin/categories/{name}.
func (h *HTTPHandlers) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var params categoryParams
	if !decodeBody(w, r, &params) {
		return
	}
	if params.NewName == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "newName is required")
		return
	}
	if err := h.service.RenameCategory(r.Context(), r.PathValue("name"), params.NewName); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteCategory handles DELETE /admin/categories/{name}.
func (h *HTTPHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), r.PathValue("name")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AttachKeyword handles POST /admin/topics/{title}/keywords/{name}.
func (h *HTTPHandlers) AttachKeyword(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AttachKeyword(r.Context(), r.PathValue("title"), r.PathValue("name")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DetachKeyword handles DELETE /admin/topics/{title}/keywords/{name}.
func (h *HTTPHandlers) DetachKeyword(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DetachKeyword(r.Context(), r.PathValue("title"), r.PathValue("name")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type contentParams struct {
	Content string `json:"content"`
}

// CreateSentence handles POST /admin/topics/{title}/sentences.
func (h *HTTPHandlers) CreateSentence(w http.ResponseWriter, r *http.Request) {
	var params contentParams
	if !decodeBody(w, r, &params) {
		return
	}
	sentence, err := h.service.CreateSentence(r.Context(), r.PathValue("title"), params.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": sentence.ID})
}

// UpdateSentence handles PATCH /admin/sentences/{id}.
func (h *HTTPHandlers) UpdateSentence(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var params contentParams
	if !decodeBody(w, r, &params) {
		return
	}
	if err := h.service.UpdateSentence(r.Context(), id, params.Content); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteSentence handles DELETE /admin/sentences/{id}.
func (h *HTTPHandlers) DeleteSentence(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteSentence(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListChoices handles GET /admin/topics/{title}/choices.
func (h *HTTPHandlers) ListChoices(w http.ResponseWriter, r *http.Request) {
	choices, err := h.service.ChoicesOfTopic(r.Context(), r.PathValue("title"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, choices)
}

// AddChoice handles POST /admin/topics/{title}/choices.
func (h *HTTPHandlers) AddChoice(w http.ResponseWriter, r *http.Request) {
	var params contentParams
	if !decodeBody(w, r, &params) {
		return
	}
	choice, err := h.service.AddChoice(r.Context(), r.PathValue("title"), params.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": choice.ID})
}

// DeleteChoice handles DELETE /admin/choices/{id}.
func (h *HTTPHandlers) DeleteChoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteChoice(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListDescriptions handles GET /admin/topics/{title}/descriptions.
func (h *HTTPHandlers) ListDescriptions(w http.ResponseWriter, r *http.Request) {
	descriptions, err := h.service.DescriptionsOfTopic(r.Context(), r.PathValue("title"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, descriptions)
}

// AddDescription handles POST /admin/topics/{title}/descriptions.
func (h *HTTPHandlers) AddDescription(w http.ResponseWriter, r *http.Request) {
	var params contentParams
	if !decodeBody(w, r, &params) {
		return
	}
	description, err := h.service.AddDescription(r.Context(), r.PathValue("title"), params.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": description.ID})
}

// DeleteDescription handles DELETE /admin/descriptions/{id}.
func (h *HTTPHandlers) DeleteDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteDescription(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTopicNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeTopicNotFound, err.Error())
	case errors.Is(err, ErrChapterNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeChapterNotFound, err.Error())
	case errors.Is(err, ErrCategoryNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeCategoryNotFound, err.Error())
	case errors.Is(err, ErrKeywordNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeKeywordNotFound, err.Error())
	case errors.Is(err, ErrSentenceNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSentenceNotFound, err.Error())
	case errors.Is(err, ErrChoiceNotFound),
		errors.Is(err, ErrDescriptionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, err.Error())
	case errors.Is(err, ErrTitleTaken),
		errors.Is(err, ErrChapterNumberTaken),
		errors.Is(err, ErrCategoryNameTaken):
		httperrors.RespondConflict(w, httperrors.ErrCodeAlreadyExists, err.Error())
	default:
		h.logger.Error().Err(err).Msg("catalog request failed")
		httperrors.RespondInternalError(w, "internal error")
	}
}

func validateTopicParams(params TopicParams) []httperrors.FieldError {
	var fieldErrors []httperrors.FieldError
	if params.Title == "" {
		fieldErrors = append(fieldErrors, httperrors.FieldError{Field: "title", Message: "required"})
	}
	if params.Category == "" {
		fieldErrors = append(fieldErrors, httperrors.FieldError{Field: "category", Message: "required"})
	}
	if params.StartDate > params.EndDate {
		fieldErrors = append(fieldErrors, httperrors.FieldError{Field: "startDate", Message: "must not exceed endDate"})
	}
	return fieldErrors
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// headers already sent; nothing else to do
		return
	}
}
