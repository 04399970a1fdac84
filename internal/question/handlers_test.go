package question

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httperrors "github.com/openbook-edu/openbook-server/pkg/http/errors"
)

func previewRequest(query string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/admin/temp-question?"+query, nil)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httperrors.ErrorResponse {
	t.Helper()
	var resp httperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestPreviewRequestValidation(t *testing.T) {
	f := historyFixture()
	handlers := NewHTTPHandlers(newTestEngine(f, nil), zerolog.Nop())

	rec := httptest.NewRecorder()
	handlers.Preview(rec, previewRequest("type=abc&category=사건"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidRequest, decodeError(t, rec).Error)

	rec = httptest.NewRecorder()
	handlers.Preview(rec, previewRequest("type=1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeMissingField, decodeError(t, rec).Error)

	rec = httptest.NewRecorder()
	handlers.Preview(rec, previewRequest("type=9&category=사건"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidQuestionType, decodeError(t, rec).Error)

	rec = httptest.NewRecorder()
	handlers.Preview(rec, previewRequest("type=1&title="+"없는주제"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNotFound, decodeError(t, rec).Error)
}

func TestPreviewReturnsQuestion(t *testing.T) {
	f := historyFixture()
	handlers := NewHTTPHandlers(newTestEngine(f, nil), zerolog.Nop())

	rec := httptest.NewRecorder()
	handlers.Preview(rec, previewRequest("type=1&title=reference"))
	require.Equal(t, http.StatusOK, rec.Code)

	var temp TempQuestion
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&temp))
	assert.Len(t, temp.Choices, 5)
	assert.Equal(t, temp.AnswerChoiceID, temp.Choices[4].ID)
}

func TestCommitMalformedBody(t *testing.T) {
	f := historyFixture()
	handlers := NewHTTPHandlers(newTestEngine(f, newMemoryStore(f)), zerolog.Nop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/questions", strings.NewReader("{not json"))
	handlers.Commit(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
