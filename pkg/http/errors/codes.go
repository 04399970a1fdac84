package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Question engine errors
	ErrCodeInvalidQuestionType    = "invalid_question_type"
	ErrCodeInsufficientCandidates = "insufficient_candidates"
	ErrCodeNoEligibleCandidate    = "no_eligible_candidate"
	ErrCodeQuestionCommitConflict = "question_commit_conflict"
	ErrCodeQuestionCreationFailed = "question_creation_failed"

	// Catalog errors
	ErrCodeTopicNotFound    = "topic_not_found"
	ErrCodeChapterNotFound  = "chapter_not_found"
	ErrCodeCategoryNotFound = "category_not_found"
	ErrCodeKeywordNotFound  = "keyword_not_found"
	ErrCodeSentenceNotFound = "sentence_not_found"

	// Bookmark errors
	ErrCodeBookmarkFailed = "bookmark_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
