package question

import "errors"

// Engine failure taxonomy. Callers distinguish outcomes with errors.Is;
// none of these are retried by the engine itself, re-rolling an unlucky
// draw is caller policy.
var (
	// ErrNotFound covers unresolvable topics, categories, questions and
	// descriptions.
	ErrNotFound = errors.New("not found")

	// ErrInvalidType reports a question type outside the supported set.
	ErrInvalidType = errors.New("unsupported question type")

	// ErrInsufficientCandidates reports fewer eligible distractors than the
	// configured choice count requires. Reported rather than degraded: a
	// short choice list is a malformed question.
	ErrInsufficientCandidates = errors.New("insufficient distractor candidates")

	// ErrNoEligibleCandidate reports that no choice satisfies the active
	// type's correct-answer rule (or the topic has no choices/descriptions).
	ErrNoEligibleCandidate = errors.New("no eligible answer candidate")

	// ErrPersistenceConflict reports entities that vanished between preview
	// and commit.
	ErrPersistenceConflict = errors.New("referenced entities changed since preview")
)
