package question

import (
	"context"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// Question types. Types 2-4 test temporal reasoning against the interval
// of the topic that supplied the description.
const (
	TypeDescription = 1 // which statement describes the topic
	TypeDuring      = 2 // answer interval contains the reference interval
	TypeAfter       = 3 // answer starts after the reference ends
	TypeBefore      = 4 // answer ends before the reference starts
)

// ChoiceOption is one of the five options delivered to clients.
type ChoiceOption struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// DescriptionRef is the supporting context shown with the question.
type DescriptionRef struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// TempQuestion is a synthesized question. It is transient until committed;
// Get returns the same shape for persisted questions with ID set. The
// correct option is always the last entry of Choices.
type TempQuestion struct {
	ID             int64          `json:"id,omitempty"`
	Type           int            `json:"type"`
	CategoryName   string         `json:"categoryName"`
	Prompt         string         `json:"prompt"`
	AnswerChoiceID int64          `json:"answerChoiceId"`
	Description    DescriptionRef `json:"description"`
	Choices        []ChoiceOption `json:"choiceList"`
}

// UpdateParams rewrites a persisted question in place.
type UpdateParams struct {
	Prompt         string `json:"prompt"`
	AnswerChoiceID int64  `json:"answerChoiceId"`
	Type           int    `json:"type"`
	CategoryName   string `json:"categoryName"`
}

// TopicSource resolves the reference topic for a generation request.
// Lookups report absence as (nil, nil).
type TopicSource interface {
	FindTopicByTitle(ctx context.Context, title string) (*model.Topic, error)
	RandomTopicInCategory(ctx context.Context, categoryName string) (*model.Topic, error)
}

// ChoiceSource supplies answer choices and distractor candidate pools.
// Candidate pools carry the owning topic's category and date interval so
// eligibility predicates run against a single fresh snapshot.
type ChoiceSource interface {
	RandomChoiceInTopic(ctx context.Context, topicID int64) (*model.Choice, error)
	CandidatesInCategory(ctx context.Context, categoryName string) ([]model.ChoiceCandidate, error)
	Candidates(ctx context.Context) ([]model.ChoiceCandidate, error)
	FindChoicesByIDs(ctx context.Context, ids []int64) ([]model.Choice, error)
}

// DescriptionSource supplies supporting descriptions.
type DescriptionSource interface {
	RandomDescriptionInTopic(ctx context.Context, topicID int64) (*model.Description, error)
	FindDescriptionByID(ctx context.Context, id int64) (*model.Description, error)
}

// CategorySource resolves categories by name or id.
type CategorySource interface {
	FindCategoryByName(ctx context.Context, name string) (*model.Category, error)
	FindCategoryByID(ctx context.Context, id int64) (*model.Category, error)
}

// QuestionStore persists graded questions. Create must write the question
// row and its choice/description links in one transaction.
type QuestionStore interface {
	Create(ctx context.Context, q *model.Question, choiceIDs []int64, descriptionID int64) (*model.Question, error)
	Get(ctx context.Context, id int64) (*model.QuestionDetail, error)
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id int64) (bool, error)
}
