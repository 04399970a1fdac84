package question

import (
	"fmt"

	"github.com/openbook-edu/openbook-server/internal/config"
	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// poolScope selects where distractor candidates come from.
type poolScope int

const (
	scopeCategory poolScope = iota // same category as the reference topic
	scopeAll                       // whole store, any category
)

// strategy is one question-type variant: how the prompt is built, how the
// correct choice is located, and which candidates are barred from the
// distractor pool. ref is always the topic that supplied the description.
type strategy struct {
	prompt func(p config.Prompts, category string) string
	scope  poolScope

	// correct selects answer candidates for temporal types. Nil means the
	// answer is a random choice owned by ref itself (type 1).
	correct func(cand model.ChoiceCandidate, ref *model.Topic) bool

	// exclude bars a candidate from the distractor pool.
	exclude func(cand model.ChoiceCandidate, ref *model.Topic) bool
}

// contains reports whether the candidate's interval covers [ref.StartDate,
// ref.EndDate]. A topic's own choices satisfy this against itself.
func contains(cand model.ChoiceCandidate, ref *model.Topic) bool {
	return cand.StartDate <= ref.StartDate && cand.EndDate >= ref.EndDate
}

// nestedInside reports whether the candidate's interval sits strictly
// inside the reference interval.
func nestedInside(cand model.ChoiceCandidate, ref *model.Topic) bool {
	return cand.StartDate > ref.StartDate && cand.EndDate < ref.EndDate
}

func startsAfter(cand model.ChoiceCandidate, ref *model.Topic) bool {
	return cand.StartDate > ref.EndDate
}

func endsBefore(cand model.ChoiceCandidate, ref *model.Topic) bool {
	return cand.EndDate < ref.StartDate
}

var strategies = map[int]strategy{
	TypeDescription: {
		prompt: func(p config.Prompts, category string) string {
			return p.DescriptionPrefix + " " + category + p.DescriptionSuffix
		},
		scope: scopeCategory,
		exclude: func(cand model.ChoiceCandidate, ref *model.Topic) bool {
			// every choice of the answer topic is a valid answer here
			return cand.TopicID == ref.ID
		},
	},
	TypeDuring: {
		prompt: func(p config.Prompts, category string) string {
			return fmt.Sprintf(p.During, category)
		},
		scope:   scopeAll,
		correct: contains,
		exclude: func(cand model.ChoiceCandidate, ref *model.Topic) bool {
			// intervals nested strictly inside the reference read as
			// contemporaneous; intervals containing it are alternate
			// correct answers
			return nestedInside(cand, ref) || contains(cand, ref)
		},
	},
	TypeAfter: {
		prompt: func(p config.Prompts, category string) string {
			return fmt.Sprintf(p.After, category)
		},
		scope:   scopeAll,
		correct: startsAfter,
		exclude: startsAfter,
	},
	TypeBefore: {
		prompt: func(p config.Prompts, category string) string {
			return fmt.Sprintf(p.Before, category)
		},
		scope:   scopeAll,
		correct: endsBefore,
		exclude: endsBefore,
	},
}

func strategyFor(typ int) (strategy, bool) {
	s, ok := strategies[typ]
	return s, ok
}
