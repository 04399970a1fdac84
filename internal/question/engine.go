package question

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openbook-edu/openbook-server/internal/config"
	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// Config sizes generated questions. ChoiceCount includes the answer.
type Config struct {
	ChoiceCount int
	MaxType     int
}

// Engine synthesizes multiple-choice questions from stored topics and
// persists the ones an admin commits. Generation is a side-effect-free read
// pipeline; concurrent calls share no mutable state.
type Engine struct {
	topics       TopicSource
	choices      ChoiceSource
	descriptions DescriptionSource
	categories   CategorySource
	store        QuestionStore
	cfg          Config
	prompts      config.Prompts
	logger       zerolog.Logger
}

// NewEngine wires the engine against its stores.
func NewEngine(topics TopicSource, choices ChoiceSource, descriptions DescriptionSource, categories CategorySource, store QuestionStore, cfg Config, prompts config.Prompts, logger zerolog.Logger) *Engine {
	if cfg.ChoiceCount <= 0 {
		cfg.ChoiceCount = 5
	}
	if cfg.MaxType <= 0 {
		cfg.MaxType = TypeBefore
	}
	return &Engine{
		topics:       topics,
		choices:      choices,
		descriptions: descriptions,
		categories:   categories,
		store:        store,
		cfg:          cfg,
		prompts:      prompts,
		logger:       logger.With().Str("component", "question_engine").Logger(),
	}
}

// Generate synthesizes a transient question of the given type. Exactly one
// of categoryName/topicTitle selects the reference topic: a title is looked
// up exactly, a category draws one of its topics uniformly at random.
func (e *Engine) Generate(ctx context.Context, typ int, categoryName, topicTitle string) (*TempQuestion, error) {
	strat, ok := strategyFor(typ)
	if !ok || typ > e.cfg.MaxType {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, typ)
	}

	ref, catName, err := e.resolveReference(ctx, categoryName, topicTitle)
	if err != nil {
		return nil, err
	}

	desc, err := e.descriptions.RandomDescriptionInTopic(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("pick description: %w", err)
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: topic %q has no descriptions", ErrNoEligibleCandidate, ref.Title)
	}

	pool, err := e.candidatePool(ctx, strat.scope, catName)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	answer, err := e.pickAnswer(ctx, strat, ref, pool)
	if err != nil {
		return nil, err
	}

	distractors, err := sampleChoices(pool, func(cand model.ChoiceCandidate) bool {
		return strat.exclude(cand, ref)
	}, answer.ID, e.cfg.ChoiceCount-1)
	if err != nil {
		return nil, err
	}

	options := make([]ChoiceOption, 0, e.cfg.ChoiceCount)
	for _, c := range distractors {
		options = append(options, ChoiceOption{ID: c.ID, Content: c.Content})
	}
	// answer goes last
	options = append(options, ChoiceOption{ID: answer.ID, Content: answer.Content})

	e.logger.Debug().
		Int("type", typ).
		Str("category", catName).
		Str("topic", ref.Title).
		Msg("question generated")

	return &TempQuestion{
		Type:           typ,
		CategoryName:   catName,
		Prompt:         strat.prompt(e.prompts, catName),
		AnswerChoiceID: answer.ID,
		Description:    DescriptionRef{ID: desc.ID, Content: desc.Content},
		Choices:        options,
	}, nil
}

// resolveReference picks the topic the question is built around and the
// category name used in the prompt.
func (e *Engine) resolveReference(ctx context.Context, categoryName, topicTitle string) (*model.Topic, string, error) {
	if topicTitle != "" {
		topic, err := e.topics.FindTopicByTitle(ctx, topicTitle)
		if err != nil {
			return nil, "", fmt.Errorf("find topic: %w", err)
		}
		if topic == nil {
			return nil, "", fmt.Errorf("%w: topic %q", ErrNotFound, topicTitle)
		}
		if categoryName == "" {
			cat, err := e.categories.FindCategoryByID(ctx, topic.CategoryID)
			if err != nil {
				return nil, "", fmt.Errorf("resolve topic category: %w", err)
			}
			if cat == nil {
				return nil, "", fmt.Errorf("%w: category of topic %q", ErrNotFound, topicTitle)
			}
			categoryName = cat.Name
		}
		return topic, categoryName, nil
	}

	topic, err := e.topics.RandomTopicInCategory(ctx, categoryName)
	if err != nil {
		return nil, "", fmt.Errorf("draw topic: %w", err)
	}
	if topic == nil {
		return nil, "", fmt.Errorf("%w: no topics in category %q", ErrNotFound, categoryName)
	}
	return topic, categoryName, nil
}

func (e *Engine) candidatePool(ctx context.Context, scope poolScope, categoryName string) ([]model.ChoiceCandidate, error) {
	if scope == scopeCategory {
		return e.choices.CandidatesInCategory(ctx, categoryName)
	}
	return e.choices.Candidates(ctx)
}

func (e *Engine) pickAnswer(ctx context.Context, strat strategy, ref *model.Topic, pool []model.ChoiceCandidate) (*model.Choice, error) {
	if strat.correct == nil {
		answer, err := e.choices.RandomChoiceInTopic(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("pick answer choice: %w", err)
		}
		if answer == nil {
			return nil, fmt.Errorf("%w: topic %q has no choices", ErrNoEligibleCandidate, ref.Title)
		}
		return answer, nil
	}

	answer := pickCandidate(pool, func(cand model.ChoiceCandidate) bool {
		return strat.correct(cand, ref)
	})
	if answer == nil {
		return nil, fmt.Errorf("%w: no choice satisfies the temporal rule for topic %q", ErrNoEligibleCandidate, ref.Title)
	}
	return answer, nil
}

// Commit persists a previewed question with its choice and description
// links. Referenced rows are re-validated first; the store writes the rest
// in a single transaction so a partial question can never land.
func (e *Engine) Commit(ctx context.Context, temp *TempQuestion) (*model.Question, error) {
	if temp.Type < 1 || temp.Type > e.cfg.MaxType {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, temp.Type)
	}

	cat, err := e.categories.FindCategoryByName(ctx, temp.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, temp.CategoryName)
	}

	desc, err := e.descriptions.FindDescriptionByID(ctx, temp.Description.ID)
	if err != nil {
		return nil, fmt.Errorf("find description: %w", err)
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: description %d", ErrPersistenceConflict, temp.Description.ID)
	}

	choiceIDs := make([]int64, 0, len(temp.Choices))
	for _, c := range temp.Choices {
		choiceIDs = append(choiceIDs, c.ID)
	}
	found, err := e.choices.FindChoicesByIDs(ctx, choiceIDs)
	if err != nil {
		return nil, fmt.Errorf("find choices: %w", err)
	}
	if len(found) != len(choiceIDs) {
		return nil, fmt.Errorf("%w: %d of %d choices remain", ErrPersistenceConflict, len(found), len(choiceIDs))
	}

	saved, err := e.store.Create(ctx, &model.Question{
		CategoryID:     cat.ID,
		Prompt:         temp.Prompt,
		AnswerChoiceID: temp.AnswerChoiceID,
		Type:           temp.Type,
	}, choiceIDs, temp.Description.ID)
	if err != nil {
		return nil, fmt.Errorf("persist question: %w", err)
	}

	e.logger.Info().Int64("question_id", saved.ID).Int("type", saved.Type).Msg("question committed")
	return saved, nil
}

// Get returns a persisted question in the same payload shape as a preview.
func (e *Engine) Get(ctx context.Context, id int64) (*TempQuestion, error) {
	detail, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
	}

	// answer goes last, matching the preview payload
	options := make([]ChoiceOption, 0, len(detail.Choices))
	var answer *ChoiceOption
	for _, c := range detail.Choices {
		if c.ID == detail.Question.AnswerChoiceID {
			answer = &ChoiceOption{ID: c.ID, Content: c.Content}
			continue
		}
		options = append(options, ChoiceOption{ID: c.ID, Content: c.Content})
	}
	if answer != nil {
		options = append(options, *answer)
	}
	return &TempQuestion{
		ID:             detail.Question.ID,
		Type:           detail.Question.Type,
		CategoryName:   detail.CategoryName,
		Prompt:         detail.Question.Prompt,
		AnswerChoiceID: detail.Question.AnswerChoiceID,
		Description:    DescriptionRef{ID: detail.Description.ID, Content: detail.Description.Content},
		Choices:        options,
	}, nil
}

// Update rewrites prompt, answer, type and category of a stored question.
func (e *Engine) Update(ctx context.Context, id int64, params UpdateParams) (*model.Question, error) {
	if params.Type < 1 || params.Type > e.cfg.MaxType {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, params.Type)
	}

	existing, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
	}

	cat, err := e.categories.FindCategoryByName(ctx, params.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, params.CategoryName)
	}

	updated := &model.Question{
		ID:             id,
		CategoryID:     cat.ID,
		Prompt:         params.Prompt,
		AnswerChoiceID: params.AnswerChoiceID,
		Type:           params.Type,
	}
	if err := e.store.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return updated, nil
}

// Delete removes a persisted question and its links.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	deleted, err := e.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: question %d", ErrNotFound, id)
	}
	return nil
}
