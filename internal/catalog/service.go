package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// Catalog failure sentinels, mapped to HTTP statuses at the edge.
var (
	ErrTopicNotFound       = errors.New("topic not found")
	ErrChapterNotFound     = errors.New("chapter not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrKeywordNotFound     = errors.New("keyword not found")
	ErrSentenceNotFound    = errors.New("sentence not found")
	ErrChoiceNotFound      = errors.New("choice not found")
	ErrDescriptionNotFound = errors.New("description not found")

	ErrTitleTaken         = errors.New("topic title already in use")
	ErrChapterNumberTaken = errors.New("chapter number already in use")
	ErrCategoryNameTaken  = errors.New("category name already in use")
)

type topicStore interface {
	FindTopicByTitle(ctx context.Context, title string) (*model.Topic, error)
	DetailByTitle(ctx context.Context, title string) (*model.TopicDetail, error)
	TitlesInChapter(ctx context.Context, chapterNumber int) ([]string, error)
	KeywordsOfTopic(ctx context.Context, title string) ([]string, error)
	Create(ctx context.Context, t *model.Topic) (*model.Topic, error)
	Update(ctx context.Context, t *model.Topic) error
	DeleteByTitle(ctx context.Context, title string) (bool, error)
}

type chapterStore interface {
	FindByNumber(ctx context.Context, number int) (*model.Chapter, error)
	List(ctx context.Context) ([]model.Chapter, error)
	Create(ctx context.Context, title string, number int) (*model.Chapter, error)
	Update(ctx context.Context, number int, title string, newNumber int) (bool, error)
	Delete(ctx context.Context, number int) (bool, error)
}

type categoryStore interface {
	FindCategoryByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, name string) (*model.Category, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type keywordStore interface {
	FindByName(ctx context.Context, name string) (*model.Keyword, error)
	Create(ctx context.Context, name string) (*model.Keyword, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Attach(ctx context.Context, topicID, keywordID int64) error
	Detach(ctx context.Context, topicID, keywordID int64) (bool, error)
}

type sentenceStore interface {
	Create(ctx context.Context, s *model.Sentence) (*model.Sentence, error)
	UpdateContent(ctx context.Context, id int64, content string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type choiceStore interface {
	ListByTopicTitle(ctx context.Context, title string) ([]model.Choice, error)
	Create(ctx context.Context, c *model.Choice) (*model.Choice, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type descriptionStore interface {
	ListByTopicTitle(ctx context.Context, title string) ([]model.Description, error)
	Create(ctx context.Context, d *model.Description) (*model.Description, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// detailCache caches topic detail payloads (Redis-backed in production).
type detailCache interface {
	Get(ctx context.Context, title string) (*TopicDetail, error)
	Set(ctx context.Context, detail TopicDetail) error
	Invalidate(ctx context.Context, title string) error
}

// TopicDetail is the public topic payload.
type TopicDetail struct {
	Chapter   int      `json:"chapter"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	StartDate int      `json:"startDate"`
	EndDate   int      `json:"endDate"`
	Detail    string   `json:"detail"`
	Keywords  []string `json:"keywords"`
}

// TopicParams carries admin input for creating or updating a topic.
type TopicParams struct {
	Chapter   int    `json:"chapter"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	StartDate int    `json:"startDate"`
	EndDate   int    `json:"endDate"`
	Detail    string `json:"detail"`
}

// Service implements chapter/category/topic/keyword/sentence administration
// and the public topic reads. The question engine reads the same tables
// through its own sources; this service is the only writer.
type Service struct {
	topics       topicStore
	chapters     chapterStore
	categories   categoryStore
	keywords     keywordStore
	sentences    sentenceStore
	choices      choiceStore
	descriptions descriptionStore
	cache        detailCache
	logger       zerolog.Logger
}

// NewService wires the catalog service. cache may be nil.
func NewService(topics topicStore, chapters chapterStore, categories categoryStore, keywords keywordStore, sentences sentenceStore, choices choiceStore, descriptions descriptionStore, cache detailCache, logger zerolog.Logger) *Service {
	return &Service{
		topics:       topics,
		chapters:     chapters,
		categories:   categories,
		keywords:     keywords,
		sentences:    sentences,
		choices:      choices,
		descriptions: descriptions,
		cache:        cache,
		logger:       logger.With().Str("component", "catalog").Logger(),
	}
}

// TopicDetail returns the public payload for one topic, read through the
// cache when one is configured.
func (s *Service) TopicDetail(ctx context.Context, title string) (*TopicDetail, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, title); err == nil && cached != nil {
			return cached, nil
		}
	}

	row, err := s.topics.DetailByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, title)
	}

	keywords, err := s.topics.KeywordsOfTopic(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("load topic keywords: %w", err)
	}

	detail := TopicDetail{
		Chapter:   row.ChapterNumber,
		Title:     row.Title,
		Category:  row.CategoryName,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Detail:    row.Detail,
		Keywords:  keywords,
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, detail); err != nil {
			s.logger.Warn().Err(err).Str("topic", title).Msg("topic cache write failed")
		}
	}
	return &detail, nil
}

// TopicsInChapter lists topic titles of a chapter.
func (s *Service) TopicsInChapter(ctx context.Context, number int) ([]string, error) {
	chapter, err := s.chapters.FindByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("find chapter: %w", err)
	}
	if chapter == nil {
		return nil, fmt.Errorf("%w: %d", ErrChapterNotFound, number)
	}
	return s.topics.TitlesInChapter(ctx, number)
}

// resolveTopicRefs maps chapter number and category name to row ids.
func (s *Service) resolveTopicRefs(ctx context.Context, p TopicParams) (chapterID, categoryID int64, err error) {
	chapter, err := s.chapters.FindByNumber(ctx, p.Chapter)
	if err != nil {
		return 0, 0, fmt.Errorf("find chapter: %w", err)
	}
	if chapter == nil {
		return 0, 0, fmt.Errorf("%w: %d", ErrChapterNotFound, p.Chapter)
	}
	category, err := s.categories.FindCategoryByName(ctx, p.Category)
	if err != nil {
		return 0, 0, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrCategoryNotFound, p.Category)
	}
	return chapter.ID, category.ID, nil
}

// CreateTopic adds a topic under an existing chapter and category.
func (s *Service) CreateTopic(ctx context.Context, p TopicParams) (*model.Topic, error) {
	existing, err := s.topics.FindTopicByTitle(ctx, p.Title)
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrTitleTaken, p.Title)
	}

	chapterID, categoryID, err := s.resolveTopicRefs(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.topics.Create(ctx, &model.Topic{
		ChapterID:  chapterID,
		CategoryID: categoryID,
		Title:      p.Title,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Detail:     p.Detail,
	})
}

// UpdateTopic rewrites the topic currently named title.
func (s *Service) UpdateTopic(ctx context.Context, title string, p TopicParams) error {
	topic, err := s.topics.FindTopicByTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return fmt.Errorf("%w: %q", ErrTopicNotFound, title)
	}

	if p.Title != title {
		clash, err := s.topics.FindTopicByTitle(ctx, p.Title)
		if err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if clash != nil {
			return fmt.Errorf("%w: %q", ErrTitleTaken, p.Title)
		}
	}

	chapterID, categoryID, err := s.resolveTopicRefs(ctx, p)
	if err != nil {
		return err
	}

	topic.ChapterID = chapterID
	topic.CategoryID = categoryID
	topic.Title = p.Title
	topic.StartDate = p.StartDate
	topic.EndDate = p.EndDate
	topic.Detail = p.Detail
	if err := s.topics.Update(ctx, topic); err != nil {
		return err
	}
	s.invalidate(ctx, title, p.Title)
	return nil
}

// DeleteTopic removes a topic and everything it owns.
func (s *Service) DeleteTopic(ctx context.Context, title string) error {
	deleted, err := s.topics.DeleteByTitle(ctx, title)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %q", ErrTopicNotFound, title)
	}
	s.invalidate(ctx, title)
	return nil
}

func (s *Service) invalidate(ctx context.Context, titles ...string) {
	if s.cache == nil {
		return
	}
	for _, title := range titles {
		if err := s.cache.Invalidate(ctx, title); err != nil {
			s.logger.Warn().Err(err).Str("topic", title).Msg("topic cache invalidation failed")
		}
	}
}

// Chapters lists all chapters.
func (s *Service) Chapters(ctx context.Context) ([]model.Chapter, error) {
	return s.chapters.List(ctx)
}

// CreateChapter adds a chapter with a unique number.
func (s *Service) CreateChapter(ctx context.Context, title string, number int) (*model.Chapter, error) {
	existing, err := s.chapters.FindByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("check chapter number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %d", ErrChapterNumberTaken, number)
	}
	return s.chapters.Create(ctx, title, number)
}

// UpdateChapter renames or renumbers a chapter.
func (s *Service) UpdateChapter(ctx context.Context, number int, title string, newNumber int) error {
	if newNumber != number {
		clash, err := s.chapters.FindByNumber(ctx, newNumber)
		if err != nil {
			return fmt.Errorf("check chapter number: %w", err)
		}
		if clash != nil {
			return fmt.Errorf("%w: %d", ErrChapterNumberTaken, newNumber)
		}
	}
	updated, err := s.chapters.Update(ctx, number, title, newNumber)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: %d", ErrChapterNotFound, number)
	}
	return nil
}

// DeleteChapter removes a chapter by number.
func (s *Service) DeleteChapter(ctx context.Context, number int) error {
	deleted, err := s.chapters.Delete(ctx, number)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %d", ErrChapterNotFound, number)
	}
	return nil
}

// Categories lists all categories.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory adds a category with a unique name.
func (s *Service) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	existing, err := s.categories.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNameTaken, name)
	}
	return s.categories.Create(ctx, name)
}

// RenameCategory changes a category's name.
func (s *Service) RenameCategory(ctx context.Context, name, newName string) error {
	category, err := s.categories.FindCategoryByName(ctx, name)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return fmt.Errorf("%w: %q", ErrCategoryNotFound, name)
	}
	if newName != name {
		clash, err := s.categories.FindCategoryByName(ctx, newName)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if clash != nil {
			return fmt.Errorf("%w: %q", ErrCategoryNameTaken, newName)
		}
	}
	return s.categories.Rename(ctx, category.ID, newName)
}

// DeleteCategory removes a category by name.
func (s *Service) DeleteCategory(ctx context.Context, name string) error {
	category, err := s.categories.FindCategoryByName(ctx, name)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return fmt.Errorf("%w: %q", ErrCategoryNotFound, name)
	}
	_, err = s.categories.Delete(ctx, category.ID)
	return err
}

// AttachKeyword links a keyword to a topic, creating the keyword when it
// does not exist yet.
func (s *Service) AttachKeyword(ctx context.Context, topicTitle, keywordName string) error {
	topic, err := s.topics.FindTopicByTitle(ctx, topicTitle)
	if err != nil {
		return fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return fmt.Errorf("%w: %q", ErrTopicNotFound, topicTitle)
	}

	keyword, err := s.keywords.FindByName(ctx, keywordName)
	if err != nil {
		return fmt.Errorf("find keyword: %w", err)
	}
	if keyword == nil {
		keyword, err = s.keywords.Create(ctx, keywordName)
		if err != nil {
			return err
		}
	}

	if err := s.keywords.Attach(ctx, topic.ID, keyword.ID); err != nil {
		return err
	}
	s.invalidate(ctx, topicTitle)
	return nil
}

// DetachKeyword unlinks a keyword from a topic.
func (s *Service) DetachKeyword(ctx context.Context, topicTitle, keywordName string) error {
	topic, err := s.topics.FindTopicByTitle(ctx, topicTitle)
	if err != nil {
		return fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return fmt.Errorf("%w: %q", ErrTopicNotFound, topicTitle)
	}
	keyword, err := s.keywords.FindByName(ctx, keywordName)
	if err != nil {
		return fmt.Errorf("find keyword: %w", err)
	}
	if keyword == nil {
		return fmt.Errorf("%w: %q", ErrKeywordNotFound, keywordName)
	}

	detached, err := s.keywords.Detach(ctx, topic.ID, keyword.ID)
	if err != nil {
		return err
	}
	if !detached {
		return fmt.Errorf("%w: %q on topic %q", ErrKeywordNotFound, keywordName, topicTitle)
	}
	s.invalidate(ctx, topicTitle)
	return nil
}

// CreateSentence attaches a source excerpt to a topic.
func (s *Service) CreateSentence(ctx context.Context, topicTitle, content string) (*model.Sentence, error) {
	topic, err := s.topics.FindTopicByTitle(ctx, topicTitle)
	if err != nil {
		return nil, fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, topicTitle)
	}
	return s.sentences.Create(ctx, &model.Sentence{Content: content, TopicID: topic.ID})
}

// UpdateSentence rewrites a sentence's text.
func (s *Service) UpdateSentence(ctx context.Context, id int64, content string) error {
	updated, err := s.sentences.UpdateContent(ctx, id, content)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: %d", ErrSentenceNotFound, id)
	}
	return nil
}

// DeleteSentence removes a sentence.
func (s *Service) DeleteSentence(ctx context.Context, id int64) error {
	deleted, err := s.sentences.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %d", ErrSentenceNotFound, id)
	}
	return nil
}

// ChoicesOfTopic lists a topic's answer choices.
func (s *Service) ChoicesOfTopic(ctx context.Context, title string) ([]model.Choice, error) {
	if err := s.requireTopic(ctx, title); err != nil {
		return nil, err
	}
	return s.choices.ListByTopicTitle(ctx, title)
}

// AddChoice attaches an answer choice to a topic.
func (s *Service) AddChoice(ctx context.Context, title, content string) (*model.Choice, error) {
	topic, err := s.topics.FindTopicByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, title)
	}
	return s.choices.Create(ctx, &model.Choice{Content: content, TopicID: topic.ID})
}

// DeleteChoice removes an answer choice.
func (s *Service) DeleteChoice(ctx context.Context, id int64) error {
	deleted, err := s.choices.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %d", ErrChoiceNotFound, id)
	}
	return nil
}

// DescriptionsOfTopic lists a topic's descriptions.
func (s *Service) DescriptionsOfTopic(ctx context.Context, title string) ([]model.Description, error) {
	if err := s.requireTopic(ctx, title); err != nil {
		return nil, err
	}
	return s.descriptions.ListByTopicTitle(ctx, title)
}

// AddDescription attaches a description to a topic.
func (s *Service) AddDescription(ctx context.Context, title, content string) (*model.Description, error) {
	topic, err := s.topics.FindTopicByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, title)
	}
	return s.descriptions.Create(ctx, &model.Description{Content: content, TopicID: topic.ID})
}

// DeleteDescription removes a description.
func (s *Service) DeleteDescription(ctx context.Context, id int64) error {
	deleted, err := s.descriptions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %d", ErrDescriptionNotFound, id)
	}
	return nil
}

func (s *Service) requireTopic(ctx context.Context, title string) error {
	topic, err := s.topics.FindTopicByTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return fmt.Errorf("%w: %q", ErrTopicNotFound, title)
	}
	return nil
}
