package catalog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// catalogFixture backs every store interface with in-memory maps.
type catalogFixture struct {
	nextID       int64
	topics       map[string]*model.Topic
	chapters     map[int]*model.Chapter
	categories   map[string]*model.Category
	keywords     map[string]*model.Keyword
	topicKeys    map[int64]map[int64]bool // topic id -> keyword ids
	sentences    map[int64]*model.Sentence
	choices      map[int64]*model.Choice
	descriptions map[int64]*model.Description
}

func newCatalogFixture() *catalogFixture {
	return &catalogFixture{
		nextID:       100,
		topics:       map[string]*model.Topic{},
		chapters:     map[int]*model.Chapter{},
		categories:   map[string]*model.Category{},
		keywords:     map[string]*model.Keyword{},
		topicKeys:    map[int64]map[int64]bool{},
		sentences:    map[int64]*model.Sentence{},
		choices:      map[int64]*model.Choice{},
		descriptions: map[int64]*model.Description{},
	}
}

func (f *catalogFixture) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *catalogFixture) FindTopicByTitle(_ context.Context, title string) (*model.Topic, error) {
	t, ok := f.topics[title]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *catalogFixture) DetailByTitle(_ context.Context, title string) (*model.TopicDetail, error) {
	t, ok := f.topics[title]
	if !ok {
		return nil, nil
	}
	var chapterNumber int
	for _, ch := range f.chapters {
		if ch.ID == t.ChapterID {
			chapterNumber = ch.Number
		}
	}
	var categoryName string
	for _, c := range f.categories {
		if c.ID == t.CategoryID {
			categoryName = c.Name
		}
	}
	return &model.TopicDetail{
		ID:            t.ID,
		ChapterNumber: chapterNumber,
		CategoryName:  categoryName,
		Title:         t.Title,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		Detail:        t.Detail,
	}, nil
}

func (f *catalogFixture) TitlesInChapter(_ context.Context, chapterNumber int) ([]string, error) {
	ch, ok := f.chapters[chapterNumber]
	if !ok {
		return nil, nil
	}
	var titles []string
	for _, t := range f.topics {
		if t.ChapterID == ch.ID {
			titles = append(titles, t.Title)
		}
	}
	return titles, nil
}

func (f *catalogFixture) KeywordsOfTopic(_ context.Context, title string) ([]string, error) {
	t, ok := f.topics[title]
	if !ok {
		return nil, nil
	}
	var names []string
	for _, kw := range f.keywords {
		if f.topicKeys[t.ID][kw.ID] {
			names = append(names, kw.Name)
		}
	}
	return names, nil
}

func (f *catalogFixture) Create(_ context.Context, t *model.Topic) (*model.Topic, error) {
	t.ID = f.id()
	f.topics[t.Title] = t
	return t, nil
}

func (f *catalogFixture) Update(_ context.Context, t *model.Topic) error {
	for title, existing := range f.topics {
		if existing.ID == t.ID {
			delete(f.topics, title)
			f.topics[t.Title] = t
			return nil
		}
	}
	return nil
}

func (f *catalogFixture) DeleteByTitle(_ context.Context, title string) (bool, error) {
	if _, ok := f.topics[title]; !ok {
		return false, nil
	}
	delete(f.topics, title)
	return true, nil
}

func (f *catalogFixture) FindByNumber(_ context.Context, number int) (*model.Chapter, error) {
	ch, ok := f.chapters[number]
	if !ok {
		return nil, nil
	}
	copied := *ch
	return &copied, nil
}

func (f *catalogFixture) List(_ context.Context) ([]model.Chapter, error) {
	var out []model.Chapter
	for _, ch := range f.chapters {
		out = append(out, *ch)
	}
	return out, nil
}

func (f *catalogFixture) CreateChapter(_ context.Context, title string, number int) (*model.Chapter, error) {
	ch := &model.Chapter{ID: f.id(), Title: title, Number: number}
	f.chapters[number] = ch
	return ch, nil
}

func (f *catalogFixture) UpdateChapter(_ context.Context, number int, title string, newNumber int) (bool, error) {
	ch, ok := f.chapters[number]
	if !ok {
		return false, nil
	}
	delete(f.chapters, number)
	ch.Title = title
	ch.Number = newNumber
	f.chapters[newNumber] = ch
	return true, nil
}

func (f *catalogFixture) DeleteChapter(_ context.Context, number int) (bool, error) {
	if _, ok := f.chapters[number]; !ok {
		return false, nil
	}
	delete(f.chapters, number)
	return true, nil
}

func (f *catalogFixture) FindCategoryByName(_ context.Context, name string) (*model.Category, error) {
	c, ok := f.categories[name]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *catalogFixture) ListCategories(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *catalogFixture) CreateCategory(_ context.Context, name string) (*model.Category, error) {
	c := &model.Category{ID: f.id(), Name: name}
	f.categories[name] = c
	return c, nil
}

func (f *catalogFixture) Rename(_ context.Context, id int64, name string) error {
	for old, c := range f.categories {
		if c.ID == id {
			delete(f.categories, old)
			c.Name = name
			f.categories[name] = c
			return nil
		}
	}
	return nil
}

func (f *catalogFixture) DeleteCategory(_ context.Context, id int64) (bool, error) {
	for name, c := range f.categories {
		if c.ID == id {
			delete(f.categories, name)
			return true, nil
		}
	}
	return false, nil
}

func (f *catalogFixture) FindByName(_ context.Context, name string) (*model.Keyword, error) {
	kw, ok := f.keywords[name]
	if !ok {
		return nil, nil
	}
	copied := *kw
	return &copied, nil
}

func (f *catalogFixture) CreateKeyword(_ context.Context, name string) (*model.Keyword, error) {
	kw := &model.Keyword{ID: f.id(), Name: name}
	f.keywords[name] = kw
	return kw, nil
}

func (f *catalogFixture) DeleteKeyword(_ context.Context, id int64) (bool, error) {
	for name, kw := range f.keywords {
		if kw.ID == id {
			delete(f.keywords, name)
			return true, nil
		}
	}
	return false, nil
}

func (f *catalogFixture) Attach(_ context.Context, topicID, keywordID int64) error {
	if f.topicKeys[topicID] == nil {
		f.topicKeys[topicID] = map[int64]bool{}
	}
	f.topicKeys[topicID][keywordID] = true
	return nil
}

func (f *catalogFixture) Detach(_ context.Context, topicID, keywordID int64) (bool, error) {
	if !f.topicKeys[topicID][keywordID] {
		return false, nil
	}
	delete(f.topicKeys[topicID], keywordID)
	return true, nil
}

func (f *catalogFixture) CreateSentence(_ context.Context, s *model.Sentence) (*model.Sentence, error) {
	s.ID = f.id()
	f.sentences[s.ID] = s
	return s, nil
}

func (f *catalogFixture) UpdateContent(_ context.Context, id int64, content string) (bool, error) {
	s, ok := f.sentences[id]
	if !ok {
		return false, nil
	}
	s.Content = content
	return true, nil
}

func (f *catalogFixture) DeleteSentence(_ context.Context, id int64) (bool, error) {
	if _, ok := f.sentences[id]; !ok {
		return false, nil
	}
	delete(f.sentences, id)
	return true, nil
}

func (f *catalogFixture) ListByTopicTitle(_ context.Context, title string) ([]model.Choice, error) {
	t, ok := f.topics[title]
	if !ok {
		return nil, nil
	}
	var out []model.Choice
	for _, c := range f.choices {
		if c.TopicID == t.ID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *catalogFixture) CreateChoice(_ context.Context, c *model.Choice) (*model.Choice, error) {
	c.ID = f.id()
	f.choices[c.ID] = c
	return c, nil
}

func (f *catalogFixture) DeleteChoice(_ context.Context, id int64) (bool, error) {
	if _, ok := f.choices[id]; !ok {
		return false, nil
	}
	delete(f.choices, id)
	return true, nil
}

func (f *catalogFixture) ListDescriptionsByTopicTitle(_ context.Context, title string) ([]model.Description, error) {
	t, ok := f.topics[title]
	if !ok {
		return nil, nil
	}
	var out []model.Description
	for _, d := range f.descriptions {
		if d.TopicID == t.ID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *catalogFixture) CreateDescription(_ context.Context, d *model.Description) (*model.Description, error) {
	d.ID = f.id()
	f.descriptions[d.ID] = d
	return d, nil
}

func (f *catalogFixture) DeleteDescription(_ context.Context, id int64) (bool, error) {
	if _, ok := f.descriptions[id]; !ok {
		return false, nil
	}
	delete(f.descriptions, id)
	return true, nil
}

// adapter structs give each store interface its expected method names.
type chapterAdapter struct{ f *catalogFixture }

func (a chapterAdapter) FindByNumber(ctx context.Context, number int) (*model.Chapter, error) {
	return a.f.FindByNumber(ctx, number)
}
func (a chapterAdapter) List(ctx context.Context) ([]model.Chapter, error) { return a.f.List(ctx) }
func (a chapterAdapter) Create(ctx context.Context, title string, number int) (*model.Chapter, error) {
	return a.f.CreateChapter(ctx, title, number)
}
func (a chapterAdapter) Update(ctx context.Context, number int, title string, newNumber int) (bool, error) {
	return a.f.UpdateChapter(ctx, number, title, newNumber)
}
func (a chapterAdapter) Delete(ctx context.Context, number int) (bool, error) {
	return a.f.DeleteChapter(ctx, number)
}

type categoryAdapter struct{ f *catalogFixture }

func (a categoryAdapter) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	return a.f.FindCategoryByName(ctx, name)
}
func (a categoryAdapter) List(ctx context.Context) ([]model.Category, error) {
	return a.f.ListCategories(ctx)
}
func (a categoryAdapter) Create(ctx context.Context, name string) (*model.Category, error) {
	return a.f.CreateCategory(ctx, name)
}
func (a categoryAdapter) Rename(ctx context.Context, id int64, name string) error {
	return a.f.Rename(ctx, id, name)
}
func (a categoryAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	return a.f.DeleteCategory(ctx, id)
}

type keywordAdapter struct{ f *catalogFixture }

func (a keywordAdapter) FindByName(ctx context.Context, name string) (*model.Keyword, error) {
	return a.f.FindByName(ctx, name)
}
func (a keywordAdapter) Create(ctx context.Context, name string) (*model.Keyword, error) {
	return a.f.CreateKeyword(ctx, name)
}
func (a keywordAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	return a.f.DeleteKeyword(ctx, id)
}
func (a keywordAdapter) Attach(ctx context.Context, topicID, keywordID int64) error {
	return a.f.Attach(ctx, topicID, keywordID)
}
func (a keywordAdapter) Detach(ctx context.Context, topicID, keywordID int64) (bool, error) {
	return a.f.Detach(ctx, topicID, keywordID)
}

type sentenceAdapter struct{ f *catalogFixture }

func (a sentenceAdapter) Create(ctx context.Context, s *model.Sentence) (*model.Sentence, error) {
	return a.f.CreateSentence(ctx, s)
}
func (a sentenceAdapter) UpdateContent(ctx context.Context, id int64, content string) (bool, error) {
	return a.f.UpdateContent(ctx, id, content)
}
func (a sentenceAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	return a.f.DeleteSentence(ctx, id)
}

type choiceAdapter struct{ f *catalogFixture }

func (a choiceAdapter) ListByTopicTitle(ctx context.Context, title string) ([]model.Choice, error) {
	return a.f.ListByTopicTitle(ctx, title)
}
func (a choiceAdapter) Create(ctx context.Context, c *model.Choice) (*model.Choice, error) {
	return a.f.CreateChoice(ctx, c)
}
func (a choiceAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	return a.f.DeleteChoice(ctx, id)
}

type descriptionAdapter struct{ f *catalogFixture }

func (a descriptionAdapter) ListByTopicTitle(ctx context.Context, title string) ([]model.Description, error) {
	return a.f.ListDescriptionsByTopicTitle(ctx, title)
}
func (a descriptionAdapter) Create(ctx context.Context, d *model.Description) (*model.Description, error) {
	return a.f.CreateDescription(ctx, d)
}
func (a descriptionAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	return a.f.DeleteDescription(ctx, id)
}

// memoryDetailCache records hits and invalidations.
type memoryDetailCache struct {
	store         map[string]TopicDetail
	invalidations []string
}

func newMemoryDetailCache() *memoryDetailCache {
	return &memoryDetailCache{store: map[string]TopicDetail{}}
}

func (c *memoryDetailCache) Get(_ context.Context, title string) (*TopicDetail, error) {
	if d, ok := c.store[title]; ok {
		return &d, nil
	}
	return nil, nil
}

func (c *memoryDetailCache) Set(_ context.Context, detail TopicDetail) error {
	c.store[detail.Title] = detail
	return nil
}

func (c *memoryDetailCache) Invalidate(_ context.Context, title string) error {
	c.invalidations = append(c.invalidations, title)
	delete(c.store, title)
	return nil
}

func newTestService(f *catalogFixture, cache detailCache) *Service {
	return NewService(
		f,
		chapterAdapter{f},
		categoryAdapter{f},
		keywordAdapter{f},
		sentenceAdapter{f},
		choiceAdapter{f},
		descriptionAdapter{f},
		cache,
		zerolog.Nop(),
	)
}

func seedFixture(f *catalogFixture) {
	f.chapters[1] = &model.Chapter{ID: 1, Title: "근대 국민 국가 수립 운동", Number: 1}
	f.categories["사건"] = &model.Category{ID: 1, Name: "사건"}
	f.topics["갑오개혁"] = &model.Topic{
		ID: 1, ChapterID: 1, CategoryID: 1, Title: "갑오개혁",
		StartDate: 18940727, EndDate: 18960211, Detail: "군국기무처를 중심으로 추진된 개혁",
	}
	f.keywords["개혁"] = &model.Keyword{ID: 2, Name: "개혁"}
	f.topicKeys[1] = map[int64]bool{2: true}
}

func TestTopicDetailPopulatesCache(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	cache := newMemoryDetailCache()
	svc := newTestService(f, cache)
	ctx := context.Background()

	detail, err := svc.TopicDetail(ctx, "갑오개혁")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Chapter)
	assert.Equal(t, "사건", detail.Category)
	assert.Equal(t, 18940727, detail.StartDate)
	assert.Equal(t, []string{"개혁"}, detail.Keywords)

	// second read must come from the cache even after the row changes
	f.topics["갑오개혁"].Detail = "changed underneath"
	again, err := svc.TopicDetail(ctx, "갑오개혁")
	require.NoError(t, err)
	assert.Equal(t, detail.Detail, again.Detail)
}

func TestTopicDetailUnknownTitle(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	svc := newTestService(f, nil)

	_, err := svc.TopicDetail(context.Background(), "없는주제")
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestCreateTopicValidation(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	svc := newTestService(f, nil)
	ctx := context.Background()

	_, err := svc.CreateTopic(ctx, TopicParams{Chapter: 1, Title: "갑오개혁", Category: "사건"})
	assert.ErrorIs(t, err, ErrTitleTaken)

	_, err = svc.CreateTopic(ctx, TopicParams{Chapter: 9, Title: "을미사변", Category: "사건"})
	assert.ErrorIs(t, err, ErrChapterNotFound)

	_, err = svc.CreateTopic(ctx, TopicParams{Chapter: 1, Title: "을미사변", Category: "없는분류"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	topic, err := svc.CreateTopic(ctx, TopicParams{
		Chapter: 1, Title: "을미사변", Category: "사건", StartDate: 18951008, EndDate: 18951008,
	})
	require.NoError(t, err)
	assert.NotZero(t, topic.ID)
	assert.Equal(t, int64(1), topic.ChapterID)
}

func TestUpdateTopicInvalidatesCache(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	cache := newMemoryDetailCache()
	svc := newTestService(f, cache)
	ctx := context.Background()

	err := svc.UpdateTopic(ctx, "갑오개혁", TopicParams{
		Chapter: 1, Title: "갑오·을미개혁", Category: "사건", StartDate: 18940727, EndDate: 18960211,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"갑오개혁", "갑오·을미개혁"}, cache.invalidations)
}

func TestDeleteTopic(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	cache := newMemoryDetailCache()
	svc := newTestService(f, cache)
	ctx := context.Background()

	require.NoError(t, svc.DeleteTopic(ctx, "갑오개혁"))
	assert.Contains(t, cache.invalidations, "갑오개혁")
	assert.ErrorIs(t, svc.DeleteTopic(ctx, "갑오개혁"), ErrTopicNotFound)
}

func TestChapterNumberClash(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	svc := newTestService(f, nil)
	ctx := context.Background()

	_, err := svc.CreateChapter(ctx, "일제 식민 통치와 민족 운동", 1)
	assert.ErrorIs(t, err, ErrChapterNumberTaken)

	created, err := svc.CreateChapter(ctx, "일제 식민 통치와 민족 운동", 2)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	err = svc.UpdateChapter(ctx, 2, "renamed", 1)
	assert.ErrorIs(t, err, ErrChapterNumberTaken)

	require.NoError(t, svc.UpdateChapter(ctx, 2, "renamed", 3))
	assert.ErrorIs(t, svc.UpdateChapter(ctx, 2, "gone", 2), ErrChapterNotFound)
}

func TestAttachKeywordCreatesMissingKeyword(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	svc := newTestService(f, nil)
	ctx := context.Background()

	require.NoError(t, svc.AttachKeyword(ctx, "갑오개혁", "신분제"))
	names, err := svc.topics.KeywordsOfTopic(ctx, "갑오개혁")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"개혁", "신분제"}, names)

	assert.ErrorIs(t, svc.AttachKeyword(ctx, "없는주제", "신분제"), ErrTopicNotFound)
	assert.ErrorIs(t, svc.DetachKeyword(ctx, "갑오개혁", "없는키워드"), ErrKeywordNotFound)
}

func TestSentenceLifecycle(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	svc := newTestService(f, nil)
	ctx := context.Background()

	sentence, err := svc.CreateSentence(ctx, "갑오개혁", "군국기무처가 설치되었다.")
	require.NoError(t, err)
	require.NotZero(t, sentence.ID)

	require.NoError(t, svc.UpdateSentence(ctx, sentence.ID, "신분제가 폐지되었다."))
	assert.ErrorIs(t, svc.UpdateSentence(ctx, 999, "x"), ErrSentenceNotFound)

	require.NoError(t, svc.DeleteSentence(ctx, sentence.ID))
	assert.ErrorIs(t, svc.DeleteSentence(ctx, sentence.ID), ErrSentenceNotFound)
}

func TestRenameCategoryClash(t *testing.T) {
	f := newCatalogFixture()
	seedFixture(f)
	svc := newTestService(f, nil)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "인물")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RenameCategory(ctx, "사건", "인물"), ErrCategoryNameTaken)
	assert.ErrorIs(t, svc.RenameCategory(ctx, "없는분류", "기타"), ErrCategoryNotFound)
	require.NoError(t, svc.RenameCategory(ctx, "인물", "주요 인물"))
}
