package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// TopicRepository exposes topic reads for the question engine and topic
// CRUD for the admin catalog. Absence is reported as (nil, nil).
type TopicRepository struct {
	pool *pgxpool.Pool
}

// NewTopicRepository constructs a topic repository over the shared pool.
func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

const topicColumns = "id, chapter_id, category_id, title, start_date, end_date, detail"

func scanTopic(row pgx.Row) (*model.Topic, error) {
	var t model.Topic
	err := row.Scan(&t.ID, &t.ChapterID, &t.CategoryID, &t.Title, &t.StartDate, &t.EndDate, &t.Detail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindTopicByTitle looks a topic up by its unique title.
func (r *TopicRepository) FindTopicByTitle(ctx context.Context, title string) (*model.Topic, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+topicColumns+" FROM topics WHERE title = $1", title)
	return scanTopic(row)
}

// RandomTopicInCategory draws one topic of the category uniformly at
// random. Store-native random ordering keeps the draw unbiased.
func (r *TopicRepository) RandomTopicInCategory(ctx context.Context, categoryName string) (*model.Topic, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT t.id, t.chapter_id, t.category_id, t.title, t.start_date, t.end_date, t.detail
		 FROM topics t
		 JOIN categories c ON c.id = t.category_id
		 WHERE c.name = $1
		 ORDER BY random() LIMIT 1`, categoryName)
	return scanTopic(row)
}

// DetailByTitle loads a topic joined with its chapter number and category
// name, the shape the public topic endpoint serves.
func (r *TopicRepository) DetailByTitle(ctx context.Context, title string) (*model.TopicDetail, error) {
	var d model.TopicDetail
	err := r.pool.QueryRow(ctx,
		`SELECT t.id, ch.number, c.name, t.title, t.start_date, t.end_date, t.detail
		 FROM topics t
		 JOIN chapters ch ON ch.id = t.chapter_id
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.title = $1`, title).
		Scan(&d.ID, &d.ChapterNumber, &d.CategoryName, &d.Title, &d.StartDate, &d.EndDate, &d.Detail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// TitlesInChapter lists the titles of all topics in a chapter number.
func (r *TopicRepository) TitlesInChapter(ctx context.Context, chapterNumber int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.title FROM topics t
		 JOIN chapters ch ON ch.id = t.chapter_id
		 WHERE ch.number = $1
		 ORDER BY t.id`, chapterNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Create inserts a topic and returns it with its assigned id.
func (r *TopicRepository) Create(ctx context.Context, t *model.Topic) (*model.Topic, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO topics (chapter_id, category_id, title, start_date, end_date, detail)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		t.ChapterID, t.CategoryID, t.Title, t.StartDate, t.EndDate, t.Detail).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("insert topic: %w", err)
	}
	return t, nil
}

// Update rewrites a topic row in place.
func (r *TopicRepository) Update(ctx context.Context, t *model.Topic) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE topics
		 SET chapter_id = $2, category_id = $3, title = $4, start_date = $5, end_date = $6, detail = $7
		 WHERE id = $1`,
		t.ID, t.ChapterID, t.CategoryID, t.Title, t.StartDate, t.EndDate, t.Detail)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("topic %d does not exist", t.ID)
	}
	return nil
}

// DeleteByTitle removes a topic and, via cascade, its choices,
// descriptions, sentences and keyword links.
func (r *TopicRepository) DeleteByTitle(ctx context.Context, title string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM topics WHERE title = $1", title)
	if err != nil {
		return false, fmt.Errorf("delete topic: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// KeywordsOfTopic lists the keyword names attached to a topic title.
func (r *TopicRepository) KeywordsOfTopic(ctx context.Context, title string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT k.name FROM keywords k
		 JOIN topic_keywords tk ON tk.keyword_id = k.id
		 JOIN topics t ON t.id = tk.topic_id
		 WHERE t.title = $1
		 ORDER BY k.name`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
