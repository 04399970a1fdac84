package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// SentenceRepository manages source excerpts attached to topics.
type SentenceRepository struct {
	pool *pgxpool.Pool
}

// NewSentenceRepository constructs a sentence repository.
func NewSentenceRepository(pool *pgxpool.Pool) *SentenceRepository {
	return &SentenceRepository{pool: pool}
}

// Create inserts a sentence for a topic.
func (r *SentenceRepository) Create(ctx context.Context, s *model.Sentence) (*model.Sentence, error) {
	err := r.pool.QueryRow(ctx,
		"INSERT INTO sentences (content, topic_id) VALUES ($1, $2) RETURNING id",
		s.Content, s.TopicID).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("insert sentence: %w", err)
	}
	return s, nil
}

// UpdateContent rewrites a sentence's text.
func (r *SentenceRepository) UpdateContent(ctx context.Context, id int64, content string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE sentences SET content = $2 WHERE id = $1", id, content)
	if err != nil {
		return false, fmt.Errorf("update sentence: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a sentence.
func (r *SentenceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sentences WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete sentence: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
