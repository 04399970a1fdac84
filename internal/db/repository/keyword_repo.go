package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// KeywordRepository manages reusable keywords and their topic links.
type KeywordRepository struct {
	pool *pgxpool.Pool
}

// NewKeywordRepository constructs a keyword repository.
func NewKeywordRepository(pool *pgxpool.Pool) *KeywordRepository {
	return &KeywordRepository{pool: pool}
}

// FindByName fetches a keyword by its unique name.
func (r *KeywordRepository) FindByName(ctx context.Context, name string) (*model.Keyword, error) {
	var k model.Keyword
	err := r.pool.QueryRow(ctx,
		"SELECT id, name FROM keywords WHERE name = $1", name).Scan(&k.ID, &k.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Create inserts a keyword.
func (r *KeywordRepository) Create(ctx context.Context, name string) (*model.Keyword, error) {
	k := model.Keyword{Name: name}
	err := r.pool.QueryRow(ctx,
		"INSERT INTO keywords (name) VALUES ($1) RETURNING id", name).Scan(&k.ID)
	if err != nil {
		return nil, fmt.Errorf("insert keyword: %w", err)
	}
	return &k, nil
}

// Delete removes a keyword and its topic links.
func (r *KeywordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM keywords WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete keyword: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Attach links a keyword to a topic; re-attaching is a no-op.
func (r *KeywordRepository) Attach(ctx context.Context, topicID, keywordID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO topic_keywords (topic_id, keyword_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, topicID, keywordID)
	if err != nil {
		return fmt.Errorf("attach keyword: %w", err)
	}
	return nil
}

// Detach unlinks a keyword from a topic.
func (r *KeywordRepository) Detach(ctx context.Context, topicID, keywordID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM topic_keywords WHERE topic_id = $1 AND keyword_id = $2",
		topicID, keywordID)
	if err != nil {
		return false, fmt.Errorf("detach keyword: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
