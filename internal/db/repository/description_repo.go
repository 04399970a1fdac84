package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// DescriptionRepository reads the supporting descriptions questions are
// built around.
type DescriptionRepository struct {
	pool *pgxpool.Pool
}

// NewDescriptionRepository constructs a description repository.
func NewDescriptionRepository(pool *pgxpool.Pool) *DescriptionRepository {
	return &DescriptionRepository{pool: pool}
}

func scanDescription(row pgx.Row) (*model.Description, error) {
	var d model.Description
	err := row.Scan(&d.ID, &d.Content, &d.TopicID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// RandomDescriptionInTopic draws one of the topic's descriptions uniformly
// at random.
func (r *DescriptionRepository) RandomDescriptionInTopic(ctx context.Context, topicID int64) (*model.Description, error) {
	return scanDescription(r.pool.QueryRow(ctx,
		`SELECT id, content, topic_id FROM descriptions
		 WHERE topic_id = $1
		 ORDER BY random() LIMIT 1`, topicID))
}

// FindDescriptionByID fetches a description by id.
func (r *DescriptionRepository) FindDescriptionByID(ctx context.Context, id int64) (*model.Description, error) {
	return scanDescription(r.pool.QueryRow(ctx,
		"SELECT id, content, topic_id FROM descriptions WHERE id = $1", id))
}

// ListByTopicTitle returns all descriptions owned by a topic.
func (r *DescriptionRepository) ListByTopicTitle(ctx context.Context, title string) ([]model.Description, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.content, d.topic_id FROM descriptions d
		 JOIN topics t ON t.id = d.topic_id
		 WHERE t.title = $1
		 ORDER BY d.id`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var descs []model.Description
	for rows.Next() {
		var d model.Description
		if err := rows.Scan(&d.ID, &d.Content, &d.TopicID); err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, rows.Err()
}

// Create inserts a description for a topic.
func (r *DescriptionRepository) Create(ctx context.Context, d *model.Description) (*model.Description, error) {
	err := r.pool.QueryRow(ctx,
		"INSERT INTO descriptions (content, topic_id) VALUES ($1, $2) RETURNING id",
		d.Content, d.TopicID).Scan(&d.ID)
	if err != nil {
		return nil, fmt.Errorf("insert description: %w", err)
	}
	return d, nil
}

// Delete removes a description.
func (r *DescriptionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM descriptions WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete description: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
