package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// BookmarkRepository manages customer bookmarks on topics.
type BookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBookmarkRepository constructs a bookmark repository.
func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

// FindCustomerByID fetches a customer row.
func (r *BookmarkRepository) FindCustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := r.pool.QueryRow(ctx,
		"SELECT id, nickname FROM customers WHERE id = $1", id).Scan(&c.ID, &c.NickName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a bookmark; re-bookmarking the same topic is a no-op.
func (r *BookmarkRepository) Create(ctx context.Context, customerID, topicID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bookmarks (customer_id, topic_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, customerID, topicID)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// Delete removes a customer's bookmark on a topic.
func (r *BookmarkRepository) Delete(ctx context.Context, customerID, topicID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM bookmarks WHERE customer_id = $1 AND topic_id = $2",
		customerID, topicID)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListTopicTitles returns the titles a customer has bookmarked.
func (r *BookmarkRepository) ListTopicTitles(ctx context.Context, customerID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.title FROM topics t
		 JOIN bookmarks b ON b.topic_id = t.id
		 WHERE b.customer_id = $1
		 ORDER BY t.title`, customerID)
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
