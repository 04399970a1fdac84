package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// ChapterRepository manages curriculum chapters.
type ChapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository constructs a chapter repository.
func NewChapterRepository(pool *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{pool: pool}
}

// FindByNumber fetches a chapter by its unique number.
func (r *ChapterRepository) FindByNumber(ctx context.Context, number int) (*model.Chapter, error) {
	var ch model.Chapter
	err := r.pool.QueryRow(ctx,
		"SELECT id, title, number FROM chapters WHERE number = $1", number).
		Scan(&ch.ID, &ch.Title, &ch.Number)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// List returns all chapters ordered by number.
func (r *ChapterRepository) List(ctx context.Context) ([]model.Chapter, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, title, number FROM chapters ORDER BY number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []model.Chapter
	for rows.Next() {
		var ch model.Chapter
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Number); err != nil {
			return nil, err
		}
		chapters = append(chapters, ch)
	}
	return chapters, rows.Err()
}

// Create inserts a chapter.
func (r *ChapterRepository) Create(ctx context.Context, title string, number int) (*model.Chapter, error) {
	ch := model.Chapter{Title: title, Number: number}
	err := r.pool.QueryRow(ctx,
		"INSERT INTO chapters (title, number) VALUES ($1, $2) RETURNING id",
		title, number).Scan(&ch.ID)
	if err != nil {
		return nil, fmt.Errorf("insert chapter: %w", err)
	}
	return &ch, nil
}

// Update rewrites a chapter identified by its current number.
func (r *ChapterRepository) Update(ctx context.Context, number int, title string, newNumber int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE chapters SET title = $2, number = $3 WHERE number = $1",
		number, title, newNumber)
	if err != nil {
		return false, fmt.Errorf("update chapter: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a chapter by number.
func (r *ChapterRepository) Delete(ctx context.Context, number int) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM chapters WHERE number = $1", number)
	if err != nil {
		return false, fmt.Errorf("delete chapter: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
