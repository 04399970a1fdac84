package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// CategoryRepository manages the category partition of topics.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository constructs a category repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCategoryByName fetches a category by its unique name.
func (r *CategoryRepository) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx,
		"SELECT id, name FROM categories WHERE name = $1", name))
}

// FindCategoryByID fetches a category by id.
func (r *CategoryRepository) FindCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx,
		"SELECT id, name FROM categories WHERE id = $1", id))
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Create inserts a category.
func (r *CategoryRepository) Create(ctx context.Context, name string) (*model.Category, error) {
	c := model.Category{Name: name}
	err := r.pool.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", name).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

// Rename updates a category's name.
func (r *CategoryRepository) Rename(ctx context.Context, id int64, name string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE categories SET name = $2 WHERE id = $1", id, name)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d does not exist", id)
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
