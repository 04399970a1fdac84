package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// ChoiceRepository reads answer choices and the candidate pools the
// distractor sampler filters. Candidate queries join each choice with its
// owning topic's category and date interval so the engine can evaluate
// temporal predicates without further lookups.
type ChoiceRepository struct {
	pool *pgxpool.Pool
}

// NewChoiceRepository constructs a choice repository over the shared pool.
func NewChoiceRepository(pool *pgxpool.Pool) *ChoiceRepository {
	return &ChoiceRepository{pool: pool}
}

// RandomChoiceInTopic draws one of the topic's choices uniformly at random.
func (r *ChoiceRepository) RandomChoiceInTopic(ctx context.Context, topicID int64) (*model.Choice, error) {
	var c model.Choice
	err := r.pool.QueryRow(ctx,
		`SELECT id, content, topic_id FROM choices
		 WHERE topic_id = $1
		 ORDER BY random() LIMIT 1`, topicID).
		Scan(&c.ID, &c.Content, &c.TopicID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const candidateQuery = `SELECT ch.id, ch.content, ch.topic_id, t.category_id, t.start_date, t.end_date
	FROM choices ch
	JOIN topics t ON t.id = ch.topic_id`

func (r *ChoiceRepository) scanCandidates(rows pgx.Rows) ([]model.ChoiceCandidate, error) {
	defer rows.Close()

	var cands []model.ChoiceCandidate
	for rows.Next() {
		var c model.ChoiceCandidate
		if err := rows.Scan(&c.ID, &c.Content, &c.TopicID, &c.CategoryID, &c.StartDate, &c.EndDate); err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

// CandidatesInCategory returns every choice whose owning topic belongs to
// the category, fresh per call.
func (r *ChoiceRepository) CandidatesInCategory(ctx context.Context, categoryName string) ([]model.ChoiceCandidate, error) {
	rows, err := r.pool.Query(ctx,
		candidateQuery+`
		JOIN categories c ON c.id = t.category_id
		WHERE c.name = $1`, categoryName)
	if err != nil {
		return nil, err
	}
	return r.scanCandidates(rows)
}

// Candidates returns the full choice pool across all categories.
func (r *ChoiceRepository) Candidates(ctx context.Context) ([]model.ChoiceCandidate, error) {
	rows, err := r.pool.Query(ctx, candidateQuery)
	if err != nil {
		return nil, err
	}
	return r.scanCandidates(rows)
}

// FindChoicesByIDs fetches the given choices; missing ids are simply
// absent from the result.
func (r *ChoiceRepository) FindChoicesByIDs(ctx context.Context, ids []int64) ([]model.Choice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		"SELECT id, content, topic_id FROM choices WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var choices []model.Choice
	for rows.Next() {
		var c model.Choice
		if err := rows.Scan(&c.ID, &c.Content, &c.TopicID); err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// ListByTopicTitle returns all choices owned by a topic.
func (r *ChoiceRepository) ListByTopicTitle(ctx context.Context, title string) ([]model.Choice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ch.id, ch.content, ch.topic_id FROM choices ch
		 JOIN topics t ON t.id = ch.topic_id
		 WHERE t.title = $1
		 ORDER BY ch.id`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var choices []model.Choice
	for rows.Next() {
		var c model.Choice
		if err := rows.Scan(&c.ID, &c.Content, &c.TopicID); err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// Create inserts a choice for a topic.
func (r *ChoiceRepository) Create(ctx context.Context, c *model.Choice) (*model.Choice, error) {
	err := r.pool.QueryRow(ctx,
		"INSERT INTO choices (content, topic_id) VALUES ($1, $2) RETURNING id",
		c.Content, c.TopicID).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert choice: %w", err)
	}
	return c, nil
}

// Delete removes a choice.
func (r *ChoiceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM choices WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete choice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
