package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// QuestionRepository persists graded questions together with their choice
// and description join rows.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository constructs a question repository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Create writes the question row plus one join row per choice and one for
// the description inside a single transaction; any failure rolls the whole
// commit back, so a question can never land without its links.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question, choiceIDs []int64, descriptionID int64) (*model.Question, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO questions (category_id, prompt, answer_choice_id, type)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		q.CategoryID, q.Prompt, q.AnswerChoiceID, q.Type).Scan(&q.ID)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO question_choices (question_id, choice_id)
		 SELECT $1, c.id FROM choices c WHERE c.id = ANY($2)`,
		q.ID, choiceIDs)
	if err != nil {
		return nil, fmt.Errorf("link choices: %w", err)
	}
	if int(tag.RowsAffected()) != len(choiceIDs) {
		return nil, fmt.Errorf("link choices: %d of %d choice rows exist", tag.RowsAffected(), len(choiceIDs))
	}

	tag, err = tx.Exec(ctx,
		`INSERT INTO question_descriptions (question_id, description_id)
		 SELECT $1, d.id FROM descriptions d WHERE d.id = $2`,
		q.ID, descriptionID)
	if err != nil {
		return nil, fmt.Errorf("link description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("link description: description %d does not exist", descriptionID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return q, nil
}

// Get loads a question with its category name, description and choices.
func (r *QuestionRepository) Get(ctx context.Context, id int64) (*model.QuestionDetail, error) {
	var detail model.QuestionDetail
	err := r.pool.QueryRow(ctx,
		`SELECT q.id, q.category_id, q.prompt, q.answer_choice_id, q.type, c.name
		 FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 WHERE q.id = $1`, id).
		Scan(&detail.Question.ID, &detail.Question.CategoryID, &detail.Question.Prompt,
			&detail.Question.AnswerChoiceID, &detail.Question.Type, &detail.CategoryName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT d.id, d.content, d.topic_id
		 FROM descriptions d
		 JOIN question_descriptions qd ON qd.description_id = d.id
		 WHERE qd.question_id = $1`, id).
		Scan(&detail.Description.ID, &detail.Description.Content, &detail.Description.TopicID)
	if errors.Is(err, pgx.ErrNoRows) {
		// every committed question carries exactly one description link;
		// a cascade that removed it left the question unservable
		return nil, fmt.Errorf("question %d has no linked description", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT ch.id, ch.content, ch.topic_id
		 FROM choices ch
		 JOIN question_choices qc ON qc.choice_id = ch.id
		 WHERE qc.question_id = $1
		 ORDER BY ch.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Choice
		if err := rows.Scan(&c.ID, &c.Content, &c.TopicID); err != nil {
			return nil, err
		}
		detail.Choices = append(detail.Choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Update rewrites prompt, answer, type and category.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET category_id = $2, prompt = $3, answer_choice_id = $4, type = $5
		 WHERE id = $1`,
		q.ID, q.CategoryID, q.Prompt, q.AnswerChoiceID, q.Type)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %d does not exist", q.ID)
	}
	return nil
}

// Delete removes a question; its join rows go with it via cascade.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM questions WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete question: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
