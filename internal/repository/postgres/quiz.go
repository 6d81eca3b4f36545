package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/guardians/awareness-portal/internal/domain"
)

// QuizRepo stores quizzes in PostgreSQL. Questions live in a jsonb column;
// the portal never queries inside them.
type QuizRepo struct{ db *sql.DB }

// NewQuizRepo creates a Postgres-backed quiz repository.
func NewQuizRepo(db *sql.DB) *QuizRepo { return &QuizRepo{db: db} }

func marshalQuestions(qs []domain.QuizQuestion) ([]byte, error) {
	if qs == nil {
		qs = []domain.QuizQuestion{}
	}
	return json.Marshal(qs)
}

func scanQuiz(row interface{ Scan(...interface{}) error }) (*domain.Quiz, error) {
	q := &domain.Quiz{}
	var questions []byte
	err := row.Scan(&q.ID, &q.Title, &q.Description, &questions,
		&q.Status, &q.PublishedAt, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &q.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal quiz questions: %w", err)
		}
	}
	return q, nil
}

func (r *QuizRepo) Create(ctx context.Context, q *domain.Quiz) (string, error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.Status == "" {
		q.Status = domain.StatusDraft
	}
	questions, err := marshalQuestions(q.Questions)
	if err != nil {
		return "", fmt.Errorf("marshal quiz questions: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quizzes (id, title, description, questions, status, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, q.ID, q.Title, q.Description, questions, q.Status, q.PublishedAt)
	if err != nil {
		return "", fmt.Errorf("create quiz: %w", err)
	}
	return q.ID, nil
}

func (r *QuizRepo) ByID(ctx context.Context, id string) (*domain.Quiz, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, questions, status, published_at, created_at, updated_at
		FROM quizzes WHERE id = $1
	`, id)
	q, err := scanQuiz(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return q, nil
}

// List returns all quizzes, newest first. An empty status means no filter.
func (r *QuizRepo) List(ctx context.Context, status domain.PublishStatus) ([]domain.Quiz, error) {
	q := `
		SELECT id, title, description, questions, status, published_at, created_at, updated_at
		FROM quizzes`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []domain.Quiz
	for rows.Next() {
		qz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		out = append(out, *qz)
	}
	return out, rows.Err()
}

func (r *QuizRepo) Update(ctx context.Context, q *domain.Quiz) error {
	questions, err := marshalQuestions(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal quiz questions: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE quizzes SET title = $1, description = $2, questions = $3, updated_at = NOW()
		WHERE id = $4
	`, q.Title, q.Description, questions, q.ID)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *QuizRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves a quiz between draft and published.
func (r *QuizRepo) SetStatus(ctx context.Context, id string, status domain.PublishStatus) error {
	var q string
	if status == domain.StatusPublished {
		q = `UPDATE quizzes SET status = $1, published_at = NOW(), updated_at = NOW() WHERE id = $2`
	} else {
		q = `UPDATE quizzes SET status = $1, published_at = NULL, updated_at = NOW() WHERE id = $2`
	}
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return fmt.Errorf("set quiz status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *QuizRepo) CountPublished(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quizzes WHERE status = 'published'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count published quizzes: %w", err)
	}
	return n, nil
}
