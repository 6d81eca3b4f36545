package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/guardians/awareness-portal/internal/domain"
)

// TemplateRepo stores phishing email templates in PostgreSQL.
type TemplateRepo struct{ db *sql.DB }

// NewTemplateRepo creates a Postgres-backed template repository.
func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

func (r *TemplateRepo) Create(ctx context.Context, t *domain.Template) (string, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, subject, html_content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, t.ID, t.Name, t.Subject, t.HTMLContent)
	if err != nil {
		return "", fmt.Errorf("create template: %w", err)
	}
	return t.ID, nil
}

func (r *TemplateRepo) ByID(ctx context.Context, id string) (*domain.Template, error) {
	t := &domain.Template{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, subject, html_content, created_at, updated_at
		FROM templates WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLContent, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// List returns all templates, newest first.
func (r *TemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, subject, html_content, created_at, updated_at
		FROM templates ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLContent,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE templates SET name = $1, subject = $2, html_content = $3, updated_at = NOW()
		WHERE id = $4
	`, t.Name, t.Subject, t.HTMLContent, t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TemplateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
