package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/guardians/awareness-portal/internal/domain"
	"github.com/guardians/awareness-portal/internal/service/content"
)

// ContentRepo implements content.Repository against PostgreSQL.
type ContentRepo struct{ db *sql.DB }

// NewContentRepo creates a Postgres-backed content repository.
func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

const contentColumns = `id, title, type, description, url, body, tags, banner_image, status, published_at, created_at, updated_at`

func scanContent(row interface{ Scan(...interface{}) error }) (*domain.EduContent, error) {
	c := &domain.EduContent{}
	var tags pq.StringArray
	err := row.Scan(&c.ID, &c.Title, &c.Type, &c.Description, &c.URL, &c.Body,
		&tags, &c.BannerImage, &c.Status, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Tags = tags
	return c, nil
}

func (r *ContentRepo) Create(ctx context.Context, c *domain.EduContent) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = domain.StatusDraft
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO edu_contents
			(id, title, type, description, url, body, tags, banner_image, status, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`, c.ID, c.Title, c.Type, c.Description, c.URL, c.Body,
		pq.Array(c.Tags), c.BannerImage, c.Status, c.PublishedAt)
	if err != nil {
		return "", fmt.Errorf("create content: %w", err)
	}
	return c.ID, nil
}

func (r *ContentRepo) ByID(ctx context.Context, id string) (*domain.EduContent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM edu_contents WHERE id = $1`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	return c, nil
}

// List returns content newest first, narrowed by the filter. Query matches
// title, description, or any tag, case-insensitively.
func (r *ContentRepo) List(ctx context.Context, f content.Filter) ([]domain.EduContent, error) {
	q := `SELECT ` + contentColumns + ` FROM edu_contents WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if f.Status != "" {
		q += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Type != "" {
		q += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, f.Type)
		idx++
	}
	if f.Query != "" {
		q += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d
			OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE $%d))`, idx, idx, idx)
		args = append(args, "%"+f.Query+"%")
		idx++
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var out []domain.EduContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ContentRepo) Update(ctx context.Context, c *domain.EduContent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE edu_contents
		SET title = $1, type = $2, description = $3, url = $4, body = $5,
		    tags = $6, banner_image = $7, updated_at = NOW()
		WHERE id = $8
	`, c.Title, c.Type, c.Description, c.URL, c.Body,
		pq.Array(c.Tags), c.BannerImage, c.ID)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM edu_contents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves content between draft and published. Publishing stamps
// published_at; unpublishing clears it.
func (r *ContentRepo) SetStatus(ctx context.Context, id string, status domain.PublishStatus) error {
	var q string
	if status == domain.StatusPublished {
		q = `UPDATE edu_contents SET status = $1, published_at = NOW(), updated_at = NOW() WHERE id = $2`
	} else {
		q = `UPDATE edu_contents SET status = $1, published_at = NULL, updated_at = NOW() WHERE id = $2`
	}
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return fmt.Errorf("set content status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepo) CountPublished(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM edu_contents WHERE status = 'published'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count published content: %w", err)
	}
	return n, nil
}

// RecentPublished returns the latest published items for the dashboard.
func (r *ContentRepo) RecentPublished(ctx context.Context, limit int) ([]domain.EduContent, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM edu_contents
		WHERE status = 'published'
		ORDER BY published_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent content: %w", err)
	}
	defer rows.Close()

	var out []domain.EduContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
