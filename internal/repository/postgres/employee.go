package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/guardians/awareness-portal/internal/domain"
)

// EmployeeRepo stores employees in PostgreSQL.
type EmployeeRepo struct{ db *sql.DB }

// NewEmployeeRepo creates a Postgres-backed employee repository.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

const employeeColumns = `id, employee_id, name, email, nic, address, password_hash, department, created_at, updated_at`

func scanEmployee(row interface{ Scan(...interface{}) error }) (*domain.Employee, error) {
	e := &domain.Employee{}
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Email, &e.NIC, &e.Address,
		&e.PasswordHash, &e.Department, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees
			(id, employee_id, name, email, nic, address, password_hash, department, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, e.ID, e.EmployeeID, e.Name, e.Email, e.NIC, e.Address, e.PasswordHash, e.Department)
	if err != nil {
		if mapped := mapEmployeeConstraint(err); mapped != err {
			return "", mapped
		}
		return "", fmt.Errorf("create employee: %w", err)
	}
	return e.ID, nil
}

func (r *EmployeeRepo) ByID(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// List returns all employees, newest first.
func (r *EmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// ByEmails returns the employees whose email is in the given set.
// Unknown emails are silently skipped.
func (r *EmployeeRepo) ByEmails(ctx context.Context, emails []string) ([]domain.Employee, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE email = ANY($1)`,
		pq.Array(emails))
	if err != nil {
		return nil, fmt.Errorf("employees by email: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an employee. An empty PasswordHash
// leaves the stored hash untouched.
func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	q := `
		UPDATE employees
		SET employee_id = $1, name = $2, email = $3, nic = $4, address = $5,
		    department = $6, updated_at = NOW()
		WHERE id = $7`
	args := []interface{}{e.EmployeeID, e.Name, e.Email, e.NIC, e.Address, e.Department, e.ID}
	if e.PasswordHash != "" {
		q = `
		UPDATE employees
		SET employee_id = $1, name = $2, email = $3, nic = $4, address = $5,
		    department = $6, password_hash = $7, updated_at = NOW()
		WHERE id = $8`
		args = []interface{}{e.EmployeeID, e.Name, e.Email, e.NIC, e.Address, e.Department, e.PasswordHash, e.ID}
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		if mapped := mapEmployeeConstraint(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update employee: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EmployeeRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}

// Recent returns the most recently added employees for the dashboard.
func (r *EmployeeRepo) Recent(ctx context.Context, limit int) ([]domain.Employee, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
