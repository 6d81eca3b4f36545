package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors shared by the portal repositories. Handlers map these to
// HTTP statuses; everything else is treated as an internal error.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateEmployeeID = errors.New("employee ID already exists")
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// mapEmployeeConstraint translates a unique-violation on the employees table
// into the matching sentinel, keyed by constraint name.
func mapEmployeeConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "employees_email_key":
			return ErrDuplicateEmail
		case "employees_employee_id_key":
			return ErrDuplicateEmployeeID
		}
		return ErrDuplicateEmail
	}
	return err
}
