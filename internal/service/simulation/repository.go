package simulation

import (
	"context"

	"github.com/guardians/awareness-portal/internal/domain"
)

// EmployeeDirectory is the read side of the employee store the dispatcher
// and aggregator need. Implementations must be safe for concurrent use.
type EmployeeDirectory interface {
	// List returns all employees.
	List(ctx context.Context) ([]domain.Employee, error)

	// ByEmails returns employees whose email is in the set; unknown emails
	// are skipped, not errors.
	ByEmails(ctx context.Context, emails []string) ([]domain.Employee, error)
}

// EventLog is the append-only campaign event store.
type EventLog interface {
	// Insert appends one event and returns its ID.
	Insert(ctx context.Context, e *domain.SimulationEvent) (string, error)

	// BySimulation returns all events whose simulation_name matches exactly,
	// ordered oldest first.
	BySimulation(ctx context.Context, simulationName string) ([]domain.SimulationEvent, error)
}
