package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/guardians/awareness-portal/internal/domain"
)

// EventRepo stores simulation events in PostgreSQL. The table is append-only:
// there is no update or delete path.
type EventRepo struct{ db *sql.DB }

// NewEventRepo creates a Postgres-backed event repository.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Insert(ctx context.Context, e *domain.SimulationEvent) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	var metadata []byte
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return "", fmt.Errorf("marshal event metadata: %w", err)
		}
		metadata = b
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO simulation_events (id, simulation_name, email, event_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, e.ID, e.SimulationName, e.Email, e.EventType, metadata)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return e.ID, nil
}

// BySimulation returns every event for the campaign name (case-sensitive
// match), ordered oldest first so the first matching event per type is the
// chronologically earliest.
func (r *EventRepo) BySimulation(ctx context.Context, simulationName string) ([]domain.SimulationEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, simulation_name, email, event_type, metadata, created_at
		FROM simulation_events
		WHERE simulation_name = $1
		ORDER BY created_at ASC
	`, simulationName)
	if err != nil {
		return nil, fmt.Errorf("events by simulation: %w", err)
	}
	defer rows.Close()

	var out []domain.SimulationEvent
	for rows.Next() {
		var e domain.SimulationEvent
		var metadata []byte
		if err := rows.Scan(&e.ID, &e.SimulationName, &e.Email, &e.EventType,
			&metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal event metadata: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DistinctSimulations counts distinct campaign names in the event log.
func (r *EventRepo) DistinctSimulations(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT simulation_name) FROM simulation_events`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count simulations: %w", err)
	}
	return n, nil
}
