package simulation

import (
	"context"
	"time"

	"github.com/guardians/awareness-portal/internal/domain"
)

// EmployeeStats is one row of a campaign's outcome table.
type EmployeeStats struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Sent          bool       `json:"sent"`
	Clicked       bool       `json:"clicked"`
	FormSubmitted bool       `json:"formSubmitted"`
	SentAt        *time.Time `json:"sentAt"`
	ClickedAt     *time.Time `json:"clickedAt"`
}

// Stats aggregates a campaign's events into one row per employee. Matching
// is by exact simulation name and employee email; employees with no events
// get an all-false row, and events for non-employees (including SYSTEM) are
// dropped. Timestamps are the earliest matching event of each type.
func (s *Service) Stats(ctx context.Context, simulationName string) ([]EmployeeStats, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.events.BySimulation(ctx, simulationName)
	if err != nil {
		return nil, err
	}

	// Events arrive oldest first, so the first hit per type wins.
	byEmail := make(map[string][]domain.SimulationEvent)
	for _, e := range events {
		byEmail[e.Email] = append(byEmail[e.Email], e)
	}

	stats := make([]EmployeeStats, 0, len(employees))
	for _, emp := range employees {
		row := EmployeeStats{Name: emp.Name, Email: emp.Email}
		for _, e := range byEmail[emp.Email] {
			switch e.EventType {
			case domain.EventEmailSent:
				if !row.Sent {
					row.Sent = true
					t := e.CreatedAt
					row.SentAt = &t
				}
			case domain.EventLinkClicked:
				if !row.Clicked {
					row.Clicked = true
					t := e.CreatedAt
					row.ClickedAt = &t
				}
			case domain.EventFormSubmitted:
				row.FormSubmitted = true
			}
		}
		stats = append(stats, row)
	}
	return stats, nil
}
