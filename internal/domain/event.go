package domain

import "time"

// EventType enumerates the kinds of simulation events.
type EventType string

const (
	EventEmailSent          EventType = "email_sent"
	EventLinkClicked        EventType = "link_clicked"
	EventFormSubmitted      EventType = "form_submitted"
	EventSimulationLaunched EventType = "simulation_launched"
)

// SystemEmail marks events that belong to the campaign itself rather than a
// recipient (e.g. simulation_launched). It never surfaces in per-employee
// stats rows.
const SystemEmail = "SYSTEM"

// SimulationEvent is one append-only row in the campaign event log.
// Events match employees by email value; there is no foreign key, and
// deleting an employee does not remove their events.
type SimulationEvent struct {
	ID             string            `json:"id" db:"id"`
	SimulationName string            `json:"simulationName" db:"simulation_name"`
	Email          string            `json:"email" db:"email"`
	EventType      EventType         `json:"eventType" db:"event_type"`
	Metadata       map[string]string `json:"metadata,omitempty" db:"metadata"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
}
