package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guardians/awareness-portal/internal/domain"
)

func TestEventInsertAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewEventRepo(db)

	mock.ExpectExec(`INSERT INTO simulation_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Insert(context.Background(), &domain.SimulationEvent{
		SimulationName: "Q1-Phish",
		Email:          "bob@corp.test",
		EventType:      domain.EventEmailSent,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEventsBySimulationOrderedAscending(t *testing.T) {
	db, mock, _ := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	defer db.Close()
	repo := NewEventRepo(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "simulation_name", "email", "event_type", "metadata", "created_at"}).
		AddRow("e1", "Q1-Phish", "bob@corp.test", "email_sent", nil, base).
		AddRow("e2", "Q1-Phish", "bob@corp.test", "link_clicked", []byte(`{"ip":"10.0.0.9"}`), base.Add(time.Minute))

	mock.ExpectQuery(`(?s)SELECT .+ FROM simulation_events\s+WHERE simulation_name = \$1\s+ORDER BY created_at ASC`).
		WithArgs("Q1-Phish").
		WillReturnRows(rows)

	events, err := repo.BySimulation(context.Background(), "Q1-Phish")
	if err != nil {
		t.Fatalf("by simulation: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType != domain.EventEmailSent || events[1].EventType != domain.EventLinkClicked {
		t.Fatalf("order lost: %+v", events)
	}
	if events[1].Metadata["ip"] != "10.0.0.9" {
		t.Fatalf("metadata not decoded: %+v", events[1].Metadata)
	}
}

func TestDistinctSimulations(t *testing.T) {
	db, mock, _ := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	defer db.Close()
	repo := NewEventRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT simulation_name\) FROM simulation_events`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.DistinctSimulations(context.Background())
	if err != nil {
		t.Fatalf("distinct: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
}
