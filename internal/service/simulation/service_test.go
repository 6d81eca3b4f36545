package simulation_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guardians/awareness-portal/internal/domain"
	"github.com/guardians/awareness-portal/internal/mailer"
	"github.com/guardians/awareness-portal/internal/service/simulation"
	"github.com/guardians/awareness-portal/internal/simtoken"
)

// memDirectory is an in-memory employee store for unit testing.
type memDirectory struct {
	employees []domain.Employee
}

func (m *memDirectory) List(_ context.Context) ([]domain.Employee, error) {
	out := make([]domain.Employee, len(m.employees))
	copy(out, m.employees)
	return out, nil
}

func (m *memDirectory) ByEmails(_ context.Context, emails []string) ([]domain.Employee, error) {
	set := make(map[string]bool, len(emails))
	for _, e := range emails {
		set[e] = true
	}
	var out []domain.Employee
	for _, emp := range m.employees {
		if set[emp.Email] {
			out = append(out, emp)
		}
	}
	return out, nil
}

// memEventLog is an in-memory append-only event store. Inserts get strictly
// increasing timestamps so ordering matches the real store.
type memEventLog struct {
	mu     sync.Mutex
	events []domain.SimulationEvent
	clock  time.Time
}

func newMemEventLog() *memEventLog {
	return &memEventLog{clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memEventLog) Insert(_ context.Context, e *domain.SimulationEvent) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	cp := *e
	cp.ID = fmt.Sprintf("evt-%d", len(m.events)+1)
	cp.CreatedAt = m.clock
	m.events = append(m.events, cp)
	return cp.ID, nil
}

func (m *memEventLog) BySimulation(_ context.Context, name string) ([]domain.SimulationEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SimulationEvent
	for _, e := range m.events {
		if e.SimulationName == name {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEventLog) count(name, email string, typ domain.EventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.SimulationName == name && e.Email == email && e.EventType == typ {
			n++
		}
	}
	return n
}

// fakeMailer records deliveries and fails for addresses in failFor.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []*mailer.Message
	failFor map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[msg.To] {
		return errors.New("smtp 550 rejected")
	}
	f.sent = append(f.sent, msg)
	return nil
}

var testEmployees = []domain.Employee{
	{ID: "1", EmployeeID: "EMP-001", Name: "Alice Perera", Email: "alice@corp.test", Department: domain.DepartmentCyber},
	{ID: "2", EmployeeID: "EMP-002", Name: "Bob Silva", Email: "bob@corp.test", Department: domain.DepartmentHR},
	{ID: "3", EmployeeID: "EMP-003", Name: "Carol Fonseka", Email: "carol@corp.test", Department: domain.DepartmentFinance},
}

func newTestService(mail mailer.Mailer, events *memEventLog) *simulation.Service {
	return simulation.NewService(simulation.Config{
		Employees:     &memDirectory{employees: testEmployees},
		Events:        events,
		Mail:          mail,
		Tokens:        simtoken.NewCodec("test-key", time.Hour),
		PublicBaseURL: "https://portal.test",
		FromName:      "IT Security",
		FromEmail:     "security@corp.test",
	})
}

var startInput = simulation.StartInput{
	SimulationName: "Q1-Phish",
	Subject:        "Password expiry notice",
	HTMLTemplate:   `<p>Hi {{ name }},</p><a href="{{TRACKING_LINK}}">Verify now</a>`,
}

func TestStartValidation(t *testing.T) {
	svc := newTestService(&fakeMailer{}, newMemEventLog())
	for _, input := range []simulation.StartInput{
		{Subject: "s", HTMLTemplate: "h"},
		{SimulationName: "n", HTMLTemplate: "h"},
		{SimulationName: "n", Subject: "s"},
	} {
		_, err := svc.Start(context.Background(), input)
		if !errors.Is(err, simulation.ErrInvalidInput) {
			t.Errorf("input %+v: got %v, want ErrInvalidInput", input, err)
		}
	}
}

func TestStartWithoutMailer(t *testing.T) {
	events := newMemEventLog()
	svc := newTestService(nil, events)
	_, err := svc.Start(context.Background(), startInput)
	if !errors.Is(err, simulation.ErrMailerNotConfigured) {
		t.Fatalf("got %v, want ErrMailerNotConfigured", err)
	}
	if len(events.events) != 0 {
		t.Fatalf("no events should be recorded, got %d", len(events.events))
	}
}

func TestStartNoRecipients(t *testing.T) {
	events := newMemEventLog()
	svc := newTestService(&fakeMailer{}, events)

	input := startInput
	input.SelectedEmployees = []string{"ghost@corp.test"}
	_, err := svc.Start(context.Background(), input)
	if !errors.Is(err, simulation.ErrNoRecipients) {
		t.Fatalf("got %v, want ErrNoRecipients", err)
	}
	if len(events.events) != 0 {
		t.Fatalf("zero sends expected, got %d events", len(events.events))
	}
}

func TestStartAllEmployees(t *testing.T) {
	events := newMemEventLog()
	mail := &fakeMailer{}
	svc := newTestService(mail, events)

	result, err := svc.Start(context.Background(), startInput)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if result.Total != 3 || result.Sent != 3 || result.Failed != 0 {
		t.Fatalf("unexpected batch result: %+v", result)
	}
	if len(mail.sent) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(mail.sent))
	}
	for _, emp := range testEmployees {
		if n := events.count("Q1-Phish", emp.Email, domain.EventEmailSent); n != 1 {
			t.Errorf("employee %s: %d email_sent events, want 1", emp.Email, n)
		}
	}
}

func TestStartSelectedSubset(t *testing.T) {
	events := newMemEventLog()
	mail := &fakeMailer{}
	svc := newTestService(mail, events)

	input := startInput
	input.SelectedEmployees = []string{"bob@corp.test", "ghost@corp.test"}
	result, err := svc.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if result.Total != 1 || result.Sent != 1 {
		t.Fatalf("selection should intersect with known employees: %+v", result)
	}
	if mail.sent[0].To != "bob@corp.test" {
		t.Fatalf("sent to %s, want bob@corp.test", mail.sent[0].To)
	}
}

func TestStartPartialFailure(t *testing.T) {
	events := newMemEventLog()
	mail := &fakeMailer{failFor: map[string]bool{"alice@corp.test": true}}
	svc := newTestService(mail, events)

	result, err := svc.Start(context.Background(), startInput)
	if err != nil {
		t.Fatalf("loop completion counts as success, got %v", err)
	}
	if result.Total != 3 || result.Sent != 2 || result.Failed != 1 {
		t.Fatalf("unexpected batch result: %+v", result)
	}

	// Exactly N-K email_sent events, none for the failed recipient.
	if n := events.count("Q1-Phish", "alice@corp.test", domain.EventEmailSent); n != 0 {
		t.Errorf("failed recipient must get no email_sent event, got %d", n)
	}
	if n := events.count("Q1-Phish", "bob@corp.test", domain.EventEmailSent); n != 1 {
		t.Errorf("bob: %d email_sent events, want 1", n)
	}

	var failedOutcome *simulation.SendOutcome
	for i := range result.Results {
		if result.Results[i].Email == "alice@corp.test" {
			failedOutcome = &result.Results[i]
		}
	}
	if failedOutcome == nil || failedOutcome.Outcome != "failed" || failedOutcome.Error == "" {
		t.Fatalf("per-recipient failure not surfaced: %+v", result.Results)
	}
}

func TestStartRendersPerRecipient(t *testing.T) {
	events := newMemEventLog()
	mail := &fakeMailer{}
	svc := newTestService(mail, events)

	if _, err := svc.Start(context.Background(), startInput); err != nil {
		t.Fatal(err)
	}

	codec := simtoken.NewCodec("test-key", time.Hour)
	for _, msg := range mail.sent {
		if want := "Hi " + nameFor(msg.To); !strings.Contains(msg.HTMLContent, want) {
			t.Errorf("message to %s not personalized: %s", msg.To, msg.HTMLContent)
		}
		tk := extractToken(t, msg.HTMLContent)
		claims, err := codec.Decode(tk)
		if err != nil {
			t.Fatalf("embedded token invalid: %v", err)
		}
		if claims.Email != msg.To || claims.SimulationName != "Q1-Phish" {
			t.Errorf("token binds (%s, %s), message to %s", claims.SimulationName, claims.Email, msg.To)
		}
	}
}

func TestMarkLaunched(t *testing.T) {
	events := newMemEventLog()
	svc := newTestService(&fakeMailer{}, events)

	if err := svc.MarkLaunched(context.Background(), "Q1-Phish"); err != nil {
		t.Fatalf("mark launched: %v", err)
	}
	if n := events.count("Q1-Phish", domain.SystemEmail, domain.EventSimulationLaunched); n != 1 {
		t.Fatalf("expected one SYSTEM simulation_launched event, got %d", n)
	}

	if err := svc.MarkLaunched(context.Background(), ""); !errors.Is(err, simulation.ErrInvalidInput) {
		t.Fatalf("empty template name: got %v, want ErrInvalidInput", err)
	}
}

func TestRecordClick(t *testing.T) {
	events := newMemEventLog()
	svc := newTestService(&fakeMailer{}, events)
	codec := simtoken.NewCodec("test-key", time.Hour)

	token, _ := codec.Encode("Q1-Phish", "bob@corp.test")
	claims, err := svc.RecordClick(context.Background(), token)
	if err != nil {
		t.Fatalf("record click: %v", err)
	}
	if claims.Email != "bob@corp.test" {
		t.Fatalf("claims email %s", claims.Email)
	}
	if n := events.count("Q1-Phish", "bob@corp.test", domain.EventLinkClicked); n != 1 {
		t.Fatalf("expected one link_clicked event, got %d", n)
	}
}

func TestRecordClickRejectsBadToken(t *testing.T) {
	events := newMemEventLog()
	svc := newTestService(&fakeMailer{}, events)

	_, err := svc.RecordClick(context.Background(), "garbage.token")
	if !errors.Is(err, simtoken.ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
	if len(events.events) != 0 {
		t.Fatalf("rejected token must record nothing, got %d events", len(events.events))
	}
}

func TestStatsZeroEvents(t *testing.T) {
	svc := newTestService(&fakeMailer{}, newMemEventLog())

	stats, err := svc.Stats(context.Background(), "Q1-Phish")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != len(testEmployees) {
		t.Fatalf("expected one row per employee, got %d", len(stats))
	}
	for _, row := range stats {
		if row.Sent || row.Clicked || row.FormSubmitted || row.SentAt != nil || row.ClickedAt != nil {
			t.Errorf("row %s should be all-false: %+v", row.Email, row)
		}
	}
}

// Scenario: three employees; alice's delivery fails, bob clicks his link.
func TestStatsScenario(t *testing.T) {
	events := newMemEventLog()
	mail := &fakeMailer{failFor: map[string]bool{"alice@corp.test": true}}
	svc := newTestService(mail, events)

	if err := svc.MarkLaunched(context.Background(), "Q1-Phish"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Start(context.Background(), startInput); err != nil {
		t.Fatal(err)
	}
	codec := simtoken.NewCodec("test-key", time.Hour)
	token, _ := codec.Encode("Q1-Phish", "bob@corp.test")
	if _, err := svc.RecordClick(context.Background(), token); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Stats(context.Background(), "Q1-Phish")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	rows := map[string]simulation.EmployeeStats{}
	for _, r := range stats {
		rows[r.Email] = r
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	alice := rows["alice@corp.test"]
	if alice.Sent || alice.Clicked || alice.SentAt != nil {
		t.Errorf("alice's send failed, row must be all-false: %+v", alice)
	}
	bob := rows["bob@corp.test"]
	if !bob.Sent || !bob.Clicked || bob.SentAt == nil || bob.ClickedAt == nil {
		t.Errorf("bob sent+clicked expected: %+v", bob)
	}
	if bob.SentAt != nil && bob.ClickedAt != nil && !bob.SentAt.Before(*bob.ClickedAt) {
		t.Errorf("sentAt %v should precede clickedAt %v", bob.SentAt, bob.ClickedAt)
	}
	carol := rows["carol@corp.test"]
	if !carol.Sent || carol.Clicked {
		t.Errorf("carol sent only expected: %+v", carol)
	}

	// The SYSTEM launch event must not surface as a row.
	if _, ok := rows[domain.SystemEmail]; ok {
		t.Error("SYSTEM must not appear in per-employee stats")
	}
}

func TestStatsEarliestTimestampWins(t *testing.T) {
	events := newMemEventLog()
	svc := newTestService(&fakeMailer{}, events)

	// Two clicks for the same pair; the first one's timestamp must win.
	for i := 0; i < 2; i++ {
		events.Insert(context.Background(), &domain.SimulationEvent{
			SimulationName: "Q1-Phish", Email: "bob@corp.test", EventType: domain.EventLinkClicked,
		})
	}
	all, _ := events.BySimulation(context.Background(), "Q1-Phish")

	stats, err := svc.Stats(context.Background(), "Q1-Phish")
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range stats {
		if row.Email != "bob@corp.test" {
			continue
		}
		if row.ClickedAt == nil || !row.ClickedAt.Equal(all[0].CreatedAt) {
			t.Fatalf("clickedAt %v, want earliest %v", row.ClickedAt, all[0].CreatedAt)
		}
	}
}

func nameFor(email string) string {
	for _, e := range testEmployees {
		if e.Email == email {
			return e.Name
		}
	}
	return ""
}

// extractToken pulls the tk query value out of the first tracking link.
func extractToken(t *testing.T, html string) string {
	t.Helper()
	marker := "/landing?tk="
	i := strings.Index(html, marker)
	if i < 0 {
		t.Fatalf("no tracking link in %q", html)
	}
	rest := html[i+len(marker):]
	if end := strings.Index(rest, `"`); end >= 0 {
		rest = rest[:end]
	}
	tk, err := url.QueryUnescape(rest)
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}
	return tk
}
