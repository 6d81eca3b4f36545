package simulation

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/guardians/awareness-portal/internal/domain"
	"github.com/guardians/awareness-portal/internal/mailer"
	"github.com/guardians/awareness-portal/internal/pkg/logger"
	"github.com/guardians/awareness-portal/internal/simtoken"
)

// Service runs phishing-simulation campaigns: it resolves recipients,
// renders and dispatches the emails, records events, and aggregates
// per-employee stats. All public methods are safe for concurrent use if the
// underlying stores are.
type Service struct {
	employees EmployeeDirectory
	events    EventLog
	mail      mailer.Mailer
	tokens    *simtoken.Codec
	renderer  *Renderer

	publicBaseURL string
	fromName      string
	fromEmail     string
}

// Config wires a simulation service. Mail may be nil; campaign starts are
// then refused with ErrMailerNotConfigured.
type Config struct {
	Employees     EmployeeDirectory
	Events        EventLog
	Mail          mailer.Mailer
	Tokens        *simtoken.Codec
	PublicBaseURL string
	FromName      string
	FromEmail     string
}

// NewService creates a simulation service.
func NewService(cfg Config) *Service {
	return &Service{
		employees:     cfg.Employees,
		events:        cfg.Events,
		mail:          cfg.Mail,
		tokens:        cfg.Tokens,
		renderer:      NewRenderer(),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		fromName:      cfg.FromName,
		fromEmail:     cfg.FromEmail,
	}
}

// StartInput holds the fields for starting a campaign.
type StartInput struct {
	SimulationName string `json:"simulationName"`
	Subject        string `json:"subject"`
	HTMLTemplate   string `json:"htmlTemplate"`
	// SelectedEmployees narrows the audience to these emails; empty means
	// every employee.
	SelectedEmployees []string `json:"selectedEmployees"`
}

// SendOutcome reports delivery for a single recipient.
type SendOutcome struct {
	Email   string `json:"email"`
	Outcome string `json:"outcome"` // "sent" or "failed"
	Error   string `json:"error,omitempty"`
}

// BatchResult summarizes one campaign dispatch. The loop completing counts
// as success regardless of per-recipient failures; callers inspect Results
// for the details.
type BatchResult struct {
	Total   int           `json:"total"`
	Sent    int           `json:"sent"`
	Failed  int           `json:"failed"`
	Results []SendOutcome `json:"results"`
}

// Start dispatches a campaign to the resolved recipients, sequentially.
// Each successful delivery appends an email_sent event; failures are logged,
// recorded in the batch result, and skipped.
func (s *Service) Start(ctx context.Context, input StartInput) (*BatchResult, error) {
	if input.SimulationName == "" {
		return nil, fmt.Errorf("%w: simulationName is required", ErrInvalidInput)
	}
	if input.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if input.HTMLTemplate == "" {
		return nil, fmt.Errorf("%w: htmlTemplate is required", ErrInvalidInput)
	}
	if s.mail == nil {
		return nil, ErrMailerNotConfigured
	}

	recipients, err := s.resolveRecipients(ctx, input.SelectedEmployees)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	result := &BatchResult{Total: len(recipients)}
	for i := range recipients {
		emp := &recipients[i]
		if err := s.sendOne(ctx, input, emp); err != nil {
			logger.Warn("simulation send failed",
				"simulation", input.SimulationName,
				"email", emp.Email,
				"error", err.Error())
			result.Failed++
			result.Results = append(result.Results, SendOutcome{
				Email: emp.Email, Outcome: "failed", Error: err.Error(),
			})
			continue
		}
		result.Sent++
		result.Results = append(result.Results, SendOutcome{Email: emp.Email, Outcome: "sent"})
	}

	logger.Info("simulation dispatched",
		"simulation", input.SimulationName,
		"total", result.Total, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// resolveRecipients returns the employees whose email is in selected, or all
// employees when selected is empty. Unknown selected emails are skipped.
func (s *Service) resolveRecipients(ctx context.Context, selected []string) ([]domain.Employee, error) {
	if len(selected) == 0 {
		return s.employees.List(ctx)
	}
	return s.employees.ByEmails(ctx, selected)
}

func (s *Service) sendOne(ctx context.Context, input StartInput, emp *domain.Employee) error {
	token, err := s.tokens.Encode(input.SimulationName, emp.Email)
	if err != nil {
		return fmt.Errorf("build tracking token: %w", err)
	}
	trackingURL := fmt.Sprintf("%s/landing?tk=%s", s.publicBaseURL, url.QueryEscape(token))

	html := s.renderer.Render(input.HTMLTemplate, emp, trackingURL)

	err = s.mail.Send(ctx, &mailer.Message{
		FromName:       s.fromName,
		FromEmail:      s.fromEmail,
		To:             emp.Email,
		Subject:        input.Subject,
		HTMLContent:    html,
		SimulationName: input.SimulationName,
	})
	if err != nil {
		return err
	}

	_, err = s.events.Insert(ctx, &domain.SimulationEvent{
		SimulationName: input.SimulationName,
		Email:          emp.Email,
		EventType:      domain.EventEmailSent,
	})
	if err != nil {
		// Delivery already happened; the missing event only skews stats.
		logger.Error("record email_sent failed",
			"simulation", input.SimulationName,
			"email", emp.Email,
			"error", err.Error())
	}
	return nil
}

// MarkLaunched appends one simulation_launched event attributed to SYSTEM.
// It is independent of delivery outcomes and never appears in per-employee
// stats rows.
func (s *Service) MarkLaunched(ctx context.Context, templateName string) error {
	if templateName == "" {
		return fmt.Errorf("%w: templateName is required", ErrInvalidInput)
	}
	_, err := s.events.Insert(ctx, &domain.SimulationEvent{
		SimulationName: templateName,
		Email:          domain.SystemEmail,
		EventType:      domain.EventSimulationLaunched,
	})
	return err
}

// RecordClick verifies a tracking token and appends a link_clicked event for
// the pair it carries. Verification failure records nothing and returns the
// codec's error. The pair is not checked against employee records; clicks on
// stale pairs are tolerated and simply never surface in stats.
func (s *Service) RecordClick(ctx context.Context, token string) (*simtoken.Claims, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}
	_, err = s.events.Insert(ctx, &domain.SimulationEvent{
		SimulationName: claims.SimulationName,
		Email:          claims.Email,
		EventType:      domain.EventLinkClicked,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("click recorded", "simulation", claims.SimulationName, "email", claims.Email)
	return claims, nil
}
