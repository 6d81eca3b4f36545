// Package mailer defines the outbound mail transport used by simulation
// campaigns. The transport is injected into the simulation service so tests
// and alternative deployments can swap it out.
package mailer

import "context"

// Message is a single outbound simulation email.
type Message struct {
	FromName    string
	FromEmail   string
	To          string
	Subject     string
	HTMLContent string
	// SimulationName tags the message for the provider's delivery logs.
	SimulationName string
}

// Mailer delivers a single message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
