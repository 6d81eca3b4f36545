package simulation

import "errors"

// Sentinel errors for the simulation service layer.
var (
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoRecipients means recipient resolution produced an empty set;
	// the campaign starts with zero sends and the caller gets a 400.
	ErrNoRecipients = errors.New("no recipients resolved")
	// ErrMailerNotConfigured means no mail transport was injected; refused
	// before any send is attempted.
	ErrMailerNotConfigured = errors.New("mail transport not configured")
)
