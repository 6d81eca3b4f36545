package domain

import "time"

// Template is a reusable phishing email template. HTMLContent may carry the
// literal {{TRACKING_LINK}} placeholder, replaced per recipient at send time.
type Template struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Subject     string    `json:"subject" db:"subject"`
	HTMLContent string    `json:"htmlContent" db:"html_content"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
