package domain

import "time"

// QuizQuestion is a single multiple-choice question. Answer is the index
// into Options of the correct choice.
type QuizQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// Quiz is a set of questions attached to the training portal. Questions are
// stored as a jsonb document; the portal never queries inside them.
type Quiz struct {
	ID          string         `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Questions   []QuizQuestion `json:"questions" db:"questions"`
	Status      PublishStatus  `json:"status" db:"status"`
	PublishedAt *time.Time     `json:"publishedAt" db:"published_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
