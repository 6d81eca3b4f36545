// Package quiz implements quiz management: CRUD plus the draft/publish
// lifecycle. Questions are opaque documents; answer checking happens
// client-side in the training UI.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/guardians/awareness-portal/internal/domain"
)

// ErrInvalidInput wraps request validation failures.
var ErrInvalidInput = errors.New("invalid input")

// Repository defines the data access contract for quizzes.
type Repository interface {
	Create(ctx context.Context, q *domain.Quiz) (string, error)
	ByID(ctx context.Context, id string) (*domain.Quiz, error)
	List(ctx context.Context, status domain.PublishStatus) ([]domain.Quiz, error)
	Update(ctx context.Context, q *domain.Quiz) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.PublishStatus) error
}

// Service implements quiz business logic.
type Service struct {
	repo Repository
}

// NewService creates a quiz service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input holds the writable fields of a quiz.
type Input struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Questions   []domain.QuizQuestion `json:"questions"`
}

func (in Input) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	for i, q := range in.Questions {
		if q.Prompt == "" {
			return fmt.Errorf("%w: question %d has no prompt", ErrInvalidInput, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least two options", ErrInvalidInput, i+1)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("%w: question %d answer index out of range", ErrInvalidInput, i+1)
		}
	}
	return nil
}

// Create persists a new quiz in draft status.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Quiz, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	q := &domain.Quiz{
		Title:       in.Title,
		Description: in.Description,
		Questions:   in.Questions,
		Status:      domain.StatusDraft,
	}
	id, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	q.ID = id
	return q, nil
}

// Get returns a single quiz.
func (s *Service) Get(ctx context.Context, id string) (*domain.Quiz, error) {
	return s.repo.ByID(ctx, id)
}

// List returns quizzes, optionally narrowed by status.
func (s *Service) List(ctx context.Context, status domain.PublishStatus) ([]domain.Quiz, error) {
	if status != "" && status != domain.StatusDraft && status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.repo.List(ctx, status)
}

// Update overwrites the writable fields; status is untouched.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Quiz, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	q := &domain.Quiz{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Questions:   in.Questions,
	}
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, id)
}

// Delete removes a quiz.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Publish moves the quiz to published and stamps published_at.
func (s *Service) Publish(ctx context.Context, id string) (*domain.Quiz, error) {
	if err := s.repo.SetStatus(ctx, id, domain.StatusPublished); err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, id)
}

// Unpublish moves the quiz back to draft and clears published_at.
func (s *Service) Unpublish(ctx context.Context, id string) (*domain.Quiz, error) {
	if err := s.repo.SetStatus(ctx, id, domain.StatusDraft); err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, id)
}
