// Package content implements the educational-content workflows: CRUD,
// the draft/publish lifecycle, and filtered listing for the portal's
// learning pages.
package content

import (
	"context"
	"fmt"

	"github.com/guardians/awareness-portal/internal/domain"
)

// Repository defines the data access contract for educational content.
type Repository interface {
	Create(ctx context.Context, c *domain.EduContent) (string, error)
	ByID(ctx context.Context, id string) (*domain.EduContent, error)
	List(ctx context.Context, f Filter) ([]domain.EduContent, error)
	Update(ctx context.Context, c *domain.EduContent) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.PublishStatus) error
}

// Filter narrows List results. Zero values mean "no filter".
type Filter struct {
	Status domain.PublishStatus
	Type   domain.ContentType
	Query  string
}

// Service implements content business logic.
type Service struct {
	repo Repository
}

// NewService creates a content service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input holds the writable fields of a content item.
type Input struct {
	Title       string             `json:"title"`
	Type        domain.ContentType `json:"type"`
	Description string             `json:"description"`
	URL         string             `json:"url"`
	Body        string             `json:"body"`
	Tags        []string           `json:"tags"`
	BannerImage string             `json:"bannerImage"`
}

func (in Input) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !domain.ValidContentType(in.Type) {
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, in.Type)
	}
	// External formats need a URL; inline formats need a body.
	switch in.Type {
	case domain.ContentYouTube, domain.ContentPDF:
		if in.URL == "" {
			return fmt.Errorf("%w: url is required for %s content", ErrInvalidInput, in.Type)
		}
	case domain.ContentBlog, domain.ContentWriteup:
		if in.Body == "" {
			return fmt.Errorf("%w: body is required for %s content", ErrInvalidInput, in.Type)
		}
	}
	return nil
}

// Create persists a new content item in draft status.
func (s *Service) Create(ctx context.Context, in Input) (*domain.EduContent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &domain.EduContent{
		Title:       in.Title,
		Type:        in.Type,
		Description: in.Description,
		URL:         in.URL,
		Body:        in.Body,
		Tags:        in.Tags,
		BannerImage: in.BannerImage,
		Status:      domain.StatusDraft,
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// Get returns a single content item.
func (s *Service) Get(ctx context.Context, id string) (*domain.EduContent, error) {
	return s.repo.ByID(ctx, id)
}

// List returns content matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.EduContent, error) {
	if f.Status != "" && f.Status != domain.StatusDraft && f.Status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return s.repo.List(ctx, f)
}

// Update overwrites the writable fields. Status is untouched; use Publish
// and Unpublish for lifecycle moves.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.EduContent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &domain.EduContent{
		ID:          id,
		Title:       in.Title,
		Type:        in.Type,
		Description: in.Description,
		URL:         in.URL,
		Body:        in.Body,
		Tags:        in.Tags,
		BannerImage: in.BannerImage,
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, id)
}

// Delete removes a content item.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Publish moves the item to published and stamps published_at.
func (s *Service) Publish(ctx context.Context, id string) (*domain.EduContent, error) {
	if err := s.repo.SetStatus(ctx, id, domain.StatusPublished); err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, id)
}

// Unpublish moves the item back to draft and clears published_at.
func (s *Service) Unpublish(ctx context.Context, id string) (*domain.EduContent, error) {
	if err := s.repo.SetStatus(ctx, id, domain.StatusDraft); err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, id)
}
