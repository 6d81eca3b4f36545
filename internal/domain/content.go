package domain

import "time"

// ContentType enumerates the supported educational content formats.
type ContentType string

const (
	ContentYouTube ContentType = "youtube"
	ContentPDF     ContentType = "pdf"
	ContentBlog    ContentType = "blog"
	ContentWriteup ContentType = "writeup"
)

// ValidContentType reports whether t is a known content format.
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentYouTube, ContentPDF, ContentBlog, ContentWriteup:
		return true
	}
	return false
}

// PublishStatus is the draft/published lifecycle shared by educational
// content and quizzes.
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
)

// EduContent is a piece of educational material shown to employees.
// URL points at external material (youtube/pdf); Body holds inline
// material (blog/writeup).
type EduContent struct {
	ID          string        `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Type        ContentType   `json:"type" db:"type"`
	Description string        `json:"description" db:"description"`
	URL         string        `json:"url" db:"url"`
	Body        string        `json:"body" db:"body"`
	Tags        []string      `json:"tags" db:"tags"`
	BannerImage string        `json:"bannerImage" db:"banner_image"`
	Status      PublishStatus `json:"status" db:"status"`
	PublishedAt *time.Time    `json:"publishedAt" db:"published_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}
