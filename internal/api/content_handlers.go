package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/guardians/awareness-portal/internal/domain"
	"github.com/guardians/awareness-portal/internal/service/content"
)

// CreateContent handles POST /api/content.
func (h *Handlers) CreateContent(w http.ResponseWriter, r *http.Request) {
	var in content.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.content.Create(r.Context(), in)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// ListContent handles GET /api/content?status=&q=&type=.
func (h *Handlers) ListContent(w http.ResponseWriter, r *http.Request) {
	f := content.Filter{
		Status: domain.PublishStatus(r.URL.Query().Get("status")),
		Type:   domain.ContentType(r.URL.Query().Get("type")),
		Query:  r.URL.Query().Get("q"),
	}
	items, err := h.content.List(r.Context(), f)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if items == nil {
		items = []domain.EduContent{}
	}
	respondJSON(w, http.StatusOK, items)
}

// GetContent handles GET /api/content/{id}.
func (h *Handlers) GetContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// UpdateContent handles PUT /api/content/{id}.
func (h *Handlers) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var in content.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.content.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DeleteContent handles DELETE /api/content/{id}.
func (h *Handlers) DeleteContent(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"msg": "Content deleted"})
}

// PublishContent handles POST /api/content/{id}/publish.
func (h *Handlers) PublishContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// UnpublishContent handles POST /api/content/{id}/unpublish.
func (h *Handlers) UnpublishContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.Unpublish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// UploadImage handles POST /api/content/upload/image. Real storage is out of
// scope; the endpoint returns a mock URL the way the original portal does.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"url": fmt.Sprintf("https://cdn.portal.local/images/%s-%d.png", uuid.New().String()[:8], time.Now().Unix()),
	})
}

// UploadPDF handles POST /api/content/upload/pdf; mock URL, same as images.
func (h *Handlers) UploadPDF(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"url": fmt.Sprintf("https://cdn.portal.local/docs/%s-%d.pdf", uuid.New().String()[:8], time.Now().Unix()),
	})
}
