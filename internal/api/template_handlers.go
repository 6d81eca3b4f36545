package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guardians/awareness-portal/internal/domain"
)

type templateRequest struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

func (req templateRequest) validate() error {
	switch {
	case req.Name == "":
		return fmt.Errorf("name is required")
	case req.Subject == "":
		return fmt.Errorf("subject is required")
	case req.HTMLContent == "":
		return fmt.Errorf("htmlContent is required")
	}
	return nil
}

// CreateTemplate handles POST /api/templates.
func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := &domain.Template{Name: req.Name, Subject: req.Subject, HTMLContent: req.HTMLContent}
	if _, err := h.templates.Create(r.Context(), t); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

// ListTemplates handles GET /api/templates; newest first.
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if templates == nil {
		templates = []domain.Template{}
	}
	respondJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /api/templates/{id}.
func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// UpdateTemplate handles PUT /api/templates/{id}.
func (h *Handlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := &domain.Template{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Subject:     req.Subject,
		HTMLContent: req.HTMLContent,
	}
	if err := h.templates.Update(r.Context(), t); err != nil {
		respondRepoError(w, err)
		return
	}
	updated, err := h.templates.ByID(r.Context(), t.ID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteTemplate handles DELETE /api/templates/{id}.
func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"msg": "Template deleted"})
}
