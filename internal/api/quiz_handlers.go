package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guardians/awareness-portal/internal/domain"
	"github.com/guardians/awareness-portal/internal/service/quiz"
)

// CreateQuiz handles POST /api/quizzes.
func (h *Handlers) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var in quiz.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	q, err := h.quizzes.Create(r.Context(), in)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

// ListQuizzes handles GET /api/quizzes?status=.
func (h *Handlers) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.List(r.Context(), domain.PublishStatus(r.URL.Query().Get("status")))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	respondJSON(w, http.StatusOK, quizzes)
}

// GetQuiz handles GET /api/quizzes/{id}.
func (h *Handlers) GetQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := h.quizzes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// UpdateQuiz handles PUT /api/quizzes/{id}.
func (h *Handlers) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var in quiz.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	q, err := h.quizzes.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// DeleteQuiz handles DELETE /api/quizzes/{id}.
func (h *Handlers) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"msg": "Quiz deleted"})
}

// PublishQuiz handles POST /api/quizzes/{id}/publish.
func (h *Handlers) PublishQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := h.quizzes.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// UnpublishQuiz handles POST /api/quizzes/{id}/unpublish.
func (h *Handlers) UnpublishQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := h.quizzes.Unpublish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}
