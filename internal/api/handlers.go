package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/guardians/awareness-portal/internal/repository/postgres"
	"github.com/guardians/awareness-portal/internal/service/content"
	"github.com/guardians/awareness-portal/internal/service/quiz"
	"github.com/guardians/awareness-portal/internal/service/simulation"
	"github.com/guardians/awareness-portal/internal/tracking"
)

// Handlers contains all HTTP handlers for the portal API.
type Handlers struct {
	employees   *postgres.EmployeeRepo
	templates   *postgres.TemplateRepo
	events      *postgres.EventRepo
	contentRepo *postgres.ContentRepo
	quizRepo    *postgres.QuizRepo
	content     *content.Service
	quizzes     *quiz.Service
	simulations *simulation.Service
	landing     *tracking.Handler

	startedAt time.Time
}

// Deps wires a Handlers instance. The repos back both the CRUD services and
// the dashboard counters.
type Deps struct {
	Employees   *postgres.EmployeeRepo
	Templates   *postgres.TemplateRepo
	Events      *postgres.EventRepo
	ContentRepo *postgres.ContentRepo
	QuizRepo    *postgres.QuizRepo
	Content     *content.Service
	Quizzes     *quiz.Service
	Simulations *simulation.Service
	Landing     *tracking.Handler
}

// NewHandlers creates a Handlers instance.
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		employees:   d.Employees,
		templates:   d.Templates,
		events:      d.Events,
		contentRepo: d.ContentRepo,
		quizRepo:    d.QuizRepo,
		content:     d.Content,
		quizzes:     d.Quizzes,
		simulations: d.Simulations,
		landing:     d.Landing,
		startedAt:   time.Now(),
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses the request body into dst; a false return means the 400
// response was already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// respondRepoError maps store/service errors onto HTTP statuses: sentinels
// become 400/404 with their message exposed, everything else is a sanitized
// 500.
func respondRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, postgres.ErrDuplicateEmail),
		errors.Is(err, postgres.ErrDuplicateEmployeeID),
		errors.Is(err, content.ErrInvalidInput),
		errors.Is(err, quiz.ErrInvalidInput),
		errors.Is(err, simulation.ErrInvalidInput),
		errors.Is(err, simulation.ErrNoRecipients):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondSafeError(w, http.StatusInternalServerError, err, safeErrorMessage(http.StatusInternalServerError, err))
	}
}
