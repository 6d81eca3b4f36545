package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes plus the public landing route.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS for the admin frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	// Public landing route; also served by the standalone tracking binary.
	r.Get("/landing", h.landing.HandleLanding)

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.CreateEmployee)
			r.Get("/", h.ListEmployees)
			r.Get("/count/all", h.CountEmployees)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", h.CreateTemplate)
			r.Get("/", h.ListTemplates)
			r.Get("/{id}", h.GetTemplate)
			r.Put("/{id}", h.UpdateTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
		})

		r.Route("/content", func(r chi.Router) {
			r.Post("/", h.CreateContent)
			r.Get("/", h.ListContent)
			r.Post("/upload/image", h.UploadImage)
			r.Post("/upload/pdf", h.UploadPDF)
			r.Get("/{id}", h.GetContent)
			r.Put("/{id}", h.UpdateContent)
			r.Delete("/{id}", h.DeleteContent)
			r.Post("/{id}/publish", h.PublishContent)
			r.Post("/{id}/unpublish", h.UnpublishContent)
		})

		r.Route("/quizzes", func(r chi.Router) {
			r.Post("/", h.CreateQuiz)
			r.Get("/", h.ListQuizzes)
			r.Get("/{id}", h.GetQuiz)
			r.Put("/{id}", h.UpdateQuiz)
			r.Delete("/{id}", h.DeleteQuiz)
			r.Post("/{id}/publish", h.PublishQuiz)
			r.Post("/{id}/unpublish", h.UnpublishQuiz)
		})

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/start", h.StartSimulation)
			r.Post("/mark-launched", h.MarkSimulationLaunched)
			r.Get("/{simulationName}/stats", h.SimulationStats)
		})

		r.Get("/admin/metrics", h.AdminMetrics)
	})

	return r
}
