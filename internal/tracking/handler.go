// Package tracking serves the public landing page that phishing-simulation
// links point at. It is mounted by the API server and is the only surface of
// the standalone tracking binary.
package tracking

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/guardians/awareness-portal/internal/pkg/logger"
	"github.com/guardians/awareness-portal/internal/simtoken"
)

// ClickRecorder verifies a tracking token and appends the link_clicked
// event. Token failures return simtoken.ErrInvalidToken/ErrExpiredToken.
type ClickRecorder interface {
	RecordClick(ctx context.Context, token string) (*simtoken.Claims, error)
}

// Handler serves GET /landing?tk=<token>.
type Handler struct {
	recorder ClickRecorder
	dedup    *Dedup
}

// NewHandler creates a landing handler. dedup may be nil.
func NewHandler(recorder ClickRecorder, dedup *Dedup) *Handler {
	return &Handler{recorder: recorder, dedup: dedup}
}

// Routes returns the public routes for the tracking surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/landing", h.HandleLanding)
	r.Get("/health", h.HandleHealth)
	return r
}

// HandleLanding records the click and serves the awareness page. The page
// never reveals whether the (simulation, email) pair matched anything; a bad
// or expired token gets the invalid-link variant and records nothing.
func (h *Handler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("tk")
	if token == "" {
		h.serveInvalid(w)
		return
	}

	if h.dedup.Seen(r.Context(), token) {
		// Refresh inside the window: page yes, second event no.
		h.servePage(w)
		return
	}

	claims, err := h.recorder.RecordClick(r.Context(), token)
	if err != nil {
		if errors.Is(err, simtoken.ErrInvalidToken) || errors.Is(err, simtoken.ErrExpiredToken) {
			logger.Warn("landing hit with bad token", "ip", realIP(r), "error", err.Error())
			h.serveInvalid(w)
			return
		}
		// Store trouble is not the visitor's problem; the page still teaches.
		logger.Error("record click failed", "error", err.Error())
		h.servePage(w)
		return
	}

	h.dedup.Mark(r.Context(), token)
	logger.Info("landing click",
		"simulation", claims.SimulationName,
		"email", claims.Email,
		"ip", realIP(r))
	h.servePage(w)
}

// HandleHealth reports liveness for the tracking surface.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

const landingPage = `<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;text-align:center;padding:50px;">
	<h1>Oops! You clicked a simulated phishing link.</h1>
	<p>This was a security-awareness exercise run by your IT Security team.</p>
	<p>Real attackers use emails just like this one. Before clicking, check the
	sender address and hover over links to inspect where they lead.</p>
</body></html>`

const invalidPage = `<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;text-align:center;padding:50px;">
	<h1>This link is invalid or has expired.</h1>
	<p>If you reached this page from an email, you can safely close this tab.</p>
</body></html>`

func (h *Handler) servePage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(landingPage))
}

func (h *Handler) serveInvalid(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(invalidPage))
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
