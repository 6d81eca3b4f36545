package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guardians/awareness-portal/internal/service/simulation"
)

// StartSimulation handles POST /api/simulations/start. The call succeeds
// when the dispatch loop completes; per-recipient outcomes ride in the body.
func (h *Handlers) StartSimulation(w http.ResponseWriter, r *http.Request) {
	var input simulation.StartInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.simulations.Start(r.Context(), input)
	if err != nil {
		if errors.Is(err, simulation.ErrMailerNotConfigured) {
			respondSafeError(w, http.StatusInternalServerError, err, "Mail delivery is unavailable")
			return
		}
		respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"msg":     "Simulation emails dispatched",
		"total":   result.Total,
		"sent":    result.Sent,
		"failed":  result.Failed,
		"results": result.Results,
	})
}

// MarkSimulationLaunched handles POST /api/simulations/mark-launched.
func (h *Handlers) MarkSimulationLaunched(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateName string `json:"templateName"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.simulations.MarkLaunched(r.Context(), req.TemplateName); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"msg": "Simulation marked as launched"})
}

// SimulationStats handles GET /api/simulations/{simulationName}/stats.
// Always one row per employee, even with no events for the campaign.
func (h *Handlers) SimulationStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "simulationName")
	stats, err := h.simulations.Stats(r.Context(), name)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if stats == nil {
		stats = []simulation.EmployeeStats{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"simulationName": name,
		"stats":          stats,
	})
}
