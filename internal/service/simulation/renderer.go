package simulation

import (
	"strings"

	"github.com/osteele/liquid"

	"github.com/guardians/awareness-portal/internal/domain"
	"github.com/guardians/awareness-portal/internal/pkg/logger"
)

// TrackingPlaceholder is the literal marker template authors put where the
// per-recipient tracking link should go.
const TrackingPlaceholder = "{{TRACKING_LINK}}"

// Renderer personalizes template HTML per recipient and splices in the
// tracking link.
type Renderer struct {
	engine *liquid.Engine
}

// NewRenderer creates a renderer with a fresh Liquid engine.
func NewRenderer() *Renderer {
	return &Renderer{engine: liquid.NewEngine()}
}

// Render produces the final HTML for one recipient.
//
// The template first goes through a lax Liquid pass with per-recipient
// bindings; TRACKING_LINK is bound to its own placeholder so the literal
// survives the pass. Then exactly the first occurrence of the placeholder is
// replaced with the tracking URL. A template without the placeholder is sent
// unmodified; that is a silent no-op, not an error.
func (r *Renderer) Render(html string, e *domain.Employee, trackingURL string) string {
	bindings := map[string]interface{}{
		"name":          e.Name,
		"email":         e.Email,
		"department":    string(e.Department),
		"employee_id":   e.EmployeeID,
		"TRACKING_LINK": TrackingPlaceholder,
	}

	out, err := r.engine.ParseAndRenderString(html, bindings)
	if err != nil {
		// Lax fallback: templates with invalid Liquid still get the
		// tracking link spliced into the raw HTML.
		logger.Warn("template render fallback", "error", err.Error())
		out = html
	}

	return strings.Replace(out, TrackingPlaceholder, trackingURL, 1)
}
