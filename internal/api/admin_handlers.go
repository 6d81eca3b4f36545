package api

import (
	"fmt"
	"net/http"
	"time"
)

// AdminMetrics handles GET /api/admin/metrics: portal totals and recent
// activity for the dashboard.
func (h *Handlers) AdminMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employeeCount, err := h.employees.Count(ctx)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	publishedContent, err := h.contentRepo.CountPublished(ctx)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	publishedQuizzes, err := h.quizRepo.CountPublished(ctx)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	simulations, err := h.events.DistinctSimulations(ctx)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	recentEmployees, err := h.employees.Recent(ctx, 5)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	recentContent, err := h.contentRepo.RecentPublished(ctx, 5)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	type recentItem struct {
		Title   string `json:"title"`
		Detail  string `json:"detail"`
		TimeAgo string `json:"timeAgo"`
	}

	recent := []recentItem{}
	for _, e := range recentEmployees {
		recent = append(recent, recentItem{
			Title:   "Employee added: " + e.Name,
			Detail:  string(e.Department),
			TimeAgo: timeAgo(e.CreatedAt),
		})
	}
	for _, c := range recentContent {
		item := recentItem{Title: "Content published: " + c.Title, Detail: string(c.Type)}
		if c.PublishedAt != nil {
			item.TimeAgo = timeAgo(*c.PublishedAt)
		}
		recent = append(recent, item)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totals": map[string]int{
			"employees":        employeeCount,
			"publishedContent": publishedContent,
			"publishedQuizzes": publishedQuizzes,
			"simulations":      simulations,
		},
		"recentActivity": recent,
		// Static until a real scoring model exists.
		"securityHealthScore": 78,
	})
}

// timeAgo humanizes a timestamp for the dashboard activity feed.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
