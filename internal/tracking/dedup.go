package tracking

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guardians/awareness-portal/internal/pkg/logger"
)

// Dedup suppresses repeat clicks on the same token within a short window, so
// a recipient refreshing the landing page does not flood the event log.
// Redis being down fails open: the click is recorded anyway.
type Dedup struct {
	client *redis.Client
	window time.Duration
}

// NewDedup creates a de-duplication window. A nil client disables it.
func NewDedup(client *redis.Client, window time.Duration) *Dedup {
	return &Dedup{client: client, window: window}
}

// Seen reports whether this token was already recorded inside the window.
func (d *Dedup) Seen(ctx context.Context, token string) bool {
	if d == nil || d.client == nil {
		return false
	}
	n, err := d.client.Exists(ctx, d.key(token)).Result()
	if err != nil {
		logger.Warn("click dedup check failed, failing open", "error", err.Error())
		return false
	}
	return n > 0
}

// Mark remembers the token for the window. Called after a successful record.
func (d *Dedup) Mark(ctx context.Context, token string) {
	if d == nil || d.client == nil {
		return
	}
	if err := d.client.Set(ctx, d.key(token), 1, d.window).Err(); err != nil {
		logger.Warn("click dedup mark failed", "error", err.Error())
	}
}

func (d *Dedup) key(token string) string {
	return "click_seen:" + token
}
