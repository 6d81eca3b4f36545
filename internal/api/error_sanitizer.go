package api

import (
	"net/http"
	"strings"

	"github.com/guardians/awareness-portal/internal/pkg/logger"
)

// =============================================================================
// ERROR SANITIZER
// Ensures internal errors (database details, file paths, transport errors)
// are NEVER leaked to API consumers. All 5xx errors return generic safe
// messages while the full error is logged server-side for debugging.
// =============================================================================

// respondSafeError logs the full internal error and sends a sanitized JSON
// error response to the client.
func respondSafeError(w http.ResponseWriter, code int, internalErr error, publicMsg string) {
	if internalErr != nil {
		logger.Error("request failed", "status", code, "public", publicMsg, "error", internalErr.Error())
	}
	respondJSON(w, code, map[string]string{"error": publicMsg})
}

// safeErrorMessage maps common internal error patterns to public-safe messages.
// For 400-level errors, the original message is typically fine (user input issues).
// For 500-level errors, this returns a generic safe message.
func safeErrorMessage(code int, internalErr error) string {
	if code < 500 {
		if internalErr != nil {
			return internalErr.Error()
		}
		return "Bad request"
	}

	if internalErr == nil {
		return "An internal error occurred"
	}

	errStr := strings.ToLower(internalErr.Error())

	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "Service temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context canceled"):
		return "Request timed out"

	case strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "pq:") ||
		strings.Contains(errStr, "query") ||
		strings.Contains(errStr, "scan") ||
		strings.Contains(errStr, "transaction") ||
		strings.Contains(errStr, "database"):
		return "A database error occurred"

	case strings.Contains(errStr, "ses") ||
		strings.Contains(errStr, "smtp") ||
		strings.Contains(errStr, "mail transport"):
		return "Mail delivery is unavailable"

	case strings.Contains(errStr, "json") ||
		strings.Contains(errStr, "unmarshal") ||
		strings.Contains(errStr, "marshal") ||
		strings.Contains(errStr, "decode") ||
		strings.Contains(errStr, "parse"):
		return "Invalid request format"

	default:
		return "An internal error occurred"
	}
}
