package chi

import (
	"encoding/json"
	"net/http"
)

// Problem is an RFC 7807 error body. Every problem carries the request's
// correlation id so clients can quote it back.
type Problem struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Status        int    `json:"status"`
	Detail        string `json:"detail,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

const (
	problemValidation         = "validation-error"
	problemRateLimited        = "rate-limited"
	problemShardNotFound      = "shard-not-found"
	problemBackendUnavailable = "backend-unavailable"
	problemInternal           = "internal-error"
)

func writeProblem(w http.ResponseWriter, r *http.Request, status int, kind, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:          kind,
		Title:         title,
		Status:        status,
		Detail:        detail,
		CorrelationID: CorrelationFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
