package handler

import (
	"encoding/json"
	"net/http"
)

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status string `json:"status"`
}

// HealthHandler answers kubelet liveness checks. It has no dependencies to check.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{Status: "ok"})
}

// writeJSON writes payload without the trailing newline json.Encoder adds.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
