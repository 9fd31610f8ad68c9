package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/config"
)

// Metrics exported for testing purposes
type Metrics struct{}

// SummaryHandler returns per-route request counts and latency aggregates
func (m Metrics) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary := api.GetMetrics().Summary()
	b, err := json.Marshal(summary)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
