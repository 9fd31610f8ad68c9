package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
)

const defaultHistoryLimit = 200

// History exported for testing purposes
type History struct {
	DB databases.HistoryDatabase
}

// ListHandler returns the history log for one entity, newest first
func (h History) ListHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entity := r.URL.Query().Get("entity")
	id := r.URL.Query().Get("id")
	if entity == "" || id == "" {
		config.ErrorStatus("entity and id are required", http.StatusBadRequest, w, nil)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			config.ErrorStatus("limit must be a positive integer", http.StatusBadRequest, w, err)
			return
		}
		limit = parsed
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	events, err := h.DB.List(ctx, entity, id, limit)
	if err != nil {
		errorStatus("failed to get history", w, err)
		return
	}

	b, err := json.Marshal(map[string]interface{}{"events": events})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
