package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
)

// ConfigValues exported for testing purposes
type ConfigValues struct {
	DB databases.ConfigDatabase
}

type setConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetHandler returns a single runtime config value by ?key=
func (c ConfigValues) GetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	key := r.URL.Query().Get("key")
	if key == "" {
		config.ErrorStatus("key is required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	value, ok, err := c.DB.Get(ctx, key)
	if err != nil {
		errorStatus("failed to get config value", w, err)
		return
	}
	if !ok {
		config.ErrorStatus("config key not found", http.StatusNotFound, w, nil)
		return
	}

	b, _ := json.Marshal(map[string]string{"key": key, "value": value})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SetHandler upserts a runtime config value
func (c ConfigValues) SetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req setConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.DB.Set(ctx, req.Key, req.Value); err != nil {
		errorStatus("failed to set config value", w, err)
		return
	}

	b, _ := json.Marshal(map[string]string{"key": req.Key, "value": req.Value})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// WelcomeHandler returns the configurable landing greeting
func (c ConfigValues) WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	greeting, ok, err := c.DB.Get(ctx, "greeting")
	if err != nil {
		errorStatus("failed to get greeting", w, err)
		return
	}
	if !ok {
		greeting = "Welcome to the code drop service"
	}

	b, _ := json.Marshal(map[string]string{"message": greeting})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
