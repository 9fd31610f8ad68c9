package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/codes"
	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
)

// DefaultTTL is how long a freshly stored snippet stays retrievable
const DefaultTTL = time.Hour

// ExtensionTTL is the new lifetime granted by the one-time extension
const ExtensionTTL = 24 * time.Hour

// Code exported for testing purposes
type Code struct {
	DB     databases.CodeDatabase
	Oracle codes.ExtensionOracle
	Clock  databases.Clock
}

type storeRequest struct {
	Code      string `json:"code"`
	TeacherID string `json:"teacherId,omitempty"`
}

type extendRequest struct {
	AccessCode    string `json:"accessCode"`
	ExtensionCode string `json:"extensionCode"`
}

// StoreHandler stores a snippet and returns its fresh access code
func (c Code) StoreHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	record, err := c.DB.Store(ctx, req.Code, DefaultTTL, req.TeacherID)
	if err != nil {
		errorStatus("failed to store code", w, err)
		return
	}

	zap.S().Debugw("stored code", "accessCode", record.AccessCode)

	b, err := json.Marshal(map[string]string{
		"accessCode": record.AccessCode,
		"expiresIn":  "1 hour",
		"message":    "Code stored successfully",
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RetrieveHandler returns the stored snippet for an access code
func (c Code) RetrieveHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	accessCode := mux.Vars(r)["code"]
	if len(accessCode) != codes.AccessCodeLength {
		config.ErrorStatus("invalid access code format", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	record, err := c.DB.Retrieve(ctx, accessCode)
	if err != nil {
		errorStatus("code not found or expired", w, err)
		return
	}

	b, err := json.Marshal(map[string]string{
		"code":     record.Code,
		"storedAt": time.UnixMilli(record.CreatedAt).UTC().Format(time.RFC3339),
		"message":  "Code retrieved successfully",
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ExtendHandler applies the one-time extension after checking the
// minute-rotating extension code
func (c Code) ExtendHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.AccessCode == "" || req.ExtensionCode == "" {
		config.ErrorStatus("both accessCode and extensionCode are required", http.StatusBadRequest, w, nil)
		return
	}

	now := c.Clock.Now()
	if !c.Oracle.IsValid(req.ExtensionCode, now) {
		config.ErrorStatus("invalid or expired extension code", http.StatusUnauthorized, w, databases.ErrUnauthorized)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	record, err := c.DB.ExtendOnce(ctx, req.AccessCode, ExtensionTTL)
	if err != nil {
		errorStatus("failed to extend code", w, err)
		return
	}

	zap.S().Debugw("extended code", "accessCode", record.AccessCode, "expiresAt", record.ExpiresAt)

	b, err := json.Marshal(map[string]string{
		"message":      "Code extended successfully",
		"accessCode":   record.AccessCode,
		"newExpiresIn": "24 hours",
		"extendedAt":   now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
