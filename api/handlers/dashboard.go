package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
	"github.com/codedrop/codedrop-api/models"
)

// Dashboard exported for testing purposes
type Dashboard struct {
	DB        databases.CodeDatabase
	Sweeper   *databases.ExpiryManager
	Directory databases.TeacherDirectory
	Clock     databases.Clock
	Config    *config.Config
}

type dashboardLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type dashboardResponse struct {
	ActiveCodes  []models.StoredCode `json:"activeCodes"`
	ExpiredCodes []models.StoredCode `json:"expiredCodes"`
	TeacherIDs   []string            `json:"teacherIds"`
}

type expireRequest struct {
	AccessCode string `json:"accessCode"`
}

type teacherIDRequest struct {
	TeacherID string `json:"teacherId"`
}

// LoginHandler checks the shared admin credential and returns a JWT.
// A single shared secret is a known-weak scheme kept for parity with the
// legacy dashboard; a real identity layer belongs in front of this service.
func (d Dashboard) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req dashboardLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		config.ErrorStatus("username and password required", http.StatusBadRequest, w, nil)
		return
	}

	if d.Config.AdminPasswordHash == "" || d.Config.JWTSecret == "" {
		config.ErrorStatus("server misconfigured", http.StatusInternalServerError, w, nil)
		return
	}
	if req.Username != d.Config.AdminUser {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.Config.AdminPasswordHash), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, nil)
		return
	}

	now := d.Clock.Now()
	claims := jwt.MapClaims{
		"sub":   d.Config.AdminUser,
		"scope": "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(d.Config.JWTSecret))
	if err != nil {
		config.ErrorStatus("token generation failed", http.StatusInternalServerError, w, err)
		return
	}

	b, _ := json.Marshal(map[string]string{"token": signed})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DashboardHandler sweeps lazily and returns the active set, history set and
// the teacher directory in one shot
func (d Dashboard) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := d.Sweeper.Sweep(ctx, d.Clock.Now()); err != nil {
		errorStatus("failed to sweep expired codes", w, err)
		return
	}

	resp, err := d.collect(r)
	if err != nil {
		errorStatus("failed to fetch dashboard data", w, err)
		return
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ExpireHandler force-expires an access code from the dashboard
func (d Dashboard) ExpireHandler(w http.ResponseWriter, r *http.Request) {
	var req expireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.AccessCode == "" {
		config.ErrorStatus("access code is required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	moved, err := d.DB.ExpireManually(ctx, req.AccessCode)
	if err != nil {
		errorStatus("failed to expire code", w, err)
		return
	}
	if !moved {
		config.ErrorStatus("code not found", http.StatusNotFound, w, nil)
		return
	}

	zap.S().Infow("code expired from dashboard", "accessCode", req.AccessCode)
	b, _ := json.Marshal(map[string]string{"message": "Code expired successfully"})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TeacherIDsHandler lists the authorized teacher identifiers
func (d Dashboard) TeacherIDsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	ids, err := d.Directory.List(ctx)
	if err != nil {
		errorStatus("failed to get teacher ids", w, err)
		return
	}

	b, err := json.Marshal(map[string][]string{"teacherIds": ids})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddTeacherIDHandler adds a teacher identifier to the directory
func (d Dashboard) AddTeacherIDHandler(w http.ResponseWriter, r *http.Request) {
	var req teacherIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	added, err := d.Directory.Add(ctx, req.TeacherID)
	if err != nil {
		errorStatus("failed to add teacher id", w, err)
		return
	}
	if !added {
		config.ErrorStatus("teacher id already exists", http.StatusBadRequest, w, nil)
		return
	}

	d.writeDirectory(ctx, w)
}

// RemoveTeacherIDHandler removes a teacher identifier from the directory
func (d Dashboard) RemoveTeacherIDHandler(w http.ResponseWriter, r *http.Request) {
	var req teacherIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	removed, err := d.Directory.Remove(ctx, req.TeacherID)
	if err != nil {
		errorStatus("failed to remove teacher id", w, err)
		return
	}
	if !removed {
		config.ErrorStatus("teacher id not found", http.StatusNotFound, w, nil)
		return
	}

	d.writeDirectory(ctx, w)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the dashboard is served from another origin in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatsSocketHandler pushes dashboard snapshots over a websocket so the
// admin view refreshes without polling
func (d Dashboard) StatsSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Debugw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		resp, err := d.collect(r)
		if err != nil {
			zap.S().Errorw("failed to collect dashboard stats", "error", err)
			return
		}
		if err := conn.WriteJSON(resp); err != nil {
			zap.S().Debugw("websocket client gone", "error", err)
			return
		}

		select {
		case <-ticker.C:
		case <-r.Context().Done():
			return
		}
	}
}

func (d Dashboard) collect(r *http.Request) (*dashboardResponse, error) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	active, err := d.DB.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	expired, err := d.DB.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := d.Directory.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dashboardResponse{ActiveCodes: active, ExpiredCodes: expired, TeacherIDs: ids}, nil
}

func (d Dashboard) writeDirectory(ctx context.Context, w http.ResponseWriter) {
	ids, err := d.Directory.List(ctx)
	if err != nil {
		errorStatus("failed to get teacher ids", w, err)
		return
	}
	b, _ := json.Marshal(map[string]interface{}{
		"success":    true,
		"teacherIds": ids,
		"count":      len(ids),
	})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
