package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
	"github.com/codedrop/codedrop-api/models"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var validate = validator.New()

// Teacher exported for testing purposes
type Teacher struct {
	DB    databases.TeacherDatabase
	HDB   databases.HistoryDatabase
	Clock databases.Clock
}

type createTeacherRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Subjects []string `json:"subjects"`
}

// TeacherHandler returns a single teacher record by id
func (t Teacher) TeacherHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	teacherID := mux.Vars(r)["teacher_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := t.DB.FindOne(ctx, teacherID)
	if err != nil {
		errorStatus("failed to get teacher by ID", w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TeachersHandler returns all teacher records, soft deleted ones included
// unless ?active=true is passed
func (t Teacher) TeachersHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := t.DB.Find(ctx)
	if err != nil {
		errorStatus("failed to get teachers", w, err)
		return
	}

	if r.URL.Query().Get("active") == "true" {
		filtered := make([]models.Teacher, 0, len(dbResp))
		for _, teacher := range dbResp {
			if teacher.Active {
				filtered = append(filtered, teacher)
			}
		}
		dbResp = filtered
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateTeacherHandler creates a teacher record and logs a created event
func (t Teacher) CreateTeacherHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req createTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	now := t.Clock.Now().Format(timestampLayout)
	teacher := models.Teacher{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Subjects:  req.Subjects,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if teacher.Subjects == nil {
		teacher.Subjects = []string{}
	}

	if err := validate.Struct(teacher); err != nil {
		config.ErrorStatus("teacher record failed validation", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := t.DB.InsertOne(ctx, teacher); err != nil {
		errorStatus("failed to create teacher", w, err)
		return
	}

	t.logEvent(r, teacher.ID, "teacher.created", map[string]interface{}{"name": teacher.Name})

	b, err := json.Marshal(teacher)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateTeacherHandler applies a partial update to a teacher record
func (t Teacher) UpdateTeacherHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	teacherID := mux.Vars(r)["teacher_id"]

	var patch models.TeacherPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	teacher, err := t.DB.FindOne(ctx, teacherID)
	if err != nil {
		errorStatus("failed to get teacher by ID", w, err)
		return
	}

	diff := map[string]interface{}{}
	if patch.Name != nil {
		teacher.Name = *patch.Name
		diff["name"] = *patch.Name
	}
	if patch.Email != nil {
		teacher.Email = *patch.Email
		diff["email"] = *patch.Email
	}
	if patch.Subjects != nil {
		teacher.Subjects = *patch.Subjects
		diff["subjects"] = *patch.Subjects
	}
	if patch.Active != nil {
		teacher.Active = *patch.Active
		diff["active"] = *patch.Active
	}
	if len(diff) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, nil)
		return
	}
	teacher.UpdatedAt = t.Clock.Now().Format(timestampLayout)

	if err := validate.Struct(teacher); err != nil {
		config.ErrorStatus("teacher record failed validation", http.StatusBadRequest, w, err)
		return
	}

	if err := t.DB.UpdateOne(ctx, *teacher); err != nil {
		errorStatus("failed to update teacher", w, err)
		return
	}

	t.logEvent(r, teacher.ID, "teacher.updated", diff)

	b, err := json.Marshal(teacher)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteTeacherHandler soft deletes a teacher record. Repeated deletes
// return the already-deleted record unchanged.
func (t Teacher) DeleteTeacherHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	teacherID := mux.Vars(r)["teacher_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := t.DB.FindOne(ctx, teacherID)
	if err != nil {
		errorStatus("failed to get teacher by ID", w, err)
		return
	}
	alreadyDeleted := existing.DeletedAt != ""

	teacher, err := t.DB.SoftDeleteOne(ctx, teacherID, t.Clock.Now().Format(timestampLayout))
	if err != nil {
		errorStatus("failed to delete teacher", w, err)
		return
	}

	if !alreadyDeleted {
		t.logEvent(r, teacher.ID, "teacher.deleted", nil)
	}

	b, err := json.Marshal(teacher)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// logEvent appends to the history log best effort; a full log never fails
// the request that triggered it
func (t Teacher) logEvent(r *http.Request, id, eventType string, diff map[string]interface{}) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	event := models.HistoryEvent{Actor: r.Header.Get("X-Actor"), Type: eventType, Diff: diff}
	if err := t.HDB.Append(ctx, "teacher", id, event); err != nil {
		zap.S().Errorw("failed to append history event", "entity", "teacher", "id", id, "error", err)
	}
}
