package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

// 10 MB cap on uploads, matching the multipart memory limit
const maxUploadBytes = 10 << 20

// File exported for testing purposes
type File struct {
	DB    databases.FileDatabase
	HDB   databases.HistoryDatabase
	Blob  storage.BlobStore
	Clock databases.Clock
}

// UploadHandler stores the multipart "file" part in blob storage and keeps
// its metadata in the key-value store
func (f File) UploadHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if f.Blob == nil {
		config.ErrorStatus("file uploads are not configured", http.StatusServiceUnavailable, w, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("file part is required", http.StatusBadRequest, w, err)
		return
	}
	defer part.Close()

	name := path.Base(header.Filename)
	if name == "" || name == "." || name == "/" {
		config.ErrorStatus("file name is required", http.StatusBadRequest, w, nil)
		return
	}

	id := uuid.New().String()
	storageKey := fmt.Sprintf("code/%s/%s", id, name)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := f.Blob.Put(ctx, storageKey, part); err != nil {
		errorStatus("failed to upload file", w, err)
		return
	}

	meta := models.FileMeta{
		ID:         id,
		Name:       name,
		Size:       header.Size,
		StorageKey: storageKey,
		CreatedAt:  f.Clock.Now().Format(timestampLayout),
	}
	if err := f.DB.InsertOne(ctx, meta); err != nil {
		// keep blob storage consistent with the metadata we failed to write
		if delErr := f.Blob.Delete(ctx, storageKey); delErr != nil {
			zap.S().Errorw("failed to roll back blob after metadata write failure",
				"storageKey", storageKey, "error", delErr)
		}
		errorStatus("failed to store file metadata", w, err)
		return
	}

	f.logEvent(r, id, "file.uploaded", map[string]interface{}{"name": name, "size": header.Size})

	b, err := json.Marshal(meta)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// GetHandler returns the file metadata along with a short-lived download URL
func (f File) GetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fileID := mux.Vars(r)["file_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	meta, err := f.DB.FindOne(ctx, fileID)
	if err != nil {
		errorStatus("failed to get file by ID", w, err)
		return
	}
	if meta.DeletedAt != "" {
		config.ErrorStatus("file not found", http.StatusNotFound, w, nil)
		return
	}

	url := ""
	if f.Blob != nil && meta.StorageKey != "" {
		url, err = f.Blob.PresignGet(ctx, meta.StorageKey)
		if err != nil {
			errorStatus("failed to presign download URL", w, err)
			return
		}
	}

	b, err := json.Marshal(map[string]interface{}{
		"file":        meta,
		"downloadUrl": url,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteHandler soft deletes the metadata and removes the blob. Deleting a
// file that is already gone still returns ok.
func (f File) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fileID := mux.Vars(r)["file_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	meta, err := f.DB.FindOne(ctx, fileID)
	if err != nil {
		errorStatus("failed to get file by ID", w, err)
		return
	}

	if meta.DeletedAt == "" {
		if f.Blob != nil && meta.StorageKey != "" {
			if err := f.Blob.Delete(ctx, meta.StorageKey); err != nil {
				errorStatus("failed to delete file contents", w, err)
				return
			}
		}
		meta.DeletedAt = f.Clock.Now().Format(timestampLayout)
		meta.StorageKey = ""
		if err := f.DB.UpdateOne(ctx, *meta); err != nil {
			errorStatus("failed to update file metadata", w, err)
			return
		}
		f.logEvent(r, fileID, "file.deleted", nil)
	}

	b, _ := json.Marshal(map[string]bool{"ok": true})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (f File) logEvent(r *http.Request, id, eventType string, diff map[string]interface{}) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	event := models.HistoryEvent{Actor: r.Header.Get("X-Actor"), Type: eventType, Diff: diff}
	if err := f.HDB.Append(ctx, "file", id, event); err != nil {
		zap.S().Errorw("failed to append history event", "entity", "file", "id", id, "error", err)
	}
}
