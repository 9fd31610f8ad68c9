package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codedrop/codedrop-api/api/handlers"
	"github.com/codedrop/codedrop-api/databases"
	"github.com/codedrop/codedrop-api/models"
)

type blobMock struct {
	mock.Mock
}

func (m *blobMock) Put(ctx context.Context, key string, body io.Reader) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

func (m *blobMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *blobMock) PresignGet(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func newFileHandler(env *testEnv, blob *blobMock) handlers.File {
	return handlers.File{
		DB:    databases.NewFileDatabase(env.store),
		HDB:   env.history,
		Blob:  blob,
		Clock: env.clock,
	}
}

func multipartUpload(t *testing.T, name, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	env := newTestEnv()
	blob := &blobMock{}
	blob.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "code/") && strings.HasSuffix(key, "/snippet.go")
	}), mock.Anything).Return(nil)
	f := newFileHandler(env, blob)

	rr := httptest.NewRecorder()
	f.UploadHandler(rr, multipartUpload(t, "snippet.go", "package main"))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var meta models.FileMeta
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meta))
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, "snippet.go", meta.Name)
	assert.Equal(t, int64(len("package main")), meta.Size)
	assert.NotEmpty(t, meta.CreatedAt)
	blob.AssertExpectations(t)

	events, err := env.history.List(context.Background(), "file", meta.ID, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "file.uploaded", events[0].Type)
}

func TestUploadHandlerWithoutBlobStore(t *testing.T) {
	env := newTestEnv()
	f := handlers.File{
		DB:    databases.NewFileDatabase(env.store),
		HDB:   env.history,
		Clock: env.clock,
	}

	rr := httptest.NewRecorder()
	f.UploadHandler(rr, multipartUpload(t, "snippet.go", "package main"))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestUploadHandlerMissingFilePart(t *testing.T) {
	env := newTestEnv()
	blob := &blobMock{}
	f := newFileHandler(env, blob)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rr := httptest.NewRecorder()
	f.UploadHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	blob.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

type failingFileDB struct {
	databases.FileDatabase
}

func (failingFileDB) InsertOne(context.Context, models.FileMeta) error {
	return databases.ErrStorageUnavailable
}

func TestUploadHandlerRollsBackBlobOnMetadataFailure(t *testing.T) {
	env := newTestEnv()
	blob := &blobMock{}
	blob.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	blob.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f := handlers.File{
		DB:    failingFileDB{databases.NewFileDatabase(env.store)},
		HDB:   env.history,
		Blob:  blob,
		Clock: env.clock,
	}

	rr := httptest.NewRecorder()
	f.UploadHandler(rr, multipartUpload(t, "snippet.go", "package main"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	blob.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFileGetHandler(t *testing.T) {
	env := newTestEnv()
	blob := &blobMock{}
	blob.On("PresignGet", mock.Anything, "code/f-1/snippet.go").
		Return("https://blob.test/code/f-1/snippet.go?sig=abc", nil)
	f := newFileHandler(env, blob)

	meta := models.FileMeta{
		ID:         "f-1",
		Name:       "snippet.go",
		Size:       12,
		StorageKey: "code/f-1/snippet.go",
		CreatedAt:  "2024-01-15T10:30:00.000Z",
	}
	require.NoError(t, databases.NewFileDatabase(env.store).InsertOne(context.Background(), meta))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/f-1", nil)
	req = mux.SetURLVars(req, map[string]string{"file_id": "f-1"})
	rr := httptest.NewRecorder()
	f.GetHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp struct {
		File        models.FileMeta `json:"file"`
		DownloadURL string          `json:"downloadUrl"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "snippet.go", resp.File.Name)
	assert.Equal(t, "https://blob.test/code/f-1/snippet.go?sig=abc", resp.DownloadURL)
}

func TestFileGetHandlerNotFound(t *testing.T) {
	env := newTestEnv()
	f := newFileHandler(env, &blobMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"file_id": "missing"})
	rr := httptest.NewRecorder()
	f.GetHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFileDeleteHandlerIdempotent(t *testing.T) {
	env := newTestEnv()
	blob := &blobMock{}
	blob.On("Delete", mock.Anything, "code/f-1/snippet.go").Return(nil)
	f := newFileHandler(env, blob)

	meta := models.FileMeta{
		ID:         "f-1",
		Name:       "snippet.go",
		StorageKey: "code/f-1/snippet.go",
		CreatedAt:  "2024-01-15T10:30:00.000Z",
	}
	require.NoError(t, databases.NewFileDatabase(env.store).InsertOne(context.Background(), meta))

	deleteOnce := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/files/f-1", nil)
		req = mux.SetURLVars(req, map[string]string{"file_id": "f-1"})
		rr := httptest.NewRecorder()
		f.DeleteHandler(rr, req)
		return rr
	}

	rr := deleteOnce()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"ok": true}`, rr.Body.String())

	// second delete still acks but the blob is only removed once
	rr = deleteOnce()
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true}`, rr.Body.String())
	blob.AssertNumberOfCalls(t, "Delete", 1)

	events, err := env.history.List(context.Background(), "file", "f-1", 0)
	require.NoError(t, err)
	deletedEvents := 0
	for _, e := range events {
		if e.Type == "file.deleted" {
			deletedEvents++
		}
	}
	assert.Equal(t, 1, deletedEvents)

	// the soft-deleted record no longer resolves
	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/f-1", nil)
	req = mux.SetURLVars(req, map[string]string{"file_id": "f-1"})
	getRR := httptest.NewRecorder()
	f.GetHandler(getRR, req)
	assert.Equal(t, http.StatusNotFound, getRR.Code)
}
