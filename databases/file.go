package databases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

// FileDatabase contains the methods to use with uploaded file metadata
type FileDatabase interface {
	FindOne(ctx context.Context, id string) (*models.FileMeta, error)
	InsertOne(ctx context.Context, meta models.FileMeta) error
	UpdateOne(ctx context.Context, meta models.FileMeta) error
}

type fileDatabase struct {
	store storage.KeyValueStore
}

// NewFileDatabase initializes a file metadata database over the provided store
func NewFileDatabase(store storage.KeyValueStore) FileDatabase {
	return &fileDatabase{store: store}
}

func (f *fileDatabase) FindOne(ctx context.Context, id string) (*models.FileMeta, error) {
	raw, ok, err := f.store.Get(ctx, fileMetaKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: file %q", ErrNotFound, id)
	}
	var meta models.FileMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("%w: corrupt file metadata %q: %v", ErrStorageUnavailable, id, err)
	}
	return &meta, nil
}

func (f *fileDatabase) InsertOne(ctx context.Context, meta models.FileMeta) error {
	return f.put(ctx, meta)
}

func (f *fileDatabase) UpdateOne(ctx context.Context, meta models.FileMeta) error {
	if _, err := f.FindOne(ctx, meta.ID); err != nil {
		return err
	}
	return f.put(ctx, meta)
}

func (f *fileDatabase) put(ctx context.Context, meta models.FileMeta) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("%w: marshal file metadata: %v", ErrStorageUnavailable, err)
	}
	return f.store.Set(ctx, fileMetaKey(meta.ID), string(b))
}
