package databases

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/codedrop/codedrop-api/storage"
)

// TeacherDirectory is the small set of authorized teacher identifiers shown
// on the dashboard. Pure bookkeeping; nothing else enforces membership.
type TeacherDirectory interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, id string) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	Contains(ctx context.Context, id string) (bool, error)
}

type teacherDirectory struct {
	store storage.KeyValueStore
}

// NewTeacherDirectory initializes a directory over the provided store
func NewTeacherDirectory(store storage.KeyValueStore) TeacherDirectory {
	return &teacherDirectory{store: store}
}

func (d *teacherDirectory) List(ctx context.Context) ([]string, error) {
	keys, err := d.store.ListKeys(ctx, teacherDirPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, teacherDirPrefix))
	}
	sort.Strings(ids)
	return ids, nil
}

// Add returns false without error when id is already present
func (d *teacherDirectory) Add(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: teacher id must be non-empty", ErrInvalidInput)
	}
	exists, err := d.Contains(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := d.store.Set(ctx, teacherDirKey(id), id); err != nil {
		return false, err
	}
	return true, nil
}

// Remove returns false without error when id is absent
func (d *teacherDirectory) Remove(ctx context.Context, id string) (bool, error) {
	exists, err := d.Contains(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := d.store.Delete(ctx, teacherDirKey(id)); err != nil {
		return false, err
	}
	return true, nil
}

func (d *teacherDirectory) Contains(ctx context.Context, id string) (bool, error) {
	_, ok, err := d.store.Get(ctx, teacherDirKey(id))
	if err != nil {
		return false, err
	}
	return ok, nil
}
