package databases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

// TeacherDatabase contains the methods to use with the teacher records
type TeacherDatabase interface {
	FindOne(ctx context.Context, id string) (*models.Teacher, error)
	Find(ctx context.Context) ([]models.Teacher, error)
	InsertOne(ctx context.Context, teacher models.Teacher) error
	UpdateOne(ctx context.Context, teacher models.Teacher) error
	// SoftDeleteOne stamps deletedAt and flips active off; the record stays readable
	SoftDeleteOne(ctx context.Context, id string, deletedAt string) (*models.Teacher, error)
}

type teacherDatabase struct {
	store storage.KeyValueStore
}

// NewTeacherDatabase initializes a teacher record database over the provided store
func NewTeacherDatabase(store storage.KeyValueStore) TeacherDatabase {
	return &teacherDatabase{store: store}
}

func (t *teacherDatabase) FindOne(ctx context.Context, id string) (*models.Teacher, error) {
	raw, ok, err := t.store.Get(ctx, teacherRecKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: teacher %q", ErrNotFound, id)
	}
	var teacher models.Teacher
	if err := json.Unmarshal([]byte(raw), &teacher); err != nil {
		return nil, fmt.Errorf("%w: corrupt teacher record %q: %v", ErrStorageUnavailable, id, err)
	}
	return &teacher, nil
}

func (t *teacherDatabase) Find(ctx context.Context) ([]models.Teacher, error) {
	keys, err := t.store.ListKeys(ctx, teacherRecPrefix)
	if err != nil {
		return nil, err
	}
	teachers := make([]models.Teacher, 0, len(keys))
	for _, key := range keys {
		teacher, err := t.FindOne(ctx, strings.TrimPrefix(key, teacherRecPrefix))
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, *teacher)
	}
	return teachers, nil
}

func (t *teacherDatabase) InsertOne(ctx context.Context, teacher models.Teacher) error {
	return t.put(ctx, teacher)
}

func (t *teacherDatabase) UpdateOne(ctx context.Context, teacher models.Teacher) error {
	if _, err := t.FindOne(ctx, teacher.ID); err != nil {
		return err
	}
	return t.put(ctx, teacher)
}

func (t *teacherDatabase) SoftDeleteOne(ctx context.Context, id string, deletedAt string) (*models.Teacher, error) {
	teacher, err := t.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacher.DeletedAt == "" {
		teacher.DeletedAt = deletedAt
		teacher.Active = false
		if err := t.put(ctx, *teacher); err != nil {
			return nil, err
		}
	}
	return teacher, nil
}

func (t *teacherDatabase) put(ctx context.Context, teacher models.Teacher) error {
	b, err := json.Marshal(teacher)
	if err != nil {
		return fmt.Errorf("%w: marshal teacher record: %v", ErrStorageUnavailable, err)
	}
	return t.store.Set(ctx, teacherRecKey(teacher.ID), string(b))
}
