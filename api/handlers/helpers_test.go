package handlers_test

import (
	"time"

	"github.com/codedrop/codedrop-api/codes"
	"github.com/codedrop/codedrop-api/databases"
	"github.com/codedrop/codedrop-api/storage"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type testEnv struct {
	store   *storage.MemoryStore
	clock   *fixedClock
	codeDB  databases.CodeDatabase
	history databases.HistoryDatabase
}

func newTestEnv() *testEnv {
	store := storage.NewMemoryStore()
	clock := &fixedClock{now: time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)}
	return &testEnv{
		store:   store,
		clock:   clock,
		codeDB:  databases.NewCodeDatabase(store, clock, codes.NewAccessCodeGenerator(1)),
		history: databases.NewHistoryDatabase(store, clock),
	}
}
