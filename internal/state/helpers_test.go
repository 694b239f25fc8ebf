package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/focusflow/internal/logger"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/storage"
)

func init() {
	logger.Discard()
}

// wednesday is 2026-02-11 09:30 UTC, ISO week 7.
var wednesday = time.Date(2026, 2, 11, 9, 30, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type fixture struct {
	store    *Store
	blobs    *storage.MemoryBlobStore
	clock    *testClock
	notifier *notify.Recorder
}

// newTestStore returns a hydrated store over an empty in-memory blob.
func newTestStore(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		blobs:    storage.NewMemoryBlobStore(nil),
		clock:    &testClock{now: wednesday},
		notifier: &notify.Recorder{},
	}
	f.store = New(f.blobs, WithClock(f.clock.Now), WithIDs(seqIDs()), WithNotifier(f.notifier))
	if err := f.store.Hydrate(bg()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	t.Cleanup(func() { _ = f.store.Close() })
	return f
}

func bg() context.Context {
	return context.Background()
}

func taskByTitle(t *testing.T, s *Store, title string) model.Task {
	t.Helper()
	for _, task := range s.Snapshot().WeeklyPlan {
		if task.Title == title {
			return task
		}
	}
	t.Fatalf("task %q not found", title)
	return model.Task{}
}

func habitByTitle(t *testing.T, s *Store, title string) model.Habit {
	t.Helper()
	for _, h := range s.Snapshot().Habits {
		if h.Title == title {
			return h
		}
	}
	t.Fatalf("habit %q not found", title)
	return model.Habit{}
}

// persisted decodes the last blob written to the memory store.
func persisted(t *testing.T, blobs *storage.MemoryBlobStore) model.FocusData {
	t.Helper()
	raw, err := blobs.Get(bg())
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	var data model.FocusData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode blob: %v", err)
	}
	return data
}

func intPtr(v int) *int { return &v }
