package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/storage"
)

func TestTickStressConcurrentPolls(t *testing.T) {
	const tasks = 40
	items := make([]string, 0, tasks)
	for i := 0; i < tasks; i++ {
		items = append(items, fmt.Sprintf(`{"id":"task-%d","title":"Block %d","weekday":2,"hour":14,"minute":%d}`, i, i, i%5))
	}
	blob := `{"weeklyPlan":[` + strings.Join(items, ",") + `]}`

	rec := &notify.Recorder{}
	opts := DefaultOptions()
	opts.Buffer = tasks
	w := NewWatcher(storage.NewMemoryBlobStore([]byte(blob)), rec, opts)
	defer w.Close()

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := w.Tick(t.Context(), wednesdayAt(14, 1)); err != nil {
					t.Errorf("tick failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := len(rec.Sent()); got != tasks {
		t.Fatalf("each task must be announced exactly once: got=%d want=%d", got, tasks)
	}
	if w.Dropped() != 0 {
		t.Fatalf("expected zero drops with a large buffer, got=%d", w.Dropped())
	}
	if got := len(w.Notified()); got != tasks {
		t.Fatalf("unexpected notified count: %d", got)
	}
}
