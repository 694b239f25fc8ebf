// Package scheduler runs the reminder watcher: a background loop that reads
// the persisted snapshot and raises one notification per task start.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/logger"
	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/schema"
	"github.com/sandeepkv93/focusflow/internal/storage"
)

const (
	DefaultInterval = time.Minute
	DefaultLead     = 5 * time.Minute
	DefaultGrace    = 10 * time.Minute
	ReminderTitle   = "Next task time"
)

// Reminder is one task start that was announced.
type Reminder struct {
	TaskID  string
	Title   string
	Date    string
	StartAt time.Time
	Body    string
}

type Options struct {
	// Interval between polls of the blob store.
	Interval time.Duration
	// Lead is how early a start may be announced, Grace how late.
	Lead  time.Duration
	Grace time.Duration
	// Buffer is the capacity of the reminder channel.
	Buffer int
	Clock  func() time.Time
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Interval: DefaultInterval,
		Lead:     DefaultLead,
		Grace:    DefaultGrace,
		Buffer:   16,
	}
}

type Watcher struct {
	blobs    storage.BlobStore
	notifier notify.Notifier
	interval time.Duration
	lead     time.Duration
	grace    time.Duration
	now      func() time.Time
	log      *slog.Logger
	out      chan Reminder
	dropped  uint64

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool

	tickMu   sync.Mutex
	day      string
	notified map[string]bool
	rev      int64
	cached   schema.Reminders
	cachedOK bool
}

func NewWatcher(blobs storage.BlobStore, notifier notify.Notifier, opts Options) *Watcher {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Lead < 0 {
		opts.Lead = def.Lead
	}
	if opts.Grace < 0 {
		opts.Grace = def.Grace
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Scheduler
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Watcher{
		blobs:    blobs,
		notifier: notifier,
		interval: opts.Interval,
		lead:     opts.Lead,
		grace:    opts.Grace,
		now:      opts.Clock,
		log:      opts.Logger,
		out:      make(chan Reminder, opts.Buffer),
		notified: make(map[string]bool),
	}
}

// C delivers every reminder the watcher sends. Reminders are dropped, and
// counted by Dropped, while the channel is full.
func (w *Watcher) C() <-chan Reminder {
	return w.out
}

func (w *Watcher) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

// Start runs the poll loop until Stop, Close or ctx is done. Starting a
// running watcher restarts its loop.
func (w *Watcher) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	go w.loop(ctx, w.stopCh, w.doneCh)
}

// Stop halts the loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()
	<-done
}

// Close stops the watcher for good and closes C.
func (w *Watcher) Close() {
	w.Stop()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.out)
}

func (w *Watcher) loop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.log.Debug("watcher started", "interval", w.interval)
	for {
		select {
		case <-ticker.C:
			if _, err := w.Tick(ctx, w.now()); err != nil {
				w.log.Error("reminder tick failed", "error", err)
			}
		case <-stopCh:
			w.log.Debug("watcher stopped")
			return
		case <-ctx.Done():
			return
		}
	}
}

// Tick runs one poll at now and returns the reminders it sent. A missing
// snapshot, one without a plan array, and one with notifications switched
// off are not errors.
func (w *Watcher) Tick(ctx context.Context, now time.Time) ([]Reminder, error) {
	w.tickMu.Lock()
	defer w.tickMu.Unlock()

	rem, ok, err := w.load(ctx, now)
	if err != nil {
		return nil, err
	}
	if !ok || !rem.Enabled {
		return nil, nil
	}

	today := dates.TodayKey(now)
	if w.day != today {
		clear(w.notified)
		w.day = today
	}

	weekday := dates.WeekdayOf(now)
	sent := make([]Reminder, 0)
	for _, task := range rem.Plan {
		if task.Weekday != weekday || w.notified[task.ID] {
			continue
		}
		start := task.StartOn(now)
		diff := start.Sub(now)
		if diff > w.lead || diff < -w.grace {
			continue
		}
		r := Reminder{
			TaskID:  task.ID,
			Title:   task.Title,
			Date:    today,
			StartAt: start,
			Body:    fmt.Sprintf("%s (%s)", task.Title, start.Format("15:04")),
		}
		w.notified[task.ID] = true
		if err := w.notifier.Send(ctx, notify.Notification{Title: ReminderTitle, Body: r.Body}); err != nil {
			w.log.Warn("reminder not delivered", "task", task.ID, "error", err)
		}
		w.publish(r)
		sent = append(sent, r)
	}
	return sent, nil
}

// load decodes the stored plan. A store that reports revisions is only read
// again after it has been written. Callers hold tickMu.
func (w *Watcher) load(ctx context.Context, now time.Time) (schema.Reminders, bool, error) {
	var rev int64
	if rs, ok := w.blobs.(storage.Revisioner); ok {
		r, _, err := rs.Revision(ctx)
		if err != nil {
			return schema.Reminders{}, false, fmt.Errorf("read revision: %w", err)
		}
		if r > 0 && r == w.rev {
			return w.cached, w.cachedOK, nil
		}
		rev = r
	}
	raw, err := w.blobs.Get(ctx)
	if err != nil {
		return schema.Reminders{}, false, fmt.Errorf("read state: %w", err)
	}
	var rem schema.Reminders
	ok := false
	if len(raw) > 0 {
		rem, ok = schema.ReadReminders(raw, now)
	}
	w.rev, w.cached, w.cachedOK = rev, rem, ok
	return rem, ok, nil
}

func (w *Watcher) publish(r Reminder) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.out <- r:
	default:
		atomic.AddUint64(&w.dropped, 1)
	}
}

// Notified lists the task ids already announced today, sorted.
func (w *Watcher) Notified() []string {
	w.tickMu.Lock()
	defer w.tickMu.Unlock()
	ids := make([]string, 0, len(w.notified))
	for id := range w.notified {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
