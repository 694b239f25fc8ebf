// Package state owns the in-memory snapshot and every operation that mutates it.
//
// A Store is constructed, hydrated, used and closed. Each operation runs to
// completion under one mutex: it validates, mutates the snapshot, and only then
// writes the complete snapshot through the configured storage.BlobStore.
// Persistence is best effort: a failed write is logged and the in-memory change
// stands, so a crash after a failed write loses that change.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/focusflow/internal/logger"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/schema"
	"github.com/sandeepkv93/focusflow/internal/storage"
)

// Validation rejections. The error text is the human-readable reason.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrRewardNotFound    = errors.New("reward not found")
	ErrEditLimit         = errors.New("weekly edit limit exceeded")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptyTitle        = errors.New("title is required")
	ErrInvalidDate       = errors.New("invalid date")
	ErrPermissionDenied  = errors.New("notification permission denied")
	ErrClosed            = errors.New("store closed")
)

type Store struct {
	mu       sync.Mutex
	data     model.FocusData
	hydrated bool
	closed   bool

	// ioMu is taken before mu is released so writes land in mutation order.
	ioMu  sync.Mutex
	blobs storage.BlobStore

	now      func() time.Time
	newID    schema.IDFunc
	log      *slog.Logger
	notifier notify.Notifier

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDs(newID schema.IDFunc) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNotifier sets where the confirmation sent on enabling notifications goes.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// New returns a store holding the seed snapshot. Call Hydrate to load
// persisted data; changes made before then are kept in memory only.
func New(blobs storage.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:    blobs,
		now:      time.Now,
		newID:    schema.NewID,
		log:      logger.State,
		notifier: notify.Noop{},
		subs:     make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = schema.Default(s.now(), s.newID)
	return s
}

// Hydrate reads the persisted blob, normalizes it, replaces the snapshot and
// writes the normalized result back. When the read fails the store falls back
// to the seed snapshot without overwriting what is stored, and the read error
// is returned.
func (s *Store) Hydrate(ctx context.Context) error {
	raw, err := s.blobs.Get(ctx)
	if err != nil {
		err = fmt.Errorf("read state: %w", err)
		s.log.Error("hydrate read failed", "error", err)
		s.mu.Lock()
		s.data = schema.Default(s.now(), s.newID)
		s.hydrated = true
		s.mu.Unlock()
		s.notify()
		return err
	}
	return s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		*d = schema.Normalize(raw, now, s.newID)
		s.hydrated = true
		s.log.Info("hydrated", "tasks", len(d.WeeklyPlan), "habits", len(d.Habits), "coins", d.CoinBank)
		return true, nil
	})
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.FocusData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Close waits for an in-flight write, drops all subscribers and rejects
// further mutations.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.ioMu.Lock()
	s.ioMu.Unlock()
	s.subMu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subMu.Unlock()
	return nil
}

type mutation func(d *model.FocusData, now time.Time) (changed bool, err error)

// update is the single place a snapshot leaves the store. fn validates and
// mutates the live snapshot; it must not mutate when it returns an error. A
// reported change is serialized whole and written while later mutations wait
// on ioMu.
func (s *Store) update(ctx context.Context, fn mutation) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	changed, err := fn(&s.data, s.now())
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	if !s.hydrated {
		s.mu.Unlock()
		s.log.Debug("change not persisted before hydrate")
		s.notify()
		return nil
	}
	blob, marshalErr := json.Marshal(s.data)
	s.ioMu.Lock()
	s.mu.Unlock()
	defer s.ioMu.Unlock()

	s.notify()
	if marshalErr != nil {
		s.log.Error("encode snapshot", "error", marshalErr)
		return nil
	}
	if setErr := s.blobs.Set(ctx, blob); setErr != nil {
		s.log.Error("persist snapshot", "error", setErr, "bytes", len(blob))
	}
	return nil
}
