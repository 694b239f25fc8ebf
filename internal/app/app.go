// Package app wires configuration, storage, the state core, the reminder
// watcher and the command palette into one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/sandeepkv93/focusflow/internal/logger"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/scheduler"
	"github.com/sandeepkv93/focusflow/internal/state"
	"github.com/sandeepkv93/focusflow/internal/storage"
	"github.com/sandeepkv93/focusflow/internal/summary"
)

type App struct {
	Config   config.RuntimeConfig
	Blobs    storage.BlobStore
	Store    *state.Store
	Watcher  *scheduler.Watcher
	Notifier notify.Notifier

	exec    notify.Exec
	now     func() time.Time
	closers []func() error
}

type Option func(*App)

// WithClock replaces time.Now for the store, the watcher and summaries.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		if n != nil {
			a.Notifier = n
		}
	}
}

// WithExec replaces the probe target used when notifications are enabled.
func WithExec(e notify.Exec) Option {
	return func(a *App) { a.exec = e }
}

// Open validates cfg, opens the configured backend and hydrates the store. A
// snapshot that cannot be read is logged; the app then runs on defaults
// without overwriting storage.
func Open(ctx context.Context, cfg config.RuntimeConfig, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := openShell(cfg, opts)
	if err != nil {
		return nil, err
	}

	a.Store = state.New(a.Blobs, state.WithClock(a.now), state.WithNotifier(a.Notifier))
	a.closers = append([]func() error{a.Store.Close}, a.closers...)
	if err := a.Store.Hydrate(ctx); err != nil {
		logger.Main.Warn("running on defaults", "error", err)
	}
	logger.Main.Debug("app opened", "backend", cfg.Backend, "path", cfg.ResolvedStatePath())
	return a, nil
}

// OpenWatcher opens the configured backend for the reminder watcher alone.
// No store is hydrated, so nothing is written to the snapshot. The returned
// func stops the watcher and closes the backend.
func OpenWatcher(cfg config.RuntimeConfig, opts ...Option) (*scheduler.Watcher, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	a, err := openShell(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	logger.Main.Debug("watcher opened", "backend", cfg.Backend, "path", cfg.ResolvedStatePath())
	return a.Watcher, a.Close, nil
}

// openShell applies opts and opens everything but the store.
func openShell(cfg config.RuntimeConfig, opts []Option) (*App, error) {
	a := &App{Config: cfg, now: time.Now, exec: notify.NewExec()}
	for _, opt := range opts {
		opt(a)
	}
	if a.Notifier == nil {
		a.Notifier = notify.Noop{}
		if cfg.DesktopNotifications {
			a.Notifier = a.exec
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	blobs, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	a.Blobs = blobs
	if closer, ok := blobs.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	a.Watcher = scheduler.NewWatcher(blobs, a.Notifier, scheduler.Options{
		Interval: cfg.PollInterval(),
		Lead:     cfg.ReminderLead(),
		Grace:    cfg.ReminderGrace(),
		Buffer:   cfg.EventBuffer,
		Clock:    a.now,
	})
	return a, nil
}

func openBackend(cfg config.RuntimeConfig) (storage.BlobStore, error) {
	path := cfg.ResolvedStatePath()
	switch cfg.Backend {
	case config.BackendFile:
		return storage.NewFileBlobStore(path)
	default:
		return storage.OpenSQLite(path)
	}
}

// Close stops the watcher, drains the store and closes the backend.
func (a *App) Close() error {
	if a.Watcher != nil {
		a.Watcher.Close()
	}
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) Now() time.Time {
	return a.now()
}

// Summary reports on the current in-memory snapshot.
func (a *App) Summary() summary.Result {
	snap := a.Store.Snapshot()
	return summary.Summarize(&snap, a.now())
}

// Today is today's schedule from the current snapshot.
func (a *App) Today() []summary.Block {
	snap := a.Store.Snapshot()
	return summary.Today(&snap, a.now())
}

// SetNotifications resolves the host permission and applies it.
func (a *App) SetNotifications(ctx context.Context, enabled bool) error {
	perm := notify.Granted()
	if enabled {
		perm = notify.Probe(ctx, a.Config.DesktopNotifications, a.exec)
	}
	return a.Store.ToggleNotification(ctx, enabled, perm)
}

// ResetWeek clears the weekly edit quota.
func (a *App) ResetWeek(ctx context.Context) (model.WeekMeta, error) {
	return a.Store.ResetWeekMeta(ctx)
}
