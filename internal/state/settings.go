package state

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/schema"
)

// AddQuickNote puts the trimmed note first. Blank notes are ignored.
func (s *Store) AddQuickNote(ctx context.Context, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	return s.update(ctx, func(d *model.FocusData, _ time.Time) (bool, error) {
		d.QuickNotes = slices.Insert(d.QuickNotes, 0, note)
		return true, nil
	})
}

// RemoveQuickNote drops every note equal to note. Notes have no identity, so
// duplicates go together.
func (s *Store) RemoveQuickNote(ctx context.Context, note string) error {
	if strings.TrimSpace(note) == "" {
		return nil
	}
	return s.update(ctx, func(d *model.FocusData, _ time.Time) (bool, error) {
		before := len(d.QuickNotes)
		d.QuickNotes = slices.DeleteFunc(d.QuickNotes, func(n string) bool { return n == note })
		return len(d.QuickNotes) != before, nil
	})
}

// ToggleNotification switches reminders on or off. Disabling always works.
// Enabling takes the already resolved permission: when it was not granted the
// flag stays off and the reason is returned wrapped in ErrPermissionDenied;
// when it was, a confirmation notification is sent.
func (s *Store) ToggleNotification(ctx context.Context, enabled bool, perm notify.Permission) error {
	granted := !enabled || perm.Granted
	err := s.update(ctx, func(d *model.FocusData, _ time.Time) (bool, error) {
		next := enabled && granted
		if d.NotificationsEnabled == next {
			return false, nil
		}
		d.NotificationsEnabled = next
		return true, nil
	})
	if err != nil {
		return err
	}
	if !granted {
		reason := strings.TrimSpace(perm.Reason)
		if reason == "" {
			reason = "no notification surface available"
		}
		return fmt.Errorf("%w: %s", ErrPermissionDenied, reason)
	}
	if enabled {
		confirm := notify.Notification{
			Title: "Notifications enabled",
			Body:  "You will get a reminder before each planned block",
		}
		if sendErr := s.notifier.Send(ctx, confirm); sendErr != nil {
			s.log.Warn("confirmation notification failed", "error", sendErr)
		}
	}
	return nil
}

// ToggleWidgetPinned stores the pin flag the host reads for its widget.
func (s *Store) ToggleWidgetPinned(ctx context.Context, pinned bool) error {
	return s.update(ctx, func(d *model.FocusData, _ time.Time) (bool, error) {
		if d.WidgetPinned == pinned {
			return false, nil
		}
		d.WidgetPinned = pinned
		return true, nil
	})
}

// ResetWeekMeta starts a fresh quota for the current week unconditionally.
// LastReset is the Monday 00:00 that opened the week.
func (s *Store) ResetWeekMeta(ctx context.Context) (model.WeekMeta, error) {
	var meta model.WeekMeta
	err := s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		meta = dates.CurrentWeekMeta(now)
		d.WeekMeta = meta
		return true, nil
	})
	return meta, err
}

// ResetAllData replaces everything with the seed snapshot.
func (s *Store) ResetAllData(ctx context.Context) error {
	return s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		*d = schema.Default(now, s.newID)
		s.hydrated = true
		s.log.Warn("all data reset to defaults")
		return true, nil
	})
}
