// Package dates holds the calendar math shared by the planner: local day
// keys, the Monday-based weekday convention and ISO week bookkeeping.
//
// Every function takes "now" explicitly; nothing here reads the wall clock.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout is the YYYY-MM-DD layout used for day keys.
const KeyLayout = "2006-01-02"

var ErrInvalidKey = errors.New("dates: invalid day key")

// WeekMeta tracks the reschedule quota of one ISO week.
type WeekMeta struct {
	WeekNumber int       `json:"weekNumber"`
	Year       int       `json:"year"`
	EditsUsed  int       `json:"editsUsed"`
	LastReset  time.Time `json:"lastReset"`
}

// TodayKey formats the local calendar date of now.
func TodayKey(now time.Time) string {
	return now.Format(KeyLayout)
}

// ParseKey parses a YYYY-MM-DD key as midnight UTC.
func ParseKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return t, nil
}

// ISOWeekday maps Go's Sunday=0 weekday onto the Monday=0 convention.
func ISOWeekday(native time.Weekday) int {
	return (int(native) + 6) % 7
}

// WeekdayOf is ISOWeekday for a point in time.
func WeekdayOf(t time.Time) int {
	return ISOWeekday(t.Weekday())
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -WeekdayOf(t))
}

// SameWeek reports whether a and b fall in the same Monday-start week of loc.
func SameWeek(a, b time.Time, loc *time.Location) bool {
	return WeekStart(a.In(loc)).Equal(WeekStart(b.In(loc)))
}

// SameDay reports whether a and b share a calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// At returns hour:minute on the calendar date of day.
func At(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

// CurrentWeekMeta describes the week containing now with an unused quota.
func CurrentWeekMeta(now time.Time) WeekMeta {
	year, week := now.ISOWeek()
	return WeekMeta{
		WeekNumber: week,
		Year:       year,
		EditsUsed:  0,
		LastReset:  WeekStart(now).UTC(),
	}
}

// EnsureWeekMeta returns meta unchanged while now is still in the week of its
// last reset, and a fresh current-week meta otherwise (or when meta is nil).
func EnsureWeekMeta(meta *WeekMeta, now time.Time) WeekMeta {
	if meta == nil || meta.LastReset.IsZero() {
		return CurrentWeekMeta(now)
	}
	if !SameWeek(meta.LastReset, now, now.Location()) {
		return CurrentWeekMeta(now)
	}
	return *meta
}

// DaysBetween counts calendar days from one key to another; positive when to is later.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseKey(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseKey(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours() / 24), nil
}
