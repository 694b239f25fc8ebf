package model

import (
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
)

// StartOn returns the start of t on the calendar date of day.
func (t Task) StartOn(day time.Time) time.Time {
	return dates.At(day, t.Hour, t.Minute)
}

// EndOn returns the end of t on the calendar date of day.
func (t Task) EndOn(day time.Time) time.Time {
	return t.StartOn(day).Add(time.Duration(t.duration()) * time.Minute)
}

// NextOccurrence returns the first start of the weekly slot strictly after from.
func (t Task) NextOccurrence(from time.Time) time.Time {
	offset := (t.Weekday - dates.WeekdayOf(from) + 7) % 7
	candidate := t.StartOn(from.AddDate(0, 0, offset))
	if !candidate.After(from) {
		candidate = t.StartOn(from.AddDate(0, 0, offset+7))
	}
	return candidate
}

// Preview lists the next count starts of t after from.
func (t Task) Preview(from time.Time, count int) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	out := make([]time.Time, 0, count)
	cursor := from
	for i := 0; i < count; i++ {
		next := t.NextOccurrence(cursor)
		out = append(out, next)
		cursor = next
	}
	return out
}

func (t Task) duration() int {
	if t.DurationMinutes <= 0 {
		return DefaultDurationMinutes
	}
	return t.DurationMinutes
}
