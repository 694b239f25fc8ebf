package state

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/schema"
)

// RegisterHabitCheck checks a habit in for date ("" means today) and pays its
// reward as a bonus. A second check for the same day and an unknown habit are
// no-ops.
func (s *Store) RegisterHabitCheck(ctx context.Context, habitID, date string) error {
	return s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		key, err := resolveDate(date, now)
		if err != nil {
			return false, err
		}
		idx := habitIndex(d.Habits, habitID)
		if idx < 0 || d.HabitChecked(habitID, key) {
			return false, nil
		}
		habit := d.Habits[idx]
		habit.Streak = nextStreak(habit, key)
		habit.BestStreak = max(habit.BestStreak, habit.Streak)
		habit.LastCheckDate = key
		habit.UpdatedAt = now.UTC()
		d.Habits[idx] = habit

		d.HabitLogs = append(d.HabitLogs, model.HabitLog{
			HabitID: habitID,
			Date:    key,
			Reward:  habit.RewardPerCheck,
		})

		bank, applied := model.ApplyDelta(d.CoinBank, habit.RewardPerCheck)
		d.CoinBank = bank
		s.prependLedger(d, model.CoinLedgerEntry{
			Type:   model.LedgerBonus,
			Label:  fmt.Sprintf("%s: streak continues", habit.Title),
			Amount: applied,
			Date:   now.UTC(),
			Meta:   map[string]any{"habitId": habitID},
		})
		return true, nil
	})
}

// nextStreak extends the streak on the day after the last check, restarts it
// after a longer gap and leaves it alone for same-day or backdated checks.
func nextStreak(h model.Habit, date string) int {
	if h.Streak < 1 || h.LastCheckDate == "" {
		return 1
	}
	gap, err := dates.DaysBetween(h.LastCheckDate, date)
	if err != nil {
		return 1
	}
	switch {
	case gap == 1:
		return h.Streak + 1
	case gap > 1:
		return 1
	default:
		return h.Streak
	}
}

// HabitInput creates a habit or patches an existing one. Empty strings and
// nil pointers leave the current value in place when editing.
type HabitInput struct {
	ID             string
	Title          string
	Description    string
	Icon           string
	Color          string
	RewardPerCheck *int
	Streak         *int
	BestStreak     *int
	Archived       *bool
}

// UpsertHabit edits the habit with in.ID when it exists and creates one
// otherwise, keeping in.ID when given. A negative reward or streak, or a best
// streak set below the streak, fails with model.ErrInvalidHabit.
func (s *Store) UpsertHabit(ctx context.Context, in HabitInput) (model.Habit, error) {
	var out model.Habit
	err := s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		if idx := habitIndex(d.Habits, in.ID); in.ID != "" && idx >= 0 {
			next := in.patch(d.Habits[idx], now)
			if err := next.Validate(); err != nil {
				return false, err
			}
			out = schema.NormalizeHabit(next, now)
			d.Habits[idx] = out
			return true, nil
		}
		if strings.TrimSpace(in.Title) == "" {
			return false, ErrEmptyTitle
		}
		id := in.ID
		if id == "" {
			id = s.newID()
		}
		created := model.Habit{
			ID:             id,
			RewardPerCheck: model.DefaultHabitReward,
			CreatedAt:      now.UTC(),
		}
		next := in.patch(created, now)
		if err := next.Validate(); err != nil {
			return false, err
		}
		out = schema.NormalizeHabit(next, now)
		d.Habits = append(d.Habits, out)
		return true, nil
	})
	return out, err
}

func (in HabitInput) patch(h model.Habit, now time.Time) model.Habit {
	if title := strings.TrimSpace(in.Title); title != "" {
		h.Title = title
	}
	if in.Description != "" {
		h.Description = in.Description
	}
	if in.Icon != "" {
		h.Icon = in.Icon
	}
	if in.Color != "" {
		h.Color = in.Color
	}
	if in.RewardPerCheck != nil {
		h.RewardPerCheck = *in.RewardPerCheck
	}
	if in.Streak != nil {
		h.Streak = *in.Streak
		h.BestStreak = max(h.BestStreak, h.Streak)
	}
	if in.BestStreak != nil {
		h.BestStreak = *in.BestStreak
	}
	if in.Archived != nil {
		h.Archived = *in.Archived
	}
	h.UpdatedAt = now.UTC()
	return h
}

// DeleteHabit removes a habit together with its check-in history.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	return s.update(ctx, func(d *model.FocusData, _ time.Time) (bool, error) {
		habits, logs := len(d.Habits), len(d.HabitLogs)
		d.Habits = slices.DeleteFunc(d.Habits, func(h model.Habit) bool { return h.ID == id })
		d.HabitLogs = slices.DeleteFunc(d.HabitLogs, func(l model.HabitLog) bool { return l.HabitID == id })
		return len(d.Habits) != habits || len(d.HabitLogs) != logs, nil
	})
}

func habitIndex(habits []model.Habit, id string) int {
	for i, h := range habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}
