package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/schema"
)

// TaskInput creates a task when ID is empty and replaces the editable fields
// of an existing task otherwise. A nil Minute keeps the current minute.
// CoinReward is accepted for compatibility; rewards always follow the
// difficulty table.
type TaskInput struct {
	ID              string
	Title           string
	Description     string
	Weekday         int
	Hour            int
	Minute          *int
	DurationMinutes int
	Difficulty      model.Difficulty
	Category        model.Category
	CoinReward      *int
	Color           string
	Icon            string
	Notes           string
	IsPinned        bool
}

// InputFromTask returns an input that rewrites t unchanged.
func InputFromTask(t model.Task) TaskInput {
	minute := t.Minute
	return TaskInput{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Weekday:         t.Weekday,
		Hour:            t.Hour,
		Minute:          &minute,
		DurationMinutes: t.DurationMinutes,
		Difficulty:      t.Difficulty,
		Category:        t.Category,
		Color:           t.Color,
		Icon:            t.Icon,
		Notes:           t.Notes,
		IsPinned:        t.IsPinned,
	}
}

func (in TaskInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if in.Weekday < 0 || in.Weekday > 6 {
		return fmt.Errorf("%w: %d", model.ErrInvalidWeekday, in.Weekday)
	}
	if in.Hour < 0 || in.Hour > 23 {
		return fmt.Errorf("%w: %d", model.ErrInvalidHour, in.Hour)
	}
	if in.Minute != nil && (*in.Minute < 0 || *in.Minute > 59) {
		return fmt.Errorf("minute out of range: %d", *in.Minute)
	}
	if in.Difficulty != "" && !in.Difficulty.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidDifficulty, in.Difficulty)
	}
	if in.Category != "" && !in.Category.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidCategory, in.Category)
	}
	return nil
}

func (in TaskInput) apply(t model.Task) model.Task {
	t.Title = strings.TrimSpace(in.Title)
	t.Description = in.Description
	t.Weekday = in.Weekday
	t.Hour = in.Hour
	if in.Minute != nil {
		t.Minute = *in.Minute
	}
	t.DurationMinutes = in.DurationMinutes
	t.Difficulty = in.Difficulty
	t.Category = in.Category
	t.Color = in.Color
	t.Icon = in.Icon
	t.Notes = in.Notes
	t.IsPinned = in.IsPinned
	return t
}

// UpsertTask creates or edits a weekly template task. Moving a task to another
// weekday, hour or minute counts against the weekly edit quota; once
// model.MaxWeeklyEdits moves were made this week, further moves fail with
// ErrEditLimit while other edits still succeed.
func (s *Store) UpsertTask(ctx context.Context, in TaskInput) (model.Task, error) {
	var out model.Task
	err := s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		d.WeekMeta = dates.EnsureWeekMeta(&d.WeekMeta, now)
		if err := in.validate(); err != nil {
			return false, err
		}

		if in.ID == "" {
			out = schema.NormalizeTask(in.apply(model.Task{
				ID:        s.newID(),
				CreatedAt: now.UTC(),
				UpdatedAt: now.UTC(),
			}), now)
			if err := out.Validate(); err != nil {
				return false, err
			}
			d.WeeklyPlan = append(d.WeeklyPlan, out)
			return true, nil
		}

		idx := taskIndex(d.WeeklyPlan, in.ID)
		if idx < 0 {
			return false, fmt.Errorf("%w: %q", ErrTaskNotFound, in.ID)
		}
		previous := d.WeeklyPlan[idx]
		next := in.apply(previous)
		reschedule := previous.Reschedules(next)
		if reschedule && d.WeekMeta.EditsUsed >= model.MaxWeeklyEdits {
			return false, ErrEditLimit
		}
		next.UpdatedAt = now.UTC()
		next = schema.NormalizeTask(next, now)
		if err := next.Validate(); err != nil {
			return false, err
		}
		if reschedule {
			d.WeekMeta.EditsUsed++
		}
		out = next
		d.WeeklyPlan[idx] = out
		return true, nil
	})
	return out, err
}

// DeleteTask removes a task and every daily log entry that references it.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		changed := false
		if idx := taskIndex(d.WeeklyPlan, id); idx >= 0 {
			d.WeeklyPlan = append(d.WeeklyPlan[:idx:idx], d.WeeklyPlan[idx+1:]...)
			changed = true
		}
		for key, log := range d.DailyLogs {
			if log.Drop(id) {
				log.UpdatedAt = now.UTC()
				d.DailyLogs[key] = log
				changed = true
			}
		}
		return changed, nil
	})
}

// StatusInput is one status change for a task on a given day.
type StatusInput struct {
	TaskID string
	Status model.TaskStatus
	Note   string
}

// MarkTaskStatus records a status for a task on date ("" means today) and
// settles coins: leaving completed takes the reward back, leaving skipped
// refunds the penalty, entering completed pays the reward and entering
// skipped charges model.SkipPenalty. Unknown tasks and unchanged statuses are
// no-ops.
func (s *Store) MarkTaskStatus(ctx context.Context, date string, in StatusInput) error {
	if !in.Status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, in.Status)
	}
	return s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		key, err := resolveDate(date, now)
		if err != nil {
			return false, err
		}
		idx := taskIndex(d.WeeklyPlan, in.TaskID)
		if idx < 0 {
			return false, nil
		}
		task := d.WeeklyPlan[idx]

		log, exists := d.DailyLogs[key]
		previous, _ := log.Entry(in.TaskID)
		current := log.StatusOf(in.TaskID)
		if current == in.Status {
			return false, nil
		}

		delta := statusDelta(current, in.Status, task.CoinReward)
		stampAt := now.UTC()

		next := model.TaskLog{
			TaskID:             in.TaskID,
			Status:             in.Status,
			Note:               in.Note,
			StartedAt:          previous.StartedAt,
			CompletedAt:        previous.CompletedAt,
			OverrideTitle:      previous.OverrideTitle,
			OverrideCoinReward: previous.OverrideCoinReward,
			PenaltyCoins:       previous.PenaltyCoins,
		}
		if next.StartedAt == nil && in.Status == model.StatusInProgress {
			next.StartedAt = &stampAt
		}
		if in.Status == model.StatusCompleted {
			next.CompletedAt = &stampAt
		}
		if !exists {
			log = model.DailyLog{Date: key, Tasks: []model.TaskLog{}, CreatedAt: stampAt}
		}
		log.Put(next)
		log.UpdatedAt = stampAt
		if d.DailyLogs == nil {
			d.DailyLogs = make(map[string]model.DailyLog)
		}
		d.DailyLogs[key] = log

		if delta != 0 {
			bank, applied := model.ApplyDelta(d.CoinBank, delta)
			d.CoinBank = bank
			s.prependLedger(d, model.CoinLedgerEntry{
				Type:          model.EarnType(applied),
				Label:         fmt.Sprintf("%s: %s", task.Title, statusVerb(in.Status)),
				Amount:        applied,
				Date:          stampAt,
				RelatedTaskID: task.ID,
				Meta:          map[string]any{"date": key, "status": string(in.Status)},
			})
		}
		return true, nil
	})
}

// statusDelta reverses the coin effect of from and applies the effect of to.
func statusDelta(from, to model.TaskStatus, reward int) int {
	delta := 0
	if from == model.StatusCompleted && to != model.StatusCompleted {
		delta -= reward
	}
	if from == model.StatusSkipped && to != model.StatusSkipped {
		delta += model.SkipPenalty
	}
	if to == model.StatusCompleted && from != model.StatusCompleted {
		delta += reward
	}
	if to == model.StatusSkipped && from != model.StatusSkipped {
		delta -= model.SkipPenalty
	}
	return delta
}

func statusVerb(status model.TaskStatus) string {
	switch status {
	case model.StatusCompleted:
		return "completed"
	case model.StatusSkipped:
		return "skipped"
	default:
		return "updated"
	}
}

func resolveDate(date string, now time.Time) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return dates.TodayKey(now), nil
	}
	if _, err := dates.ParseKey(date); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return date, nil
}

func taskIndex(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
