package model

import (
	"maps"
	"slices"
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
)

type WeekMeta = dates.WeekMeta

type Priority struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DueDate   string `json:"dueDate,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// FocusData is the whole persisted snapshot.
type FocusData struct {
	WeeklyPlan           []Task              `json:"weeklyPlan"`
	DailyLogs            map[string]DailyLog `json:"dailyLogs"`
	Habits               []Habit             `json:"habits"`
	HabitLogs            []HabitLog          `json:"habitLogs"`
	CoinBank             int                 `json:"coinBank"`
	CoinLedger           []CoinLedgerEntry   `json:"coinLedger"`
	Rewards              []RewardItem        `json:"rewards"`
	WeekMeta             WeekMeta            `json:"weekMeta"`
	QuickNotes           []string            `json:"quickNotes"`
	FocusStatements      []string            `json:"focusStatements"`
	Priorities           []Priority          `json:"priorities"`
	NotificationsEnabled bool                `json:"notificationsEnabled"`
	WidgetPinned         bool                `json:"widgetPinned"`
	LastHydratedAt       *time.Time          `json:"lastHydratedAt,omitempty"`
}

func (d FocusData) Task(id string) (Task, bool) {
	for _, t := range d.WeeklyPlan {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func (d FocusData) Habit(id string) (Habit, bool) {
	for _, h := range d.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

func (d FocusData) Reward(id string) (RewardItem, bool) {
	for _, r := range d.Rewards {
		if r.ID == id {
			return r, true
		}
	}
	return RewardItem{}, false
}

// TasksOn returns the template tasks scheduled on the given ISO weekday, in plan order.
func (d FocusData) TasksOn(weekday int) []Task {
	out := make([]Task, 0)
	for _, t := range d.WeeklyPlan {
		if t.Weekday == weekday {
			out = append(out, t)
		}
	}
	return out
}

// HabitChecked reports whether habitID already has a log for date.
func (d FocusData) HabitChecked(habitID, date string) bool {
	for _, l := range d.HabitLogs {
		if l.HabitID == habitID && l.Date == date {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no mutable state with d.
func (d FocusData) Clone() FocusData {
	out := d
	out.WeeklyPlan = slices.Clone(d.WeeklyPlan)
	out.Habits = slices.Clone(d.Habits)
	out.HabitLogs = slices.Clone(d.HabitLogs)
	out.Rewards = slices.Clone(d.Rewards)
	out.QuickNotes = slices.Clone(d.QuickNotes)
	out.FocusStatements = slices.Clone(d.FocusStatements)
	out.Priorities = slices.Clone(d.Priorities)
	if d.DailyLogs != nil {
		out.DailyLogs = make(map[string]DailyLog, len(d.DailyLogs))
		for key, log := range d.DailyLogs {
			log.Tasks = slices.Clone(log.Tasks)
			out.DailyLogs[key] = log
		}
	}
	if d.CoinLedger != nil {
		out.CoinLedger = make([]CoinLedgerEntry, len(d.CoinLedger))
		for i, entry := range d.CoinLedger {
			entry.Meta = maps.Clone(entry.Meta)
			out.CoinLedger[i] = entry
		}
	}
	if d.LastHydratedAt != nil {
		ts := *d.LastHydratedAt
		out.LastHydratedAt = &ts
	}
	return out
}
