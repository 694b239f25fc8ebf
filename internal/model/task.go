package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDifficulty = errors.New("model: invalid task difficulty")
	ErrInvalidStatus     = errors.New("model: invalid task status")
	ErrInvalidWeekday    = errors.New("model: invalid weekday")
	ErrInvalidHour       = errors.New("model: invalid hour")
	ErrInvalidCategory   = errors.New("model: invalid task category")
)

const (
	// MaxWeeklyEdits is how many reschedules a week allows.
	MaxWeeklyEdits = 3
	// SkipPenalty is deducted when a task is marked skipped.
	SkipPenalty            = 10
	DefaultDurationMinutes = 60
)

type Difficulty string

const (
	DifficultyLight    Difficulty = "light"
	DifficultyModerate Difficulty = "moderate"
	DifficultyDeep     Difficulty = "deep"
	DifficultyBoss     Difficulty = "boss"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyLight, DifficultyModerate, DifficultyDeep, DifficultyBoss:
		return true
	default:
		return false
	}
}

// Reward returns the fixed coin reward for d and false for unknown difficulties.
func (d Difficulty) Reward() (int, bool) {
	switch d {
	case DifficultyLight:
		return 10, true
	case DifficultyModerate:
		return 20, true
	case DifficultyDeep:
		return 30, true
	case DifficultyBoss:
		return 40, true
	default:
		return 0, false
	}
}

func ParseDifficulty(input string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(input)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, input)
	}
	return d, nil
}

type Category string

const (
	CategoryDeepWork Category = "deep_work"
	CategoryShallow  Category = "shallow"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryAdmin    Category = "admin"
	CategoryRest     Category = "rest"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryDeepWork, CategoryShallow, CategoryHealth, CategoryLearning, CategoryAdmin, CategoryRest:
		return true
	default:
		return false
	}
}

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusSkipped    TaskStatus = "skipped"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	default:
		return false
	}
}

// Task is one block of the weekly template. Weekday uses Monday=0.
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Weekday         int        `json:"weekday"`
	Hour            int        `json:"hour"`
	Minute          int        `json:"minute"`
	DurationMinutes int        `json:"durationMinutes"`
	Difficulty      Difficulty `json:"difficulty"`
	Category        Category   `json:"category"`
	CoinReward      int        `json:"coinReward"`
	Color           string     `json:"color,omitempty"`
	Icon            string     `json:"icon,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	IsPinned        bool       `json:"isPinned,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if t.Weekday < 0 || t.Weekday > 6 {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, t.Weekday)
	}
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, t.Hour)
	}
	if t.DurationMinutes <= 0 {
		return errors.New("model: task duration must be positive")
	}
	if !t.Difficulty.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, t.Difficulty)
	}
	if want, _ := t.Difficulty.Reward(); t.CoinReward != want {
		return fmt.Errorf("model: coin reward %d does not match %s difficulty", t.CoinReward, t.Difficulty)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	return nil
}

// Reschedules reports whether moving from t to next changes the slot in the week.
func (t Task) Reschedules(next Task) bool {
	return t.Weekday != next.Weekday || t.Hour != next.Hour || t.Minute != next.Minute
}

type TaskLog struct {
	TaskID             string     `json:"taskId"`
	Status             TaskStatus `json:"status"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	Note               string     `json:"note,omitempty"`
	OverrideTitle      string     `json:"overrideTitle,omitempty"`
	OverrideCoinReward *int       `json:"overrideCoinReward,omitempty"`
	PenaltyCoins       *int       `json:"penaltyCoins,omitempty"`
}

// DailyLog is keyed by its YYYY-MM-DD date and created on the first status change of that day.
type DailyLog struct {
	Date        string    `json:"date"`
	Tasks       []TaskLog `json:"tasks"`
	Reflection  string    `json:"reflection,omitempty"`
	EnergyLevel string    `json:"energyLevel,omitempty"`
	FocusScore  *int      `json:"focusScore,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StatusOf returns the recorded status of taskID, pending when nothing was recorded.
func (l DailyLog) StatusOf(taskID string) TaskStatus {
	if i := l.indexOf(taskID); i >= 0 {
		return l.Tasks[i].Status
	}
	return StatusPending
}

// Entry returns the log entry for taskID.
func (l DailyLog) Entry(taskID string) (TaskLog, bool) {
	if i := l.indexOf(taskID); i >= 0 {
		return l.Tasks[i], true
	}
	return TaskLog{}, false
}

func (l DailyLog) indexOf(taskID string) int {
	for i, entry := range l.Tasks {
		if entry.TaskID == taskID {
			return i
		}
	}
	return -1
}

// Put replaces the entry for entry.TaskID or appends it.
func (l *DailyLog) Put(entry TaskLog) {
	if i := l.indexOf(entry.TaskID); i >= 0 {
		l.Tasks[i] = entry
		return
	}
	l.Tasks = append(l.Tasks, entry)
}

// Drop removes every entry referencing taskID and reports whether any was removed.
func (l *DailyLog) Drop(taskID string) bool {
	kept := l.Tasks[:0]
	for _, entry := range l.Tasks {
		if entry.TaskID != taskID {
			kept = append(kept, entry)
		}
	}
	removed := len(kept) != len(l.Tasks)
	l.Tasks = kept
	return removed
}
