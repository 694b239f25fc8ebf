package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidHabit = errors.New("model: invalid habit")

// DefaultHabitReward is used when a habit carries no reward.
const DefaultHabitReward = 10

type Habit struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	Color          string    `json:"color,omitempty"`
	RewardPerCheck int       `json:"rewardPerCheck"`
	Streak         int       `json:"streak"`
	BestStreak     int       `json:"bestStreak"`
	LastCheckDate  string    `json:"lastCheckDate,omitempty"`
	Archived       bool      `json:"archived"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidHabit)
	}
	if h.RewardPerCheck < 0 {
		return fmt.Errorf("%w: reward %d is negative", ErrInvalidHabit, h.RewardPerCheck)
	}
	if h.Streak < 0 {
		return fmt.Errorf("%w: streak %d is negative", ErrInvalidHabit, h.Streak)
	}
	if h.BestStreak < h.Streak {
		return fmt.Errorf("%w: best streak %d is below streak %d", ErrInvalidHabit, h.BestStreak, h.Streak)
	}
	return nil
}

// HabitLog records one check-in; at most one exists per (HabitID, Date).
type HabitLog struct {
	HabitID string `json:"habitId"`
	Date    string `json:"date"`
	Reward  int    `json:"reward"`
	Note    string `json:"note,omitempty"`
}
