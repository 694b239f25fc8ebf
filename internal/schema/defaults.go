// Package schema builds the seed snapshot and repairs persisted snapshots of
// any age or shape into a fully populated model.FocusData.
package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/model"
)

// StartingCoins is the balance of a fresh snapshot.
const StartingCoins = 120

// IDFunc generates entity ids.
type IDFunc func() string

// NewID is the default IDFunc.
func NewID() string {
	return uuid.NewString()
}

func orNewID(newID IDFunc) IDFunc {
	if newID == nil {
		return NewID
	}
	return newID
}

type seedTask struct {
	title, description string
	weekday, hour      int
	minute, duration   int
	difficulty         model.Difficulty
	category           model.Category
	color, icon        string
}

var seedTasks = []seedTask{
	{"Wake & Align", "Light meditation and a morning plan.", 0, 5, 0, 60, model.DifficultyLight, model.CategoryHealth, "#38bdf8", "sun"},
	{"Deep Work Sprint", "Ninety minutes on the most important project.", 0, 8, 0, 90, model.DifficultyDeep, model.CategoryDeepWork, "#647eff", "rocket"},
	{"Learning Hour", "One chapter of a course or a book.", 2, 14, 0, 60, model.DifficultyModerate, model.CategoryLearning, "#a855f7", "book-open"},
	{"Strength & Cardio", "Gym session or a run.", 4, 18, 30, 75, model.DifficultyBoss, model.CategoryHealth, "#10b981", "dumbbell"},
	{"Digital Sunset", "Thirty screen-free minutes and a journal entry.", 6, 21, 30, 60, model.DifficultyLight, model.CategoryRest, "#f97316", "moon"},
}

// Default returns the seed snapshot a first run starts from.
func Default(now time.Time, newID IDFunc) model.FocusData {
	newID = orNewID(newID)
	stampAt := now.UTC()

	plan := make([]model.Task, 0, len(seedTasks))
	for _, s := range seedTasks {
		reward, _ := s.difficulty.Reward()
		plan = append(plan, model.Task{
			ID:              newID(),
			Title:           s.title,
			Description:     s.description,
			Weekday:         s.weekday,
			Hour:            s.hour,
			Minute:          s.minute,
			DurationMinutes: s.duration,
			Difficulty:      s.difficulty,
			Category:        s.category,
			CoinReward:      reward,
			Color:           s.color,
			Icon:            s.icon,
			CreatedAt:       stampAt,
			UpdatedAt:       stampAt,
		})
	}

	habits := []model.Habit{
		{
			ID:             newID(),
			Title:          "No-sugar day",
			Description:    "Stay away from sugary food all day.",
			Icon:           "donut",
			Color:          "#f472b6",
			RewardPerCheck: 20,
			CreatedAt:      stampAt,
			UpdatedAt:      stampAt,
		},
		{
			ID:             newID(),
			Title:          "Early wake-up (5:30)",
			Icon:           "alarm",
			Color:          "#60a5fa",
			RewardPerCheck: 15,
			CreatedAt:      stampAt,
			UpdatedAt:      stampAt,
		},
	}

	rewards := []model.RewardItem{
		{ID: newID(), Title: "New Steam game", Cost: 200, Description: "Unwind with a new game.", CreatedAt: stampAt},
		{ID: newID(), Title: "Spa / massage day", Cost: 120, Description: "A full reset.", CreatedAt: stampAt},
		{ID: newID(), Title: "Premium book", Cost: 80, Description: "A small investment in knowledge.", CreatedAt: stampAt},
		{ID: newID(), Title: "Gadget upgrade", Cost: 320, Description: "That tech accessory you keep postponing.", CreatedAt: stampAt},
	}

	hydrated := stampAt
	return model.FocusData{
		WeeklyPlan: plan,
		DailyLogs:  map[string]model.DailyLog{},
		Habits:     habits,
		HabitLogs:  []model.HabitLog{},
		CoinBank:   StartingCoins,
		CoinLedger: []model.CoinLedgerEntry{{
			ID:     newID(),
			Type:   model.LedgerBonus,
			Label:  "Welcome to FocusFlow",
			Amount: StartingCoins,
			Date:   stampAt,
		}},
		Rewards:         rewards,
		WeekMeta:        dates.CurrentWeekMeta(now),
		QuickNotes:      []string{"Reminder: the plan can be rescheduled 3 times a week"},
		FocusStatements: []string{"Today's biggest task is the Deep Work Sprint"},
		Priorities: []model.Priority{
			{ID: newID(), Title: "Ship the MVP 0.3 release"},
			{ID: newID(), Title: "Sugar detox challenge"},
		},
		NotificationsEnabled: true,
		WidgetPinned:         true,
		LastHydratedAt:       &hydrated,
	}
}
