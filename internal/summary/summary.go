// Package summary derives the daily coach report from a snapshot. Summarize
// is pure: the same snapshot and the same now always give the same result.
package summary

import (
	"cmp"
	"slices"
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/model"
)

const (
	maxHighlights      = 3
	maxHabitHighlights = 3
)

// Block is one template task placed on today's calendar.
type Block struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Reward     int              `json:"reward"`
	Difficulty model.Difficulty `json:"difficulty"`
	Status     model.TaskStatus `json:"status"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
}

type Stats struct {
	Completed     int     `json:"completed"`
	Pending       int     `json:"pending"`
	Skipped       int     `json:"skipped"`
	Earned        int     `json:"earned"`
	Spent         int     `json:"spent"`
	HabitsChecked int     `json:"habitsChecked"`
	Progress      float64 `json:"progress"`

	Total      int    `json:"total"`
	Overdue    int    `json:"overdue"`
	Upcoming   int    `json:"upcoming"`
	NextAction *Block `json:"nextAction,omitempty"`
}

// Result is the report text (Markdown) and its figures. Stats is nil when
// there was no snapshot.
type Result struct {
	Report string `json:"report"`
	Stats  *Stats `json:"stats"`
}

// Today lists the template tasks of now's weekday merged with today's log,
// ordered by start time.
func Today(d *model.FocusData, now time.Time) []Block {
	if d == nil {
		return []Block{}
	}
	log := d.DailyLogs[dates.TodayKey(now)]
	tasks := d.TasksOn(dates.WeekdayOf(now))
	out := make([]Block, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Block{
			ID:         t.ID,
			Title:      t.Title,
			Reward:     t.CoinReward,
			Difficulty: t.Difficulty,
			Status:     log.StatusOf(t.ID),
			Start:      t.StartOn(now),
			End:        t.EndOn(now),
		})
	}
	slices.SortStableFunc(out, func(a, b Block) int { return a.Start.Compare(b.Start) })
	return out
}

// day holds everything the advice rules and the report read.
type day struct {
	now    time.Time
	blocks []Block

	completed  []Block
	skipped    []Block
	inProgress []Block
	overdue    []Block
	upcoming   []Block

	earned, spent int
	habitChecks   int
	habitTitles   []string
	topStreak     *model.Habit
	next          *Block
}

func (d day) total() int { return len(d.blocks) }

func (d day) progress() float64 {
	if d.total() == 0 {
		return 0
	}
	return float64(len(d.completed)) / float64(d.total())
}

func (d day) delta() int { return d.earned - d.spent }

// Summarize builds the report for the calendar day of now.
func Summarize(snapshot *model.FocusData, now time.Time) Result {
	if snapshot == nil {
		return Result{}
	}
	facts := collect(snapshot, now)
	stats := &Stats{
		Completed:     len(facts.completed),
		Pending:       max(facts.total()-len(facts.completed)-len(facts.skipped), 0),
		Skipped:       len(facts.skipped),
		Earned:        facts.earned,
		Spent:         facts.spent,
		HabitsChecked: facts.habitChecks,
		Progress:      facts.progress(),
		Total:         facts.total(),
		Overdue:       len(facts.overdue),
		Upcoming:      len(facts.upcoming),
		NextAction:    facts.next,
	}
	return Result{Report: render(facts, advise(facts)), Stats: stats}
}

func collect(d *model.FocusData, now time.Time) day {
	facts := day{now: now, blocks: Today(d, now)}
	for _, b := range facts.blocks {
		switch b.Status {
		case model.StatusCompleted:
			facts.completed = append(facts.completed, b)
		case model.StatusSkipped:
			facts.skipped = append(facts.skipped, b)
		case model.StatusInProgress:
			facts.inProgress = append(facts.inProgress, b)
		}
		if b.Status == model.StatusCompleted {
			continue
		}
		if b.End.Before(now) {
			facts.overdue = append(facts.overdue, b)
		}
		if b.Start.After(now) {
			facts.upcoming = append(facts.upcoming, b)
		}
	}
	slices.SortStableFunc(facts.overdue, func(a, b Block) int { return a.End.Compare(b.End) })
	slices.SortStableFunc(facts.completed, func(a, b Block) int { return cmp.Compare(b.Reward, a.Reward) })

	for _, entry := range d.CoinLedger {
		if entry.Date.IsZero() || !dates.SameDay(entry.Date, now, now.Location()) {
			continue
		}
		switch {
		case entry.Amount > 0:
			facts.earned += entry.Amount
		case entry.Amount < 0:
			facts.spent -= entry.Amount
		}
	}

	key := dates.TodayKey(now)
	checked := make(map[string]bool)
	for _, l := range d.HabitLogs {
		if l.Date == key {
			facts.habitChecks++
			checked[l.HabitID] = true
		}
	}
	for i, h := range d.Habits {
		if checked[h.ID] && len(facts.habitTitles) < maxHabitHighlights {
			facts.habitTitles = append(facts.habitTitles, h.Title)
		}
		if facts.topStreak == nil || h.BestStreak > facts.topStreak.BestStreak {
			facts.topStreak = &d.Habits[i]
		}
	}

	switch {
	case len(facts.inProgress) > 0:
		facts.next = &facts.inProgress[0]
	case len(facts.overdue) > 0:
		facts.next = &facts.overdue[0]
	case len(facts.upcoming) > 0:
		facts.next = &facts.upcoming[0]
	}
	return facts
}
