package schema

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/model"
)

// Normalize turns any persisted blob into a complete snapshot. Fields that are
// missing, null or of the wrong kind take their value from Default. Collection
// elements are repaired one by one and dropped only when they are not objects
// (or lack the reference they exist for). LastHydratedAt is always set to now;
// apart from that, normalizing an already normalized snapshot changes nothing.
func Normalize(raw []byte, now time.Time, newID IDFunc) model.FocusData {
	newID = orNewID(newID)
	out := Default(now, newID)

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return out
	}

	if elems, ok := array(top["weeklyPlan"]); ok {
		out.WeeklyPlan = normalizeTasks(objects[rawTask](elems), now, newID)
	}
	if logs, ok := dailyLogs(top["dailyLogs"], now); ok {
		out.DailyLogs = logs
	}
	if elems, ok := array(top["habits"]); ok {
		out.Habits = normalizeHabits(objects[rawHabit](elems), now, newID)
	}
	if elems, ok := array(top["habitLogs"]); ok {
		out.HabitLogs = habitLogs(objects[rawHabitLog](elems))
	}
	var bank number
	if err := json.Unmarshal(top["coinBank"], &bank); err == nil && bank.ok {
		out.CoinBank = max(0, bank.intOr(0))
	}
	if elems, ok := array(top["coinLedger"]); ok {
		out.CoinLedger = ledger(objects[rawLedgerEntry](elems), now, newID)
	}
	if elems, ok := array(top["rewards"]); ok {
		out.Rewards = normalizeRewards(objects[rawReward](elems), now, newID)
	}
	out.WeekMeta = dates.EnsureWeekMeta(weekMeta(top["weekMeta"]), now)
	if elems, ok := array(top["quickNotes"]); ok {
		out.QuickNotes = strs(elems)
	}
	if elems, ok := array(top["focusStatements"]); ok {
		out.FocusStatements = strs(elems)
	}
	if elems, ok := array(top["priorities"]); ok {
		out.Priorities = priorities(objects[rawPriority](elems), newID)
	}
	var f flag
	if err := json.Unmarshal(top["notificationsEnabled"], &f); err == nil {
		out.NotificationsEnabled = f.or(out.NotificationsEnabled)
	}
	f = flag{}
	if err := json.Unmarshal(top["widgetPinned"], &f); err == nil {
		out.WidgetPinned = f.or(out.WidgetPinned)
	}
	return out
}

// NormalizeTask fills task defaults: minute, hour and weekday clamped into
// range, a 60 minute duration when unset, an unknown difficulty treated as
// moderate, the coin reward taken from the difficulty table, an unknown
// category replaced by deep work, timestamps set.
func NormalizeTask(t model.Task, now time.Time) model.Task {
	t.Weekday = clamp(t.Weekday, 0, 6)
	t.Hour = clamp(t.Hour, 0, 23)
	t.Minute = clamp(t.Minute, 0, 59)
	if t.DurationMinutes <= 0 {
		t.DurationMinutes = model.DefaultDurationMinutes
	}
	if !t.Difficulty.IsValid() {
		t.Difficulty = model.DifficultyModerate
	}
	t.CoinReward, _ = t.Difficulty.Reward()
	if !t.Category.IsValid() {
		t.Category = model.CategoryDeepWork
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now.UTC()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now.UTC()
	}
	return t
}

// NormalizeHabit keeps counters non-negative and bestStreak at least streak.
func NormalizeHabit(h model.Habit, now time.Time) model.Habit {
	h.Streak = max(0, h.Streak)
	h.BestStreak = max(h.BestStreak, h.Streak)
	h.RewardPerCheck = max(0, h.RewardPerCheck)
	if h.LastCheckDate != "" {
		if _, err := dates.ParseKey(h.LastCheckDate); err != nil {
			h.LastCheckDate = ""
		}
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now.UTC()
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = now.UTC()
	}
	return h
}

// NormalizeReward assigns a missing id and floors the cost at model.MinRewardCost.
func NormalizeReward(r model.RewardItem, now time.Time, newID IDFunc) model.RewardItem {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = orNewID(newID)()
	}
	r.Cost = max(model.MinRewardCost, r.Cost)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
	return r
}

// RoundCost rounds a requested price to whole coins and applies the floor.
func RoundCost(cost float64) int {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return model.MinRewardCost
	}
	return max(model.MinRewardCost, int(math.Round(cost)))
}

func normalizeTasks(in []rawTask, now time.Time, newID IDFunc) []model.Task {
	out := make([]model.Task, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, r := range in {
		id := strings.TrimSpace(r.ID.v)
		if id == "" {
			id = newID()
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, NormalizeTask(model.Task{
			ID:              id,
			Title:           r.Title.v,
			Description:     r.Description.v,
			Weekday:         r.Weekday.intOr(0),
			Hour:            r.Hour.intOr(0),
			Minute:          r.Minute.intOr(0),
			DurationMinutes: r.DurationMinutes.intOr(0),
			Difficulty:      model.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty.v))),
			Category:        model.Category(r.Category.v),
			Color:           r.Color.v,
			Icon:            r.Icon.v,
			Notes:           r.Notes.v,
			IsPinned:        r.IsPinned.v,
			CreatedAt:       r.CreatedAt.v,
			UpdatedAt:       r.UpdatedAt.v,
		}, now))
	}
	return out
}

func dailyLogs(raw json.RawMessage, now time.Time) (map[string]model.DailyLog, bool) {
	if !isObject(raw) {
		return nil, false
	}
	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, false
	}
	out := make(map[string]model.DailyLog, len(byKey))
	for key, elem := range byKey {
		if _, err := dates.ParseKey(key); err != nil || !isObject(elem) {
			continue
		}
		var r rawDailyLog
		if err := json.Unmarshal(elem, &r); err != nil {
			continue
		}
		log := model.DailyLog{
			Date:        key,
			Tasks:       []model.TaskLog{},
			Reflection:  r.Reflection.v,
			EnergyLevel: r.EnergyLevel.v,
			FocusScore:  r.FocusScore.intPtr(),
			CreatedAt:   r.CreatedAt.or(now.UTC()),
			UpdatedAt:   r.UpdatedAt.or(now.UTC()),
		}
		elems, _ := array(r.Tasks)
		for _, entry := range objects[rawTaskLog](elems) {
			taskID := strings.TrimSpace(entry.TaskID.v)
			status := model.TaskStatus(entry.Status.v)
			if taskID == "" || !status.IsValid() {
				continue
			}
			if _, dup := log.Entry(taskID); dup {
				continue
			}
			log.Tasks = append(log.Tasks, model.TaskLog{
				TaskID:             taskID,
				Status:             status,
				StartedAt:          entry.StartedAt.ptr(),
				CompletedAt:        entry.CompletedAt.ptr(),
				Note:               entry.Note.v,
				OverrideTitle:      entry.OverrideTitle.v,
				OverrideCoinReward: entry.OverrideCoinReward.intPtr(),
				PenaltyCoins:       entry.PenaltyCoins.intPtr(),
			})
		}
		out[key] = log
	}
	return out, true
}

func normalizeHabits(in []rawHabit, now time.Time, newID IDFunc) []model.Habit {
	out := make([]model.Habit, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, r := range in {
		id := strings.TrimSpace(r.ID.v)
		if id == "" {
			id = newID()
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		streak := r.Streak.intOr(0)
		out = append(out, NormalizeHabit(model.Habit{
			ID:             id,
			Title:          r.Title.v,
			Description:    r.Description.v,
			Icon:           r.Icon.v,
			Color:          r.Color.v,
			RewardPerCheck: r.RewardPerCheck.intOr(model.DefaultHabitReward),
			Streak:         streak,
			BestStreak:     r.BestStreak.intOr(streak),
			LastCheckDate:  r.LastCheckDate.v,
			Archived:       r.Archived.v,
			CreatedAt:      r.CreatedAt.v,
			UpdatedAt:      r.UpdatedAt.v,
		}, now))
	}
	return out
}

func habitLogs(in []rawHabitLog) []model.HabitLog {
	out := make([]model.HabitLog, 0, len(in))
	seen := make(map[[2]string]bool, len(in))
	for _, r := range in {
		key := [2]string{strings.TrimSpace(r.HabitID.v), strings.TrimSpace(r.Date.v)}
		if key[0] == "" || seen[key] {
			continue
		}
		if _, err := dates.ParseKey(key[1]); err != nil {
			continue
		}
		seen[key] = true
		out = append(out, model.HabitLog{
			HabitID: key[0],
			Date:    key[1],
			Reward:  r.Reward.intOr(0),
			Note:    r.Note.v,
		})
	}
	return out
}

func ledger(in []rawLedgerEntry, now time.Time, newID IDFunc) []model.CoinLedgerEntry {
	out := make([]model.CoinLedgerEntry, 0, len(in))
	for _, r := range in {
		amount := r.Amount.intOr(0)
		kind := model.LedgerType(r.Type.v)
		if !kind.IsValid() {
			kind = model.EarnType(amount)
		}
		id := strings.TrimSpace(r.ID.v)
		if id == "" {
			id = newID()
		}
		var meta map[string]any
		if isObject(r.Meta) {
			_ = json.Unmarshal(r.Meta, &meta)
		}
		out = append(out, model.CoinLedgerEntry{
			ID:            id,
			Type:          kind,
			Label:         r.Label.v,
			Amount:        amount,
			Date:          r.Date.or(now.UTC()),
			RelatedTaskID: r.RelatedTaskID.v,
			Meta:          meta,
		})
	}
	return out
}

func normalizeRewards(in []rawReward, now time.Time, newID IDFunc) []model.RewardItem {
	out := make([]model.RewardItem, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, r := range in {
		item := NormalizeReward(model.RewardItem{
			ID:          strings.TrimSpace(r.ID.v),
			Title:       r.Title.v,
			Cost:        r.Cost.intOr(0),
			Description: r.Description.v,
			CreatedAt:   r.CreatedAt.v,
		}, now, newID)
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

func weekMeta(raw json.RawMessage) *model.WeekMeta {
	if !isObject(raw) {
		return nil
	}
	var r rawWeekMeta
	if err := json.Unmarshal(raw, &r); err != nil || !r.LastReset.ok {
		return nil
	}
	return &model.WeekMeta{
		WeekNumber: r.WeekNumber.intOr(0),
		Year:       r.Year.intOr(0),
		EditsUsed:  clamp(r.EditsUsed.intOr(0), 0, model.MaxWeeklyEdits),
		LastReset:  r.LastReset.v,
	}
}

func priorities(in []rawPriority, newID IDFunc) []model.Priority {
	out := make([]model.Priority, 0, len(in))
	for _, r := range in {
		id := strings.TrimSpace(r.ID.v)
		if id == "" {
			id = newID()
		}
		out = append(out, model.Priority{
			ID:        id,
			Title:     r.Title.v,
			DueDate:   r.DueDate.v,
			Completed: r.Completed.v,
		})
	}
	return out
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
