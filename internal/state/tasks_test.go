package state

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
)

func TestUpsertTaskCreateUsesDifficultyTable(t *testing.T) {
	f := newTestStore(t)
	task, err := f.store.UpsertTask(bg(), TaskInput{
		Title:      "Architecture review",
		Weekday:    3,
		Hour:       10,
		Difficulty: model.DifficultyDeep,
		CoinReward: intPtr(99),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.CoinReward != 30 {
		t.Fatalf("deep task must carry 30 coins, got %d", task.CoinReward)
	}
	if task.ID == "" || task.DurationMinutes != 60 || task.Minute != 0 || task.Category != model.CategoryDeepWork {
		t.Fatalf("expected defaults on create: %+v", task)
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("created task invalid: %v", err)
	}
	if got := len(f.store.Snapshot().WeeklyPlan); got != 6 {
		t.Fatalf("expected task appended, plan has %d", got)
	}
}

func TestUpsertTaskValidation(t *testing.T) {
	f := newTestStore(t)
	cases := []struct {
		in   TaskInput
		want error
	}{
		{TaskInput{Title: "  "}, ErrEmptyTitle},
		{TaskInput{Title: "x", Weekday: 7}, model.ErrInvalidWeekday},
		{TaskInput{Title: "x", Hour: 24}, model.ErrInvalidHour},
		{TaskInput{Title: "x", Difficulty: "legendary"}, model.ErrInvalidDifficulty},
		{TaskInput{Title: "x", Category: "gardening"}, model.ErrInvalidCategory},
		{TaskInput{ID: "missing", Title: "x"}, ErrTaskNotFound},
	}
	for _, tc := range cases {
		if _, err := f.store.UpsertTask(bg(), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("input %+v: expected %v, got %v", tc.in, tc.want, err)
		}
	}
	if got := len(f.store.Snapshot().WeeklyPlan); got != 5 {
		t.Fatalf("rejected inputs must not change the plan, got %d tasks", got)
	}
}

func TestUpsertTaskWeeklyQuota(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	task, err := s.UpsertTask(bg(), TaskInput{Title: "Inbox zero", Weekday: 1, Hour: 7, Difficulty: model.DifficultyLight})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 1; i <= model.MaxWeeklyEdits; i++ {
		in := InputFromTask(task)
		in.Hour = 7 + i
		if task, err = s.UpsertTask(bg(), in); err != nil {
			t.Fatalf("reschedule %d: %v", i, err)
		}
	}
	if used := s.Snapshot().WeekMeta.EditsUsed; used != 3 {
		t.Fatalf("expected 3 edits used, got %d", used)
	}

	before, _ := json.Marshal(s.Snapshot().WeeklyPlan)
	in := InputFromTask(task)
	in.Weekday = 4
	_, err = s.UpsertTask(bg(), in)
	if !errors.Is(err, ErrEditLimit) {
		t.Fatalf("expected ErrEditLimit, got %v", err)
	}
	if err.Error() != "weekly edit limit exceeded" {
		t.Fatalf("unexpected reason text: %q", err.Error())
	}
	after, _ := json.Marshal(s.Snapshot().WeeklyPlan)
	if string(before) != string(after) {
		t.Fatal("rejected reschedule must leave the plan unchanged")
	}

	in = InputFromTask(task)
	in.Title = "Inbox zero (renamed)"
	in.Minute = nil
	renamed, err := s.UpsertTask(bg(), in)
	if err != nil {
		t.Fatalf("title-only edit should succeed: %v", err)
	}
	if renamed.Title != "Inbox zero (renamed)" || renamed.Hour != 10 {
		t.Fatalf("unexpected renamed task: %+v", renamed)
	}
	if used := s.Snapshot().WeekMeta.EditsUsed; used != 3 {
		t.Fatalf("title edit must not consume quota, got %d", used)
	}

	f.clock.Set(wednesday.AddDate(0, 0, 7))
	in = InputFromTask(renamed)
	in.Weekday = 4
	if _, err := s.UpsertTask(bg(), in); err != nil {
		t.Fatalf("quota should reset next week: %v", err)
	}
	if used := s.Snapshot().WeekMeta.EditsUsed; used != 1 {
		t.Fatalf("expected 1 edit in the new week, got %d", used)
	}
}

func TestMarkTaskStatusRoundTripNetsZero(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	task := taskByTitle(t, s, "Learning Hour")

	if err := s.MarkTaskStatus(bg(), "2026-02-11", StatusInput{TaskID: task.ID, Status: model.StatusCompleted}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := s.Snapshot().CoinBank; got != 140 {
		t.Fatalf("expected reward applied, bank %d", got)
	}
	if err := s.MarkTaskStatus(bg(), "2026-02-11", StatusInput{TaskID: task.ID, Status: model.StatusPending}); err != nil {
		t.Fatalf("pending: %v", err)
	}
	data := s.Snapshot()
	if data.CoinBank != 120 {
		t.Fatalf("expected net zero, bank %d", data.CoinBank)
	}
	if data.CoinLedger[0].Amount+data.CoinLedger[1].Amount != 0 {
		t.Fatalf("ledger amounts should cancel: %+v", data.CoinLedger[:2])
	}
	first := data.CoinLedger[1]
	if first.Type != model.LedgerEarn || first.Label != "Learning Hour: completed" || first.RelatedTaskID != task.ID {
		t.Fatalf("unexpected completion entry: %+v", first)
	}
	if first.Meta["date"] != "2026-02-11" || first.Meta["status"] != "completed" {
		t.Fatalf("unexpected completion meta: %+v", first.Meta)
	}
	if data.CoinLedger[0].Type != model.LedgerPenalty {
		t.Fatalf("reversal should be typed penalty: %+v", data.CoinLedger[0])
	}
}

func TestMarkTaskStatusCompletedToSkipped(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	task := taskByTitle(t, s, "Deep Work Sprint")

	_ = s.MarkTaskStatus(bg(), "2026-02-09", StatusInput{TaskID: task.ID, Status: model.StatusCompleted})
	if err := s.MarkTaskStatus(bg(), "2026-02-09", StatusInput{TaskID: task.ID, Status: model.StatusSkipped}); err != nil {
		t.Fatalf("skip: %v", err)
	}
	data := s.Snapshot()
	if data.CoinBank != 110 {
		t.Fatalf("expected 120+30-30-10=110, got %d", data.CoinBank)
	}
	if data.CoinLedger[0].Amount != -40 || data.CoinLedger[0].Label != "Deep Work Sprint: skipped" {
		t.Fatalf("unexpected skip entry: %+v", data.CoinLedger[0])
	}
	if got := data.DailyLogs["2026-02-09"].StatusOf(task.ID); got != model.StatusSkipped {
		t.Fatalf("expected skipped, got %s", got)
	}
}

func TestMarkTaskStatusClampsPenalty(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	task := taskByTitle(t, s, "Learning Hour")
	if err := s.SpendCoins(bg(), 115, "treat"); err != nil {
		t.Fatalf("spend: %v", err)
	}

	if err := s.MarkTaskStatus(bg(), "", StatusInput{TaskID: task.ID, Status: model.StatusSkipped}); err != nil {
		t.Fatalf("skip: %v", err)
	}
	data := s.Snapshot()
	if data.CoinBank != 0 {
		t.Fatalf("bank must not go negative, got %d", data.CoinBank)
	}
	if entry := data.CoinLedger[0]; entry.Amount != -5 || entry.Type != model.LedgerPenalty {
		t.Fatalf("ledger must record the clamped amount: %+v", entry)
	}
	if _, ok := data.DailyLogs["2026-02-11"]; !ok {
		t.Fatal("empty date should resolve to today")
	}
}

func TestMarkTaskStatusNoOps(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	task := taskByTitle(t, s, "Learning Hour")
	writes := f.blobs.Writes()

	if err := s.MarkTaskStatus(bg(), "2026-02-11", StatusInput{TaskID: task.ID, Status: model.StatusPending}); err != nil {
		t.Fatalf("pending: %v", err)
	}
	if err := s.MarkTaskStatus(bg(), "2026-02-11", StatusInput{TaskID: "ghost", Status: model.StatusCompleted}); err != nil {
		t.Fatalf("unknown task: %v", err)
	}
	data := s.Snapshot()
	if len(data.DailyLogs) != 0 {
		t.Fatalf("no-op must not create a daily log: %+v", data.DailyLogs)
	}
	if f.blobs.Writes() != writes {
		t.Fatal("no-op must not persist")
	}

	if err := s.MarkTaskStatus(bg(), "11/02/2026", StatusInput{TaskID: task.ID, Status: model.StatusCompleted}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := s.MarkTaskStatus(bg(), "", StatusInput{TaskID: task.ID, Status: "done"}); !errors.Is(err, model.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestMarkTaskStatusTimestamps(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	task := taskByTitle(t, s, "Learning Hour")

	_ = s.MarkTaskStatus(bg(), "", StatusInput{TaskID: task.ID, Status: model.StatusInProgress})
	started := wednesday
	f.clock.Set(wednesday.Add(45 * time.Minute))
	_ = s.MarkTaskStatus(bg(), "", StatusInput{TaskID: task.ID, Status: model.StatusCompleted, Note: "done early"})

	entry, ok := s.Snapshot().DailyLogs["2026-02-11"].Entry(task.ID)
	if !ok {
		t.Fatal("expected log entry")
	}
	if entry.StartedAt == nil || !entry.StartedAt.Equal(started) {
		t.Fatalf("startedAt must be preserved: %v", entry.StartedAt)
	}
	if entry.CompletedAt == nil || !entry.CompletedAt.Equal(f.clock.Now()) {
		t.Fatalf("completedAt must be set on completion: %v", entry.CompletedAt)
	}
	if entry.Note != "done early" {
		t.Fatalf("unexpected note: %q", entry.Note)
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	task := taskByTitle(t, s, "Learning Hour")
	other := taskByTitle(t, s, "Deep Work Sprint")

	_ = s.MarkTaskStatus(bg(), "2026-02-04", StatusInput{TaskID: task.ID, Status: model.StatusCompleted})
	_ = s.MarkTaskStatus(bg(), "2026-02-11", StatusInput{TaskID: task.ID, Status: model.StatusSkipped})
	_ = s.MarkTaskStatus(bg(), "2026-02-11", StatusInput{TaskID: other.ID, Status: model.StatusCompleted})

	if err := s.DeleteTask(bg(), task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	data := s.Snapshot()
	if _, ok := data.Task(task.ID); ok {
		t.Fatal("task should be gone from the plan")
	}
	for key, log := range data.DailyLogs {
		if _, ok := log.Entry(task.ID); ok {
			t.Fatalf("daily log %s still references deleted task", key)
		}
	}
	if data.DailyLogs["2026-02-11"].StatusOf(other.ID) != model.StatusCompleted {
		t.Fatal("other tasks' logs must survive")
	}

	writes := f.blobs.Writes()
	if err := s.DeleteTask(bg(), task.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if f.blobs.Writes() != writes {
		t.Fatal("deleting an unknown task must not persist")
	}
}
