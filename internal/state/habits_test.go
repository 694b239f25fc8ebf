package state

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/focusflow/internal/model"
)

func TestRegisterHabitCheckStreaks(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	habit := habitByTitle(t, s, "No-sugar day")

	steps := []struct {
		date         string
		streak, best int
	}{
		{"2026-02-09", 1, 1},
		{"2026-02-10", 2, 2},
		{"2026-02-13", 1, 2},
		{"2026-02-08", 1, 2},
	}
	for _, step := range steps {
		if err := s.RegisterHabitCheck(bg(), habit.ID, step.date); err != nil {
			t.Fatalf("check %s: %v", step.date, err)
		}
		got, _ := s.Snapshot().Habit(habit.ID)
		if got.Streak != step.streak || got.BestStreak != step.best {
			t.Fatalf("after %s: streak=%d best=%d, want %d/%d", step.date, got.Streak, got.BestStreak, step.streak, step.best)
		}
		if got.LastCheckDate != step.date {
			t.Fatalf("after %s: lastCheckDate=%q", step.date, got.LastCheckDate)
		}
	}

	data := s.Snapshot()
	if len(data.HabitLogs) != 4 {
		t.Fatalf("expected 4 check-ins, got %d", len(data.HabitLogs))
	}
	if data.CoinBank != 120+4*20 {
		t.Fatalf("expected 4 bonuses paid, bank %d", data.CoinBank)
	}
	entry := data.CoinLedger[0]
	if entry.Type != model.LedgerBonus || entry.Label != "No-sugar day: streak continues" || entry.Meta["habitId"] != habit.ID {
		t.Fatalf("unexpected bonus entry: %+v", entry)
	}
}

func TestRegisterHabitCheckBackdatedKeepsStreak(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	habit := habitByTitle(t, s, "No-sugar day")

	for _, date := range []string{"2026-02-09", "2026-02-10", "2026-02-11"} {
		if err := s.RegisterHabitCheck(bg(), habit.ID, date); err != nil {
			t.Fatalf("check %s: %v", date, err)
		}
	}
	got, _ := s.Snapshot().Habit(habit.ID)
	if got.Streak != 3 || got.BestStreak != 3 {
		t.Fatalf("setup: streak=%d best=%d, want 3/3", got.Streak, got.BestStreak)
	}

	if err := s.RegisterHabitCheck(bg(), habit.ID, "2026-02-07"); err != nil {
		t.Fatalf("backdated check: %v", err)
	}
	got, _ = s.Snapshot().Habit(habit.ID)
	if got.Streak != 3 || got.BestStreak != 3 {
		t.Fatalf("backdated check changed the streak: streak=%d best=%d", got.Streak, got.BestStreak)
	}
	if got.LastCheckDate != "2026-02-07" {
		t.Fatalf("lastCheckDate=%q, want the backdated key", got.LastCheckDate)
	}
	if !s.Snapshot().HabitChecked(habit.ID, "2026-02-07") {
		t.Fatal("backdated check-in was not logged")
	}
}

func TestRegisterHabitCheckSameDayIsNoOp(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	habit := habitByTitle(t, s, "Early wake-up (5:30)")

	if err := s.RegisterHabitCheck(bg(), habit.ID, ""); err != nil {
		t.Fatalf("check: %v", err)
	}
	writes := f.blobs.Writes()
	bank := s.Snapshot().CoinBank
	if err := s.RegisterHabitCheck(bg(), habit.ID, "2026-02-11"); err != nil {
		t.Fatalf("second check: %v", err)
	}
	if err := s.RegisterHabitCheck(bg(), "ghost", ""); err != nil {
		t.Fatalf("unknown habit: %v", err)
	}
	data := s.Snapshot()
	if data.CoinBank != bank || len(data.HabitLogs) != 1 || f.blobs.Writes() != writes {
		t.Fatalf("duplicate check must be a no-op: bank=%d logs=%d", data.CoinBank, len(data.HabitLogs))
	}
	if err := s.RegisterHabitCheck(bg(), habit.ID, "yesterday"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestUpsertHabit(t *testing.T) {
	f := newTestStore(t)
	s := f.store

	created, err := s.UpsertHabit(bg(), HabitInput{Title: "Read 20 pages"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.RewardPerCheck != model.DefaultHabitReward || created.Streak != 0 {
		t.Fatalf("unexpected created habit: %+v", created)
	}

	updated, err := s.UpsertHabit(bg(), HabitInput{ID: created.ID, RewardPerCheck: intPtr(25), Archived: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Read 20 pages" || updated.RewardPerCheck != 25 || !updated.Archived {
		t.Fatalf("patch should keep untouched fields: %+v", updated)
	}
	if got := len(s.Snapshot().Habits); got != 3 {
		t.Fatalf("expected 3 habits, got %d", got)
	}

	withID, err := s.UpsertHabit(bg(), HabitInput{ID: "custom", Title: "Stretch"})
	if err != nil || withID.ID != "custom" {
		t.Fatalf("unknown id should create with that id: %+v %v", withID, err)
	}
	if _, err := s.UpsertHabit(bg(), HabitInput{Title: " "}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestUpsertHabitRejectsInvalidCounters(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	habit := habitByTitle(t, s, "No-sugar day")
	writes := f.blobs.Writes()

	cases := []HabitInput{
		{ID: habit.ID, RewardPerCheck: intPtr(-5)},
		{ID: habit.ID, Streak: intPtr(-1)},
		{ID: habit.ID, Streak: intPtr(4), BestStreak: intPtr(2)},
		{Title: "Cold shower", RewardPerCheck: intPtr(-1)},
	}
	for _, in := range cases {
		if _, err := s.UpsertHabit(bg(), in); !errors.Is(err, model.ErrInvalidHabit) {
			t.Fatalf("input %+v: expected ErrInvalidHabit, got %v", in, err)
		}
	}
	if f.blobs.Writes() != writes || len(s.Snapshot().Habits) != 2 {
		t.Fatal("rejected upserts must not change the snapshot")
	}

	raised, err := s.UpsertHabit(bg(), HabitInput{ID: habit.ID, Streak: intPtr(6)})
	if err != nil {
		t.Fatalf("raise streak: %v", err)
	}
	if raised.Streak != 6 || raised.BestStreak != 6 {
		t.Fatalf("best streak should follow a raised streak: %+v", raised)
	}
}

func TestDeleteHabitPurgesLogs(t *testing.T) {
	f := newTestStore(t)
	s := f.store
	keep := habitByTitle(t, s, "No-sugar day")
	drop := habitByTitle(t, s, "Early wake-up (5:30)")

	_ = s.RegisterHabitCheck(bg(), keep.ID, "")
	_ = s.RegisterHabitCheck(bg(), drop.ID, "")
	_ = s.RegisterHabitCheck(bg(), drop.ID, "2026-02-10")

	if err := s.DeleteHabit(bg(), drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	data := s.Snapshot()
	if _, ok := data.Habit(drop.ID); ok {
		t.Fatal("habit should be removed")
	}
	if len(data.HabitLogs) != 1 || data.HabitLogs[0].HabitID != keep.ID {
		t.Fatalf("only the kept habit's logs should survive: %+v", data.HabitLogs)
	}
}

func boolPtr(v bool) *bool { return &v }
