package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/focusflow/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add mon 08:00 deep Deep Work Sprint", TypeAdd},
		{"move 2 fri 18:30", TypeMove},
		{"start 1", TypeStart},
		{"DONE 1", TypeDone},
		{"skip learning", TypeSkip},
		{"undo 3", TypeUndo},
		{"check No-sugar day", TypeCheck},
		{"buy 2", TypeBuy},
		{"spend 50 coffee beans", TypeSpend},
		{"earn -5 late start", TypeEarn},
		{"note call the bank", TypeNote},
		{"unnote call the bank", TypeUnnote},
		{"reward 44.5 Cinema night", TypeReward},
		{"habit 15 Read 20 pages", TypeHabit},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddArguments(t *testing.T) {
	cmd, err := Parse("add Thursday 18:30 Boss Strength & Cardio")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := AddArgs{Weekday: 3, Hour: 18, Minute: 30, Difficulty: model.DifficultyBoss, Title: "Strength & Cardio"}
	if *cmd.Add != want {
		t.Fatalf("unexpected args: %+v", *cmd.Add)
	}
}

func TestParseStatusMapping(t *testing.T) {
	cases := map[string]model.TaskStatus{
		"start 1": model.StatusInProgress,
		"done 1":  model.StatusCompleted,
		"skip 1":  model.StatusSkipped,
		"undo 1":  model.StatusPending,
	}
	for in, want := range cases {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if cmd.Status.Status != want || cmd.Status.Target != "1" {
			t.Fatalf("parse %q = %+v", in, cmd.Status)
		}
	}
}

func TestParseStatusJoinsMultiWordTarget(t *testing.T) {
	cmd, err := Parse("skip digital sunset")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Status.Target != "digital sunset" || cmd.Status.Status != model.StatusSkipped {
		t.Fatalf("unexpected status args: %+v", cmd.Status)
	}
	cmd, err = Parse("done  Deep Work   Sprint")
	if err != nil || cmd.Status.Target != "Deep Work Sprint" {
		t.Fatalf("expected joined target, got %+v %v", cmd.Status, err)
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	cases := []string{
		"add mon 08:00 deep",
		"add someday 08:00 deep Title",
		"add mon 25:00 deep Title",
		"add mon 08:61 deep Title",
		"add mon 08:00 legendary Title",
		"move 1 fri",
		"done",
		"spend 0 nothing",
		"spend ten coffee",
		"earn 5",
		"note",
		"reward cheap Gum",
		"habit -1 Nap",
	}
	for _, in := range cases {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input, got %v", in, err)
		}
	}
}

func TestParseDayAndClock(t *testing.T) {
	days := map[string]int{"mon": 0, "Tuesday": 1, "wednes": 2, "6": 6, "SUN": 6}
	for in, want := range days {
		got, err := ParseDay(in)
		if err != nil || got != want {
			t.Fatalf("ParseDay(%q) = %d, %v", in, got, err)
		}
	}
	if _, err := ParseDay("7"); err == nil {
		t.Fatal("expected range error")
	}
	if _, err := ParseDay("mo"); err == nil {
		t.Fatal("two-letter prefixes are ambiguous enough to reject")
	}
	if h, m, err := ParseClock("9"); err != nil || h != 9 || m != 0 {
		t.Fatalf("ParseClock(9) = %d:%d, %v", h, m, err)
	}
	if DayName(4) != "fri" || DayName(9) != "?" {
		t.Fatal("unexpected day names")
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/spend 20 coffee")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Spend: func(a CoinArgs) (Result, error) {
			called = true
			if a.Amount != 20 || a.Label != "coffee" {
				t.Fatalf("unexpected args: %+v", a)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("check 1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	candidates := []Candidate{
		{ID: "t1", Title: "Deep Work Sprint"},
		{ID: "t2", Title: "Deep Reading"},
		{ID: "t3", Title: "Learning Hour"},
	}
	cases := []struct {
		target string
		want   string
		code   ErrorCode
	}{
		{"1", "t1", ""},
		{"3", "t3", ""},
		{"t2", "t2", ""},
		{"learning hour", "t3", ""},
		{"learn", "t3", ""},
		{"deep", "", ErrCodeAmbiguous},
		{"4", "", ErrCodeNotFound},
		{"0", "", ErrCodeNotFound},
		{"gym", "", ErrCodeNotFound},
		{" ", "", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		got, err := Resolve(tc.target, candidates)
		if tc.code == "" {
			if err != nil || got != tc.want {
				t.Fatalf("Resolve(%q) = %q, %v", tc.target, got, err)
			}
			continue
		}
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != tc.code {
			t.Fatalf("Resolve(%q): expected %s, got %v", tc.target, tc.code, err)
		}
	}
}
