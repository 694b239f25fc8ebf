package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/logger"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/state"
	"github.com/sandeepkv93/focusflow/internal/summary"
)

// Run parses one palette line and applies it to the store.
func (a *App) Run(ctx context.Context, input string) (commands.Result, error) {
	cmd, err := commands.Parse(input)
	if err != nil {
		return commands.Result{}, err
	}
	res, err := commands.Execute(cmd, a.Handlers(ctx))
	if err != nil {
		logger.UI.Debug("command rejected", "input", input, "error", err)
		return res, err
	}
	logger.UI.Info("command applied", "type", cmd.Type)
	return res, nil
}

// Handlers binds every palette command to the store.
func (a *App) Handlers(ctx context.Context) commands.Handlers {
	return commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			minute := args.Minute
			task, err := a.Store.UpsertTask(ctx, state.TaskInput{
				Title:      args.Title,
				Weekday:    args.Weekday,
				Hour:       args.Hour,
				Minute:     &minute,
				Difficulty: args.Difficulty,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return done("Added %q on %s at %s (+%d coins)", task.Title, commands.DayName(task.Weekday), clock(task.Hour, task.Minute), task.CoinReward)
		},
		Move: func(args commands.MoveArgs) (commands.Result, error) {
			id, err := a.resolveTask(args.Target)
			if err != nil {
				return commands.Result{}, err
			}
			task, _ := a.Store.Snapshot().Task(id)
			in := state.InputFromTask(task)
			in.Weekday, in.Hour = args.Weekday, args.Hour
			minute := args.Minute
			in.Minute = &minute
			moved, err := a.Store.UpsertTask(ctx, in)
			if err != nil {
				return commands.Result{}, err
			}
			used := a.Store.Snapshot().WeekMeta.EditsUsed
			return done("Moved %q to %s %s (%d/%d weekly edits used)", moved.Title, commands.DayName(moved.Weekday), clock(moved.Hour, moved.Minute), used, model.MaxWeeklyEdits)
		},
		Status: func(args commands.StatusArgs) (commands.Result, error) {
			id, err := a.resolveTask(args.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := a.Store.MarkTaskStatus(ctx, "", state.StatusInput{TaskID: id, Status: args.Status}); err != nil {
				return commands.Result{}, err
			}
			snap := a.Store.Snapshot()
			task, _ := snap.Task(id)
			return done("%s is %s (bank %d)", task.Title, args.Status, snap.CoinBank)
		},
		Check: func(args commands.TargetArgs) (commands.Result, error) {
			id, err := commands.Resolve(args.Target, a.habitCandidates())
			if err != nil {
				return commands.Result{}, err
			}
			if err := a.Store.RegisterHabitCheck(ctx, id, ""); err != nil {
				return commands.Result{}, err
			}
			habit, _ := a.Store.Snapshot().Habit(id)
			return done("Checked in %q (streak %d, best %d)", habit.Title, habit.Streak, habit.BestStreak)
		},
		Buy: func(args commands.TargetArgs) (commands.Result, error) {
			id, err := commands.Resolve(args.Target, a.rewardCandidates())
			if err != nil {
				return commands.Result{}, err
			}
			item, err := a.Store.BuyReward(ctx, id)
			if err != nil {
				return commands.Result{}, err
			}
			return done("Bought %q for %d coins (bank %d)", item.Title, item.Cost, a.Store.Snapshot().CoinBank)
		},
		Spend: func(args commands.CoinArgs) (commands.Result, error) {
			if err := a.Store.SpendCoins(ctx, args.Amount, args.Label); err != nil {
				return commands.Result{}, err
			}
			return done("Spent %d coins on %s (bank %d)", args.Amount, args.Label, a.Store.Snapshot().CoinBank)
		},
		Earn: func(args commands.CoinArgs) (commands.Result, error) {
			if err := a.Store.EarnCoins(ctx, args.Amount, args.Label, ""); err != nil {
				return commands.Result{}, err
			}
			return done("Bank %d", a.Store.Snapshot().CoinBank)
		},
		Note: func(args commands.TextArgs) (commands.Result, error) {
			if err := a.Store.AddQuickNote(ctx, args.Text); err != nil {
				return commands.Result{}, err
			}
			return done("Noted")
		},
		Unnote: func(args commands.TextArgs) (commands.Result, error) {
			if err := a.Store.RemoveQuickNote(ctx, args.Text); err != nil {
				return commands.Result{}, err
			}
			return done("Note removed")
		},
		Reward: func(args commands.RewardArgs) (commands.Result, error) {
			item, err := a.Store.AddReward(ctx, state.RewardInput{Title: args.Title, Cost: args.Cost})
			if err != nil {
				return commands.Result{}, err
			}
			return done("Added reward %q for %d coins", item.Title, item.Cost)
		},
		Habit: func(args commands.HabitArgs) (commands.Result, error) {
			reward := args.Reward
			habit, err := a.Store.UpsertHabit(ctx, state.HabitInput{Title: args.Title, RewardPerCheck: &reward})
			if err != nil {
				return commands.Result{}, err
			}
			return done("Added habit %q (+%d per check)", habit.Title, habit.RewardPerCheck)
		},
	}
}

// resolveTask looks target up in today's list first. Names and ids that are
// not on today's list fall back to the whole weekly plan.
func (a *App) resolveTask(target string) (string, error) {
	id, err := commands.Resolve(target, blockCandidates(a.Today()))
	if err == nil {
		return id, nil
	}
	var ce *commands.CommandError
	if _, numeric := strconv.Atoi(target); numeric == nil || !errors.As(err, &ce) || ce.Code != commands.ErrCodeNotFound {
		return "", err
	}
	plan := a.Store.Snapshot().WeeklyPlan
	candidates := make([]commands.Candidate, 0, len(plan))
	for _, t := range plan {
		candidates = append(candidates, commands.Candidate{ID: t.ID, Title: t.Title})
	}
	return commands.Resolve(target, candidates)
}

func blockCandidates(blocks []summary.Block) []commands.Candidate {
	out := make([]commands.Candidate, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, commands.Candidate{ID: b.ID, Title: b.Title})
	}
	return out
}

func (a *App) habitCandidates() []commands.Candidate {
	habits := a.Store.Snapshot().Habits
	out := make([]commands.Candidate, 0, len(habits))
	for _, h := range habits {
		out = append(out, commands.Candidate{ID: h.ID, Title: h.Title})
	}
	return out
}

func (a *App) rewardCandidates() []commands.Candidate {
	rewards := a.Store.Snapshot().Rewards
	out := make([]commands.Candidate, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, commands.Candidate{ID: r.ID, Title: r.Title})
	}
	return out
}

func done(format string, args ...any) (commands.Result, error) {
	return commands.Result{Message: fmt.Sprintf(format, args...)}, nil
}

func clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
