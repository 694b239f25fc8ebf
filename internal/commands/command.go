package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sandeepkv93/focusflow/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeMove   Type = "move"
	TypeStart  Type = "start"
	TypeDone   Type = "done"
	TypeSkip   Type = "skip"
	TypeUndo   Type = "undo"
	TypeCheck  Type = "check"
	TypeBuy    Type = "buy"
	TypeSpend  Type = "spend"
	TypeEarn   Type = "earn"
	TypeNote   Type = "note"
	TypeUnnote Type = "unnote"
	TypeReward Type = "reward"
	TypeHabit  Type = "habit"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeNotFound        ErrorCode = "not_found"
	ErrCodeAmbiguous       ErrorCode = "ambiguous_target"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Usage lists the palette grammar, one command per line.
var Usage = []string{
	"add <day> <HH:MM> <difficulty> <title>",
	"move <task> <day> <HH:MM>",
	"start|done|skip|undo <task>",
	"check <habit>",
	"buy <reward>",
	"spend <amount> <label>",
	"earn <amount> <label>",
	"note <text>",
	"unnote <text>",
	"reward <cost> <title>",
	"habit <reward> <title>",
}

type AddArgs struct {
	Weekday    int
	Hour       int
	Minute     int
	Difficulty model.Difficulty
	Title      string
}

type MoveArgs struct {
	Target  string
	Weekday int
	Hour    int
	Minute  int
}

type StatusArgs struct {
	Target string
	Status model.TaskStatus
}

type TargetArgs struct {
	Target string
}

type CoinArgs struct {
	Amount int
	Label  string
}

type TextArgs struct {
	Text string
}

type RewardArgs struct {
	Cost  float64
	Title string
}

type HabitArgs struct {
	Reward int
	Title  string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Move   *MoveArgs
	Status *StatusArgs
	Target *TargetArgs
	Coins  *CoinArgs
	Text   *TextArgs
	Reward *RewardArgs
	Habit  *HabitArgs
}

var statusByType = map[Type]model.TaskStatus{
	TypeStart: model.StatusInProgress,
	TypeDone:  model.StatusCompleted,
	TypeSkip:  model.StatusSkipped,
	TypeUndo:  model.StatusPending,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := Type(strings.ToLower(parts[0]))
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeStart, TypeDone, TypeSkip, TypeUndo:
		if len(args) == 0 {
			return Command{}, invalid("%s requires a task", head)
		}
		return Command{Type: head, Raw: input, Status: &StatusArgs{Target: strings.Join(args, " "), Status: statusByType[head]}}, nil
	case TypeCheck, TypeBuy:
		if len(args) == 0 {
			return Command{}, invalid("%s requires a target", head)
		}
		return Command{Type: head, Raw: input, Target: &TargetArgs{Target: strings.Join(args, " ")}}, nil
	case TypeSpend, TypeEarn:
		return parseCoins(input, head, args)
	case TypeNote, TypeUnnote:
		text := strings.Join(args, " ")
		if text == "" {
			return Command{}, invalid("%s requires text", head)
		}
		return Command{Type: head, Raw: input, Text: &TextArgs{Text: text}}, nil
	case TypeReward:
		return parseReward(input, args)
	case TypeHabit:
		return parseHabit(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 4 {
		return Command{}, invalid("add requires day, time, difficulty and title")
	}
	weekday, err := ParseDay(args[0])
	if err != nil {
		return Command{}, err
	}
	hour, minute, err := ParseClock(args[1])
	if err != nil {
		return Command{}, err
	}
	difficulty, err := model.ParseDifficulty(args[2])
	if err != nil {
		return Command{}, invalid("unknown difficulty %q", args[2])
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{
		Weekday:    weekday,
		Hour:       hour,
		Minute:     minute,
		Difficulty: difficulty,
		Title:      strings.Join(args[3:], " "),
	}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 3 {
		return Command{}, invalid("move requires task, day and time")
	}
	weekday, err := ParseDay(args[1])
	if err != nil {
		return Command{}, err
	}
	hour, minute, err := ParseClock(args[2])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Target: args[0], Weekday: weekday, Hour: hour, Minute: minute}}, nil
}

func parseCoins(raw string, head Type, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("%s requires amount and label", head)
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, invalid("amount %q is not a whole number", args[0])
	}
	if head == TypeSpend && amount <= 0 {
		return Command{}, invalid("amount must be positive")
	}
	return Command{Type: head, Raw: raw, Coins: &CoinArgs{Amount: amount, Label: strings.Join(args[1:], " ")}}, nil
}

func parseReward(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("reward requires cost and title")
	}
	cost, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return Command{}, invalid("cost %q is not a number", args[0])
	}
	return Command{Type: TypeReward, Raw: raw, Reward: &RewardArgs{Cost: cost, Title: strings.Join(args[1:], " ")}}, nil
}

func parseHabit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("habit requires reward and title")
	}
	reward, err := strconv.Atoi(args[0])
	if err != nil || reward < 0 {
		return Command{}, invalid("reward %q is not a non-negative whole number", args[0])
	}
	return Command{Type: TypeHabit, Raw: raw, Habit: &HabitArgs{Reward: reward, Title: strings.Join(args[1:], " ")}}, nil
}

var dayNames = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// ParseDay accepts a weekday name or prefix of at least three letters, or
// 0-6 with Monday as 0.
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, invalid("day %d out of range 0-6", n)
		}
		return n, nil
	}
	if len(s) >= 3 {
		for i, name := range dayNames {
			if strings.HasPrefix(s, name) {
				return i, nil
			}
		}
	}
	return 0, invalid("unknown day %q", s)
}

// DayName is the short name of an ISO weekday.
func DayName(weekday int) string {
	if weekday < 0 || weekday >= len(dayNames) {
		return "?"
	}
	return dayNames[weekday]
}

// ParseClock parses HH:MM or a bare hour.
func ParseClock(s string) (int, int, error) {
	hourPart, minutePart, hasMinute := strings.Cut(strings.TrimSpace(s), ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, invalid("invalid time %q", s)
	}
	minute := 0
	if hasMinute {
		minute, err = strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, invalid("invalid time %q", s)
		}
	}
	return hour, minute, nil
}
