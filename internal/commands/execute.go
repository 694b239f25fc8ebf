package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Move   func(MoveArgs) (Result, error)
	Status func(StatusArgs) (Result, error)
	Check  func(TargetArgs) (Result, error)
	Buy    func(TargetArgs) (Result, error)
	Spend  func(CoinArgs) (Result, error)
	Earn   func(CoinArgs) (Result, error)
	Note   func(TextArgs) (Result, error)
	Unnote func(TextArgs) (Result, error)
	Reward func(RewardArgs) (Result, error)
	Habit  func(HabitArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func dispatch[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	if args == nil {
		return Result{}, invalid("%s has no arguments", t)
	}
	return fn(*args)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return dispatch(cmd.Type, handlers.Add, cmd.Add)
	case TypeMove:
		return dispatch(cmd.Type, handlers.Move, cmd.Move)
	case TypeStart, TypeDone, TypeSkip, TypeUndo:
		return dispatch(cmd.Type, handlers.Status, cmd.Status)
	case TypeCheck:
		return dispatch(cmd.Type, handlers.Check, cmd.Target)
	case TypeBuy:
		return dispatch(cmd.Type, handlers.Buy, cmd.Target)
	case TypeSpend:
		return dispatch(cmd.Type, handlers.Spend, cmd.Coins)
	case TypeEarn:
		return dispatch(cmd.Type, handlers.Earn, cmd.Coins)
	case TypeNote:
		return dispatch(cmd.Type, handlers.Note, cmd.Text)
	case TypeUnnote:
		return dispatch(cmd.Type, handlers.Unnote, cmd.Text)
	case TypeReward:
		return dispatch(cmd.Type, handlers.Reward, cmd.Reward)
	case TypeHabit:
		return dispatch(cmd.Type, handlers.Habit, cmd.Habit)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
