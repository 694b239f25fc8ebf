package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// The raw* types decode whatever an older or hand-edited blob contains.
// Their UnmarshalJSON methods never fail: a value of the wrong kind is
// recorded as absent and the normalizer falls back to the default.

type number struct {
	v  float64
	ok bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	*n = number{}
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.v, n.ok = v, true
	return nil
}

func (n number) intOr(def int) int {
	if !n.ok {
		return def
	}
	return int(math.Round(n.v))
}

func (n number) intPtr() *int {
	if !n.ok {
		return nil
	}
	v := int(math.Round(n.v))
	return &v
}

type text struct {
	v  string
	ok bool
}

func (t *text) UnmarshalJSON(b []byte) error {
	*t = text{}
	if len(b) == 0 || b[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	t.v, t.ok = s, true
	return nil
}

func (t text) or(def string) string {
	if !t.ok {
		return def
	}
	return t.v
}

type flag struct {
	v  bool
	ok bool
}

func (f *flag) UnmarshalJSON(b []byte) error {
	*f = flag{}
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	f.v, f.ok = v, true
	return nil
}

func (f flag) or(def bool) bool {
	if !f.ok {
		return def
	}
	return f.v
}

type stamp struct {
	v  time.Time
	ok bool
}

func (s *stamp) UnmarshalJSON(b []byte) error {
	*s = stamp{}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return nil
	}
	v, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(str))
	if err != nil {
		return nil
	}
	s.v, s.ok = v.UTC(), true
	return nil
}

func (s stamp) or(def time.Time) time.Time {
	if !s.ok {
		return def
	}
	return s.v
}

func (s stamp) ptr() *time.Time {
	if !s.ok {
		return nil
	}
	v := s.v
	return &v
}

type rawTask struct {
	ID              text   `json:"id"`
	Title           text   `json:"title"`
	Description     text   `json:"description"`
	Weekday         number `json:"weekday"`
	Hour            number `json:"hour"`
	Minute          number `json:"minute"`
	DurationMinutes number `json:"durationMinutes"`
	Difficulty      text   `json:"difficulty"`
	Category        text   `json:"category"`
	CoinReward      number `json:"coinReward"`
	Color           text   `json:"color"`
	Icon            text   `json:"icon"`
	Notes           text   `json:"notes"`
	IsPinned        flag   `json:"isPinned"`
	CreatedAt       stamp  `json:"createdAt"`
	UpdatedAt       stamp  `json:"updatedAt"`
}

type rawTaskLog struct {
	TaskID             text   `json:"taskId"`
	Status             text   `json:"status"`
	StartedAt          stamp  `json:"startedAt"`
	CompletedAt        stamp  `json:"completedAt"`
	Note               text   `json:"note"`
	OverrideTitle      text   `json:"overrideTitle"`
	OverrideCoinReward number `json:"overrideCoinReward"`
	PenaltyCoins       number `json:"penaltyCoins"`
}

type rawDailyLog struct {
	Tasks       json.RawMessage `json:"tasks"`
	Reflection  text            `json:"reflection"`
	EnergyLevel text            `json:"energyLevel"`
	FocusScore  number          `json:"focusScore"`
	CreatedAt   stamp           `json:"createdAt"`
	UpdatedAt   stamp           `json:"updatedAt"`
}

type rawHabit struct {
	ID             text   `json:"id"`
	Title          text   `json:"title"`
	Description    text   `json:"description"`
	Icon           text   `json:"icon"`
	Color          text   `json:"color"`
	RewardPerCheck number `json:"rewardPerCheck"`
	Streak         number `json:"streak"`
	BestStreak     number `json:"bestStreak"`
	LastCheckDate  text   `json:"lastCheckDate"`
	Archived       flag   `json:"archived"`
	CreatedAt      stamp  `json:"createdAt"`
	UpdatedAt      stamp  `json:"updatedAt"`
}

type rawHabitLog struct {
	HabitID text   `json:"habitId"`
	Date    text   `json:"date"`
	Reward  number `json:"reward"`
	Note    text   `json:"note"`
}

type rawLedgerEntry struct {
	ID            text            `json:"id"`
	Type          text            `json:"type"`
	Label         text            `json:"label"`
	Amount        number          `json:"amount"`
	Date          stamp           `json:"date"`
	RelatedTaskID text            `json:"relatedTaskId"`
	Meta          json.RawMessage `json:"meta"`
}

type rawReward struct {
	ID          text   `json:"id"`
	Title       text   `json:"title"`
	Cost        number `json:"cost"`
	Description text   `json:"description"`
	CreatedAt   stamp  `json:"createdAt"`
}

type rawWeekMeta struct {
	WeekNumber number `json:"weekNumber"`
	Year       number `json:"year"`
	EditsUsed  number `json:"editsUsed"`
	LastReset  stamp  `json:"lastReset"`
}

type rawPriority struct {
	ID        text `json:"id"`
	Title     text `json:"title"`
	DueDate   text `json:"dueDate"`
	Completed flag `json:"completed"`
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// array decodes raw as a JSON array; ok is false when it is absent or another kind.
func array(raw json.RawMessage) ([]json.RawMessage, bool) {
	if !present(raw) {
		return nil, false
	}
	var out []json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// objects decodes each object element of raw into T, dropping everything else.
func objects[T any](elems []json.RawMessage) []T {
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		if !isObject(elem) {
			continue
		}
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func strs(elems []json.RawMessage) []string {
	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		var t text
		_ = t.UnmarshalJSON(bytes.TrimSpace(elem))
		if t.ok {
			out = append(out, t.v)
		}
	}
	return out
}
