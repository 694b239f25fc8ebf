// Package update is the bubbletea program: one Model over an *app.App,
// refreshed whenever the store changes or the watcher fires a reminder.
package update

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/focusflow/internal/app"
	"github.com/sandeepkv93/focusflow/internal/dates"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/scheduler"
	"github.com/sandeepkv93/focusflow/internal/summary"
)

type View string

const (
	ViewToday  View = "Today"
	ViewHabits View = "Habits"
	ViewShop   View = "Shop"
	ViewLedger View = "Ledger"
	ViewCoach  View = "Coach"
)

var allViews = []View{ViewToday, ViewHabits, ViewShop, ViewLedger, ViewCoach}

const (
	maxReminderLog = 20
	ledgerRows     = 50
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today  string
	Habits string
	Shop   string
	Ledger string
	Coach  string
	Notify string
	Help   string
	Quit   string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	App         *app.App
	CurrentView View
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	ReminderLog []scheduler.Reminder

	ctx     context.Context
	subID   int
	changes <-chan struct{}

	blocks    []summary.Block
	habitIDs  []string
	rewardIDs []string

	todayTable   table.Model
	habitTable   table.Model
	shopTable    table.Model
	ledgerTable  table.Model
	commandInput textinput.Model
	dayProgress  progress.Model
	helpModel    help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// StoreChangedMsg arrives after any change to the snapshot.
type StoreChangedMsg struct{}

type ReminderDueMsg struct {
	Reminder scheduler.Reminder
}

// NewModel subscribes to a's store. The subscription is dropped when the
// program quits.
func NewModel(ctx context.Context, a *app.App) Model {
	m := Model{
		App:         a,
		CurrentView: ViewToday,
		ctx:         ctx,
		Keys: GlobalKeyMap{
			Today:  "1",
			Habits: "2",
			Shop:   "3",
			Ledger: "4",
			Coach:  "5",
			Notify: "N",
			Help:   "?",
			Quit:   "q",
		},
	}
	m.subID, m.changes = a.Store.Subscribe()
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m *Model) initBubbleComponents() {
	m.todayTable = table.New(table.WithColumns([]table.Column{
		{Title: "#", Width: 3},
		{Title: "Time", Width: 13},
		{Title: "Title", Width: 22},
		{Title: "Status", Width: 10},
	}), table.WithFocused(true), table.WithHeight(8))

	m.habitTable = table.New(table.WithColumns([]table.Column{
		{Title: "Habit", Width: 24},
		{Title: "Streak", Width: 7},
		{Title: "Best", Width: 5},
		{Title: "Today", Width: 6},
	}), table.WithFocused(true), table.WithHeight(8))

	m.shopTable = table.New(table.WithColumns([]table.Column{
		{Title: "Reward", Width: 26},
		{Title: "Cost", Width: 6},
		{Title: "", Width: 12},
	}), table.WithFocused(true), table.WithHeight(8))

	m.ledgerTable = table.New(table.WithColumns([]table.Column{
		{Title: "When", Width: 11},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 7},
		{Title: "Label", Width: 20},
	}), table.WithFocused(true), table.WithHeight(12))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.dayProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))
	m.helpModel = help.New()
}

// refresh rebuilds every table from the current snapshot, keeping cursors in
// range.
func (m *Model) refresh() {
	snap := m.App.Store.Snapshot()
	now := m.App.Now()
	today := dates.TodayKey(now)

	m.blocks = summary.Today(&snap, now)
	rows := make([]table.Row, 0, len(m.blocks))
	for i, b := range m.blocks {
		window := fmt.Sprintf("%s-%s", b.Start.Format("15:04"), b.End.Format("15:04"))
		rows = append(rows, table.Row{fmt.Sprint(i + 1), window, b.Title, string(b.Status)})
	}
	setRows(&m.todayTable, rows)

	m.habitIDs = make([]string, 0, len(snap.Habits))
	rows = make([]table.Row, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		if h.Archived {
			continue
		}
		mark := ""
		if snap.HabitChecked(h.ID, today) {
			mark = "done"
		}
		m.habitIDs = append(m.habitIDs, h.ID)
		rows = append(rows, table.Row{h.Title, fmt.Sprint(h.Streak), fmt.Sprint(h.BestStreak), mark})
	}
	setRows(&m.habitTable, rows)

	m.rewardIDs = make([]string, 0, len(snap.Rewards))
	rows = make([]table.Row, 0, len(snap.Rewards))
	for _, r := range snap.Rewards {
		note := ""
		if r.Cost > snap.CoinBank {
			note = fmt.Sprintf("need %d", r.Cost-snap.CoinBank)
		}
		m.rewardIDs = append(m.rewardIDs, r.ID)
		rows = append(rows, table.Row{r.Title, fmt.Sprint(r.Cost), note})
	}
	setRows(&m.shopTable, rows)

	entries := snap.CoinLedger
	if len(entries) > ledgerRows {
		entries = entries[:ledgerRows]
	}
	rows = make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			e.Date.In(now.Location()).Format("Jan 2 15:04"),
			string(e.Type),
			fmt.Sprintf("%+d", e.Amount),
			e.Label,
		})
	}
	setRows(&m.ledgerTable, rows)
}

func setRows(t *table.Model, rows []table.Row) {
	t.SetRows(rows)
	if c := t.Cursor(); c >= len(rows) && len(rows) > 0 {
		t.SetCursor(len(rows) - 1)
	}
}

func (m Model) selectedBlock() (summary.Block, bool) {
	c := m.todayTable.Cursor()
	if c < 0 || c >= len(m.blocks) {
		return summary.Block{}, false
	}
	return m.blocks[c], true
}

func (m Model) selectedHabit() (string, bool) {
	c := m.habitTable.Cursor()
	if c < 0 || c >= len(m.habitIDs) {
		return "", false
	}
	return m.habitIDs[c], true
}

func (m Model) selectedReward() (string, bool) {
	c := m.shopTable.Cursor()
	if c < 0 || c >= len(m.rewardIDs) {
		return "", false
	}
	return m.rewardIDs[c], true
}

func (m Model) snapshot() model.FocusData {
	return m.App.Store.Snapshot()
}
