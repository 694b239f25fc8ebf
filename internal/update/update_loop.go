package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/logger"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/scheduler"
	"github.com/sandeepkv93/focusflow/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChangeCmd(m.changes), waitForReminderCmd(m.App.Watcher.C()))
}

func waitForChangeCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

func waitForReminderCmd(ch <-chan scheduler.Reminder) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Reminder: r}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case ":", "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			return m, nil
		case m.Keys.Habits:
			m.CurrentView = ViewHabits
			return m, nil
		case m.Keys.Shop:
			m.CurrentView = ViewShop
			return m, nil
		case m.Keys.Ledger:
			m.CurrentView = ViewLedger
			return m, nil
		case m.Keys.Coach:
			m.CurrentView = ViewCoach
			return m, nil
		case "tab":
			m.CurrentView = nextView(m.CurrentView, 1)
			return m, nil
		case "shift+tab":
			m.CurrentView = nextView(m.CurrentView, -1)
			return m, nil
		case m.Keys.Notify:
			return m.toggleNotifications(), nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			m.App.Store.Unsubscribe(m.subID)
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewToday:
			return m.handleTodayKey(typed), nil
		case ViewHabits:
			return m.handleHabitsKey(typed), nil
		case ViewShop:
			return m.handleShopKey(typed), nil
		case ViewLedger:
			m.ledgerTable, _ = m.ledgerTable.Update(typed)
			return m, nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case StoreChangedMsg:
		m.refresh()
		return m, waitForChangeCmd(m.changes)
	case ReminderDueMsg:
		m.ReminderLog = append(m.ReminderLog, typed.Reminder)
		if len(m.ReminderLog) > maxReminderLog {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-maxReminderLog:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", scheduler.ReminderTitle, typed.Reminder.Body)}
		logger.UI.Debug("reminder shown", "task", typed.Reminder.TaskID)
		return m, waitForReminderCmd(m.App.Watcher.C())
	}

	return m, nil
}

func (m Model) toggleNotifications() Model {
	enabled := !m.snapshot().NotificationsEnabled
	if err := m.App.SetNotifications(m.ctx, enabled); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if enabled {
		m.Status = StatusBar{Text: "notifications on"}
	} else {
		m.Status = StatusBar{Text: "notifications off"}
	}
	return m
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = m.renderTodayView()
		rightPane = m.renderBlockDetail()
	case ViewHabits:
		leftPane = m.renderHabitsView()
		rightPane = m.renderSidePanel()
	case ViewShop:
		leftPane = m.renderShopView()
		rightPane = m.renderSidePanel()
	case ViewLedger:
		leftPane = m.renderLedgerView()
		rightPane = m.renderSidePanel()
	case ViewCoach:
		leftPane = m.renderCoachView()
		rightPane = m.renderSidePanel()
	}
	if m.HelpVisible {
		rightPane = strings.TrimSpace(rightPane + "\n\n" + m.renderHelpView())
	}

	snap := m.snapshot()
	tabs := make([]string, 0, len(allViews))
	for _, v := range allViews {
		tabs = append(tabs, string(v))
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("focusflow | bank: %d | edits: %d/%d", snap.CoinBank, snap.WeekMeta.EditsUsed, model.MaxWeeklyEdits),
		Tabs:         tabs,
		ActiveTab:    string(m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value()),
		Footer: fmt.Sprintf("keys: %s-%s views | tab next | : cmd | %s notifications | %s help | %s quit",
			m.Keys.Today, m.Keys.Coach, m.Keys.Notify, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	for _, known := range allViews {
		if v == known {
			return true
		}
	}
	return false
}

func nextView(current View, step int) View {
	for i, v := range allViews {
		if v == current {
			n := len(allViews)
			return allViews[((i+step)%n+n)%n]
		}
	}
	return ViewToday
}
