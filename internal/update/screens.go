package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/state"
	"github.com/sandeepkv93/focusflow/internal/views"
)

const upcomingPreview = 3

func (m Model) handleTodayKey(msg tea.KeyMsg) Model {
	var status model.TaskStatus
	switch msg.String() {
	case "enter", "c":
		status = model.StatusCompleted
	case "s":
		status = model.StatusSkipped
	case "u":
		status = model.StatusPending
	default:
		m.todayTable, _ = m.todayTable.Update(msg)
		return m
	}
	block, ok := m.selectedBlock()
	if !ok {
		m.Status = StatusBar{Text: "no block selected", IsError: true}
		return m
	}
	if err := m.App.Store.MarkTaskStatus(m.ctx, "", state.StatusInput{TaskID: block.ID, Status: status}); err != nil {
		return m.fail(err)
	}
	m.refresh()
	m.Status = StatusBar{Text: fmt.Sprintf("%s is %s (bank %d)", block.Title, status, m.snapshot().CoinBank)}
	return m
}

func (m Model) handleHabitsKey(msg tea.KeyMsg) Model {
	if msg.String() != "enter" && msg.String() != "c" {
		m.habitTable, _ = m.habitTable.Update(msg)
		return m
	}
	id, ok := m.selectedHabit()
	if !ok {
		m.Status = StatusBar{Text: "no habit selected", IsError: true}
		return m
	}
	if err := m.App.Store.RegisterHabitCheck(m.ctx, id, ""); err != nil {
		return m.fail(err)
	}
	m.refresh()
	habit, _ := m.snapshot().Habit(id)
	m.Status = StatusBar{Text: fmt.Sprintf("checked in %q (streak %d)", habit.Title, habit.Streak)}
	return m
}

func (m Model) handleShopKey(msg tea.KeyMsg) Model {
	if msg.String() != "enter" && msg.String() != "b" {
		m.shopTable, _ = m.shopTable.Update(msg)
		return m
	}
	id, ok := m.selectedReward()
	if !ok {
		m.Status = StatusBar{Text: "no reward selected", IsError: true}
		return m
	}
	item, err := m.App.Store.BuyReward(m.ctx, id)
	if err != nil {
		return m.fail(err)
	}
	m.refresh()
	m.Status = StatusBar{Text: fmt.Sprintf("bought %s; bank %d", item, m.snapshot().CoinBank)}
	return m
}

func (m Model) fail(err error) Model {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	return m
}

func (m Model) renderTodayView() string {
	res := m.App.Summary()
	completed, total, earned := 0, len(m.blocks), 0
	if res.Stats != nil {
		completed, earned = res.Stats.Completed, res.Stats.Earned
	}
	progress := 0.0
	if total > 0 {
		progress = float64(completed) / float64(total)
	}
	return views.RenderTodayPanel(views.TodayPanelData{
		Date:         m.App.Now().Format("Monday, Jan 2"),
		TableView:    m.todayTable.View(),
		ProgressView: m.dayProgress.ViewAs(progress),
		Completed:    completed,
		Total:        total,
		Earned:       earned,
	})
}

func (m Model) renderBlockDetail() string {
	block, ok := m.selectedBlock()
	if !ok {
		return views.RenderBlockDetail(nil)
	}
	detail := &views.BlockDetailData{
		Title:      block.Title,
		Window:     fmt.Sprintf("%s-%s", block.Start.Format("15:04"), block.End.Format("15:04")),
		Difficulty: string(block.Difficulty),
		Reward:     block.Reward,
		Status:     string(block.Status),
	}
	if task, found := m.snapshot().Task(block.ID); found {
		for _, at := range task.Preview(block.End, upcomingPreview) {
			detail.Upcoming = append(detail.Upcoming, at.Format("Mon Jan 2 15:04"))
		}
	}
	return views.RenderBlockDetail(detail)
}

func (m Model) renderHabitsView() string {
	checked := 0
	for _, row := range m.habitTable.Rows() {
		if row[3] != "" {
			checked++
		}
	}
	return views.RenderHabitsPanel(views.HabitsPanelData{
		TableView:    m.habitTable.View(),
		CheckedToday: checked,
		Total:        len(m.habitIDs),
	})
}

func (m Model) renderShopView() string {
	return views.RenderShopPanel(views.ShopPanelData{
		TableView: m.shopTable.View(),
		Bank:      m.snapshot().CoinBank,
	})
}

func (m Model) renderLedgerView() string {
	earned, spent := 0, 0
	for _, e := range m.snapshot().CoinLedger {
		if e.Amount >= 0 {
			earned += e.Amount
		} else {
			spent -= e.Amount
		}
	}
	return views.RenderLedgerPanel(views.LedgerPanelData{
		TableView: m.ledgerTable.View(),
		Earned:    earned,
		Spent:     spent,
	})
}

func (m Model) renderCoachView() string {
	return views.RenderCoachPanel(views.CoachPanelData{Report: m.App.Summary().Report})
}

func (m Model) renderSidePanel() string {
	snap := m.snapshot()
	reminders := make([]string, 0, len(m.ReminderLog))
	for i := len(m.ReminderLog) - 1; i >= 0 && len(reminders) < upcomingPreview; i-- {
		reminders = append(reminders, m.ReminderLog[i].Body)
	}
	return views.RenderSidePanel(views.SidePanelData{
		Notes:                snap.QuickNotes,
		NotificationsEnabled: snap.NotificationsEnabled,
		EditsUsed:            snap.WeekMeta.EditsUsed,
		EditsMax:             model.MaxWeeklyEdits,
		Reminders:            reminders,
	})
}
