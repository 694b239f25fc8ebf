package views

import (
	"fmt"
	"strings"
)

type TodayPanelData struct {
	Date         string
	TableView    string
	ProgressView string
	Completed    int
	Total        int
	Earned       int
}

type BlockDetailData struct {
	Title      string
	Window     string
	Difficulty string
	Reward     int
	Status     string
	Upcoming   []string
}

type HabitsPanelData struct {
	TableView    string
	CheckedToday int
	Total        int
}

type ShopPanelData struct {
	TableView string
	Bank      int
}

type LedgerPanelData struct {
	TableView string
	Earned    int
	Spent     int
}

type CoachPanelData struct {
	Report string
}

type SidePanelData struct {
	Notes                []string
	NotificationsEnabled bool
	EditsUsed            int
	EditsMax             int
	Reminders            []string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("today: %s\n", data.Date))
	b.WriteString("actions: [enter]done [s]skip [u]undo [j/k]move\n")
	b.WriteString(data.TableView + "\n")
	if data.Total == 0 {
		b.WriteString("\nno blocks planned for today")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("\nprogress: %s %d/%d\n", data.ProgressView, data.Completed, data.Total))
	b.WriteString(fmt.Sprintf("earned today: %d", data.Earned))
	return strings.TrimSpace(b.String())
}

func RenderBlockDetail(data *BlockDetailData) string {
	if data == nil {
		return "block:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("block:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("when: %s\n", data.Window))
	b.WriteString(fmt.Sprintf("difficulty: %s (+%d)\n", data.Difficulty, data.Reward))
	b.WriteString(fmt.Sprintf("status: %s\n", strings.ToUpper(data.Status)))
	if len(data.Upcoming) > 0 {
		b.WriteString("next:\n")
		for _, at := range data.Upcoming {
			b.WriteString("- " + at + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderHabitsPanel(data HabitsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("habits: %d/%d checked today\n", data.CheckedToday, data.Total))
	b.WriteString("actions: [enter]check in [j/k]move\n")
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderShopPanel(data ShopPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("shop: bank %d\n", data.Bank))
	b.WriteString("actions: [enter]buy [j/k]move\n")
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderLedgerPanel(data LedgerPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("ledger: +%d / -%d\n", data.Earned, data.Spent))
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderCoachPanel(data CoachPanelData) string {
	report := RenderMarkdown(data.Report)
	if report == "" {
		return "coach:\n(nothing to report yet)"
	}
	return "coach:\n" + report
}

func RenderSidePanel(data SidePanelData) string {
	var b strings.Builder
	state := "off"
	if data.NotificationsEnabled {
		state = "on"
	}
	b.WriteString(fmt.Sprintf("notifications: %s\n", state))
	b.WriteString(fmt.Sprintf("weekly edits: %d/%d\n", data.EditsUsed, data.EditsMax))
	b.WriteString("\nnotes:\n")
	if len(data.Notes) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, note := range data.Notes {
		b.WriteString("- " + note + "\n")
	}
	if len(data.Reminders) > 0 {
		b.WriteString("\nreminders:\n")
		for _, r := range data.Reminders {
			b.WriteString("- " + r + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: :%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
