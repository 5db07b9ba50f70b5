package views

import (
	"fmt"
	"strings"
)

type HabitItemData struct {
	ID            int64
	Name          string
	ReminderTimes string
	ReminderDays  string
	DoneToday     bool
}

type HabitPanelData struct {
	QuickAddView string
	ListView     string
}

type StatsItemData struct {
	Name           string
	CompletedCount int
	CompletionRate *int
	CurrentStreak  int
	BestStreak     int
	OverCompleted  int
}

type StatsPanelData struct {
	Items []StatsItemData
}

type QuotePanelData struct {
	Text     string
	Author   string
	Loading  bool
	SpinView string
}

type ReminderPanelData struct {
	Armed int
	Last  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderHabitPanel(data HabitPanelData) string {
	var b strings.Builder
	b.WriteString("habits:\n")
	b.WriteString(data.QuickAddView + "\n")
	b.WriteString("actions: [enter]add [space]toggle done [d]delete [r]toggle reminder\n")
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("stats:\n")
	if len(data.Items) == 0 {
		b.WriteString("(no habits)\n")
		return strings.TrimSpace(b.String())
	}
	for _, item := range data.Items {
		rate := "n/a"
		if item.CompletionRate != nil {
			rate = fmt.Sprintf("%d%%", *item.CompletionRate)
		}
		line := fmt.Sprintf("%s  done=%d  rate=%s  %s",
			item.Name, item.CompletedCount, rate,
			streakStyle.Render(fmt.Sprintf("streak %d (best %d)", item.CurrentStreak, item.BestStreak)))
		if item.OverCompleted > 0 {
			line += fmt.Sprintf("  +%d extra", item.OverCompleted)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderQuotePanel(data QuotePanelData) string {
	if data.Loading {
		return "quote:\n" + data.SpinView + " fetching..."
	}
	if data.Text == "" {
		return "quote:\n(press f to fetch)"
	}
	md := fmt.Sprintf("> %s", data.Text)
	if data.Author != "" {
		md += fmt.Sprintf("\n>\n> *%s*", data.Author)
	}
	return "quote:\n" + RenderMarkdown(md)
}

func RenderReminderPanel(data ReminderPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("reminders: %d armed\n", data.Armed))
	if data.Last != "" {
		b.WriteString("last fired: " + data.Last + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("help (%s):\n", data.CurrentView))
	for _, binding := range data.Bindings {
		b.WriteString(binding + "\n")
	}
	if data.HelpView != "" {
		b.WriteString(data.HelpView + "\n")
	}
	return strings.TrimSpace(b.String())
}
