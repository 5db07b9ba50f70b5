package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"habitd/internal/model"
	"habitd/internal/quotes"
	"habitd/internal/scheduler"
	"habitd/internal/storage"
	"habitd/internal/views"
)

type View string

const (
	ViewHabits View = "Habits"
	ViewStats  View = "Stats"
	ViewQuote  View = "Quote"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Habits string
	Stats  string
	Quote  string
	Help   string
	Quit   string
}

// Deps carries the wired services the TUI drives. Handler, when set,
// processes each firing (notification plus re-arm) before the event
// reaches the UI; the TUI is the engine channel's only consumer.
type Deps struct {
	Repo     storage.Repository
	Planner  *scheduler.Planner
	Engine   *scheduler.Engine
	Handler  *scheduler.FireHandler
	Quotes   *quotes.Service
	Location *time.Location
}

type Model struct {
	CurrentView  View
	Habits       []model.Habit
	DoneToday    map[int64]bool
	Stats        []views.StatsItemData
	Quote        model.Quote
	QuoteLoading bool
	LastFired    string
	Status       StatusBar
	Keys         GlobalKeyMap
	HelpVisible  bool
	Quitting     bool
	LastError    error

	deps   Deps
	cursor int

	habitList     list.Model
	quickAddInput textinput.Model
	quoteSpinner  spinner.Model
	helpModel     help.Model
	adding        bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type AppErrorMsg struct {
	Err error
}

type HabitsLoadedMsg struct {
	Habits    []model.Habit
	DoneToday map[int64]bool
}

type StatsLoadedMsg struct {
	Items []views.StatsItemData
}

type QuoteLoadedMsg struct {
	Quote model.Quote
}

type ReminderDueMsg struct {
	Firing scheduler.Firing
}

func NewModel(deps Deps) Model {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	deps.Location = loc
	m := Model{
		CurrentView: ViewHabits,
		DoneToday:   make(map[int64]bool),
		deps:        deps,
		Keys: GlobalKeyMap{
			Habits: "1",
			Stats:  "2",
			Quote:  "3",
			Help:   "?",
			Quit:   "q",
		},
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.habitList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.habitList.Title = "Habits"
	m.habitList.SetShowHelp(false)
	m.habitList.SetFilteringEnabled(false)

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 128
	m.quickAddInput.Width = 42

	m.quoteSpinner = spinner.New()
	m.quoteSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadHabitsCmd()}
	if m.deps.Engine != nil {
		cmds = append(cmds, waitForReminderCmd(m.deps.Engine.C(), m.deps.Handler))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.QuoteLoading {
			var cmd tea.Cmd
			m.quoteSpinner, cmd = m.quoteSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case HabitsLoadedMsg:
		m.Habits = typed.Habits
		m.DoneToday = typed.DoneToday
		if m.cursor >= len(m.Habits) && len(m.Habits) > 0 {
			m.cursor = len(m.Habits) - 1
		}
		m.syncHabitList()
		return m, nil
	case StatsLoadedMsg:
		m.Stats = typed.Items
		return m, nil
	case QuoteLoadedMsg:
		m.Quote = typed.Quote
		m.QuoteLoading = false
		return m, nil
	case ReminderDueMsg:
		m.LastFired = fmt.Sprintf("key %d @ %s", typed.Firing.Key, typed.Firing.At.Format("15:04:05"))
		m.Status = StatusBar{Text: "reminder fired: " + m.LastFired}
		if m.deps.Engine != nil {
			return m, waitForReminderCmd(m.deps.Engine.C(), m.deps.Handler)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.handleQuickAddKey(msg)
	}

	switch msg.String() {
	case m.Keys.Habits:
		m.CurrentView = ViewHabits
		return m, m.loadHabitsCmd()
	case m.Keys.Stats:
		m.CurrentView = ViewStats
		return m, m.loadStatsCmd()
	case m.Keys.Quote:
		m.CurrentView = ViewQuote
		if m.Quote.Text == "" {
			return m.startQuoteFetch()
		}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "f":
		if m.CurrentView == ViewQuote {
			return m.startQuoteFetch()
		}
	}
	if m.CurrentView == ViewHabits {
		return m.handleHabitKey(msg)
	}
	return m, nil
}

func (m Model) handleHabitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.Habits)-1 {
			m.cursor++
		}
		m.syncHabitList()
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.syncHabitList()
		return m, nil
	case "a":
		m.adding = true
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "type a habit name, enter to save"}
		return m, nil
	case " ":
		if habit, ok := m.currentHabit(); ok {
			return m, m.toggleDoneCmd(habit)
		}
	case "d":
		if habit, ok := m.currentHabit(); ok {
			return m, m.deleteHabitCmd(habit)
		}
	case "r":
		if habit, ok := m.currentHabit(); ok {
			return m, m.toggleReminderCmd(habit)
		}
	}
	return m, nil
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.quickAddInput.Value())
		m.adding = false
		m.quickAddInput.Blur()
		if name == "" {
			return m, nil
		}
		return m, m.addHabitCmd(name)
	default:
		var cmd tea.Cmd
		m.quickAddInput, cmd = m.quickAddInput.Update(msg)
		return m, cmd
	}
}

func (m Model) startQuoteFetch() (tea.Model, tea.Cmd) {
	if m.deps.Quotes == nil {
		return m, nil
	}
	m.QuoteLoading = true
	return m, tea.Batch(m.quoteSpinner.Tick, m.fetchQuoteCmd())
}

func (m *Model) syncHabitList() {
	items := make([]list.Item, 0, len(m.Habits))
	for _, habit := range m.Habits {
		desc := habit.ReminderTimes
		if habit.ReminderEnabled && desc != "" {
			days := habit.ReminderDays
			if days == "" {
				days = "daily"
			}
			desc = days + " at " + desc
		} else {
			desc = "no reminder"
		}
		if m.DoneToday[habit.ID] {
			desc = "[done] " + desc
		}
		items = append(items, listItem{title: habit.Name, description: desc})
	}
	m.habitList.SetItems(items)
	if len(items) > 0 {
		m.habitList.Select(m.cursor)
	}
}

func (m Model) currentHabit() (model.Habit, bool) {
	if m.cursor < 0 || m.cursor >= len(m.Habits) {
		return model.Habit{}, false
	}
	return m.Habits[m.cursor], true
}

func (m Model) View() string {
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewHabits:
		leftPane = views.RenderHabitPanel(views.HabitPanelData{
			QuickAddView: m.quickAddInput.View(),
			ListView:     m.habitList.View(),
		})
		rightPane = m.renderReminderPane() + m.renderHelpIfVisible()
	case ViewStats:
		leftPane = views.RenderStatsPanel(views.StatsPanelData{Items: m.Stats})
		rightPane = m.renderHelpIfVisible()
	case ViewQuote:
		leftPane = views.RenderQuotePanel(views.QuotePanelData{
			Text:     m.Quote.Text,
			Author:   m.Quote.Author,
			Loading:  m.QuoteLoading,
			SpinView: m.quoteSpinner.View(),
		})
		rightPane = m.renderHelpIfVisible()
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		} else {
			status = "status: " + m.Status.Text
		}
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("habitd | view: %s", m.CurrentView),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Footer: fmt.Sprintf("keys: %s habits | %s stats | %s quote | %s help | %s quit",
			m.Keys.Habits, m.Keys.Stats, m.Keys.Quote, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderReminderPane() string {
	armed := 0
	if m.deps.Engine != nil {
		armed = len(m.deps.Engine.Snapshot())
	}
	return views.RenderReminderPanel(views.ReminderPanelData{
		Armed: armed,
		Last:  m.LastFired,
	})
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

type KeyBinding struct {
	Key    string
	Action string
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Habits, Action: "switch to Habits"},
		{Key: m.Keys.Stats, Action: "switch to Stats"},
		{Key: m.Keys.Quote, Action: "switch to Quote"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewHabits:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "a", Action: "add habit"},
			{Key: "space", Action: "toggle done today"},
			{Key: "d", Action: "delete habit"},
			{Key: "r", Action: "toggle reminder"},
		}
	case ViewQuote:
		return []KeyBinding{{Key: "f", Action: "fetch a new quote"}}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

func isKnownView(v View) bool {
	switch v {
	case ViewHabits, ViewStats, ViewQuote:
		return true
	default:
		return false
	}
}

func waitForReminderCmd(ch <-chan scheduler.Firing, handler *scheduler.FireHandler) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		firing, ok := <-ch
		if !ok {
			return nil
		}
		if handler != nil {
			handler.Handle(context.Background(), firing)
		}
		return ReminderDueMsg{Firing: firing}
	}
}
