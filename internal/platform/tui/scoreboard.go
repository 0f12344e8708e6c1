package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hexhunt/internal/registry"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

const (
	maxMatches       = 100
	minWidthForPanel = 100 // detail panel beside the table
	panelWidth       = 30
)

// ScoreboardKeyMap defines the key bindings of the match history.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	Prev     key.Binding
	SelfPlay key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.SelfPlay, k.Back}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next},
		{k.SelfPlay, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns the default bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "older")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "newer")),
		Next:     key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("right", "next board")),
		Prev:     key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("left", "prev board")),
		SelfPlay: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "self-play on/off")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	paneStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	resultStyles    = map[string]lipgloss.Style{
		"win":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"loss": lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		"draw": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

// ScoreboardModel lists stored matches per board variant together with the
// AI's search statistics.
type ScoreboardModel struct {
	variants []registry.Variant
	current  int
	store    *storage.Store

	all      []storage.MatchRecord
	shown    []storage.MatchRecord
	stats    *storage.GameStats
	selfPlay bool // include self-play matches

	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int

	quitting  bool
	goingBack bool
	embedded  bool // inside a SessionModel; Back keeps the program running
}

// NewScoreboardModel creates the match history screen.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		variants: registry.List(),
		store:    store,
		help:     help.New(),
		keys:     DefaultScoreboardKeyMap(),
		width:    width,
		height:   height,
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) variant() string {
	if len(m.variants) == 0 {
		return ""
	}
	return m.variants[m.current].ID
}

func (m ScoreboardModel) wide() bool { return m.width >= minWidthForPanel }

func (m *ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "You", Width: 4},
		{Title: "AI", Width: 4},
		{Title: "Result", Width: 6},
		{Title: "Level", Width: 6},
		{Title: "Depth", Width: 5},
		{Title: "Nodes", Width: 9},
		{Title: "Cache", Width: 5},
		{Title: "Date", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-11, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the selected variant from the store.
func (m *ScoreboardModel) load() {
	m.all, m.stats = nil, nil
	if m.store != nil && m.variant() != "" {
		if matches, err := m.store.RecentMatches(m.variant(), maxMatches); err == nil {
			m.all = matches
		}
		if st, err := m.store.GetGameStats(m.variant()); err == nil {
			m.stats = st
		}
	}
	m.filter()
}

func (m *ScoreboardModel) filter() {
	m.shown = nil
	for _, r := range m.all {
		if r.Source == "selfplay" && !m.selfPlay {
			continue
		}
		m.shown = append(m.shown, r)
	}
	rows := make([]table.Row, len(m.shown))
	for i, r := range m.shown {
		rows[i] = MatchRow(r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func matchResult(r storage.MatchRecord) string {
	switch r.Winner {
	case storage.WinnerHuman:
		return "win"
	case storage.WinnerAI:
		return "loss"
	default:
		return "draw"
	}
}

// MatchRow formats one match for the history table.
func MatchRow(r storage.MatchRecord) table.Row {
	return table.Row{
		fmt.Sprintf("%d", r.HumanScore),
		fmt.Sprintf("%d", r.AIScore),
		matchResult(r),
		r.Difficulty,
		fmt.Sprintf("%d", r.AIMaxDepth),
		fmt.Sprintf("%d", r.AINodes),
		fmt.Sprintf("%.0f%%", r.HitRate()*100),
		r.CreatedAt.Format("Jan 02 15:04"),
	}
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
			if n := len(m.variants); n > 0 {
				step := 1
				if key.Matches(msg, m.keys.Prev) {
					step = -1
				}
				m.current = (m.current + step + n) % n
				m.load()
			}
			return m, nil
		case key.Matches(msg, m.keys.SelfPlay):
			m.selfPlay = !m.selfPlay
			m.filter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.filter()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(boardTitleStyle.Render("MATCH HISTORY"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render(m.summary()), m.width))
	b.WriteString("\n\n")

	body := paneStyle.Render(m.tableView())
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", paneStyle.Width(panelWidth).Render(m.detail()))
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) tabs() string {
	tabs := make([]string, len(m.variants))
	for i, v := range m.variants {
		if i == m.current {
			tabs[i] = activeTabStyle.Render(v.ID)
		} else {
			tabs[i] = tabStyle.Render(v.ID)
		}
	}
	line := strings.Join(tabs, "")
	if lipgloss.Width(line) > m.width-2 && len(m.variants) > 0 {
		return fmt.Sprintf("< %s >", m.variants[m.current].ID)
	}
	return line
}

// summary renders the totals of the selected variant, self-play included.
func (m ScoreboardModel) summary() string {
	st := m.stats
	if st == nil || st.Matches == 0 {
		return "no matches yet"
	}
	return fmt.Sprintf("%d played  %d won  %d lost  %d drawn  best %d  %.0f nodes/move  cache %.0f%%",
		st.Matches, st.HumanWins, st.AIWins, st.Draws, st.HighScore, st.AvgNodes, st.HitRate*100)
}

func (m ScoreboardModel) tableView() string {
	if len(m.shown) == 0 {
		msg := "No matches recorded yet.\nFinish a game to see it here!"
		if len(m.all) > 0 {
			msg = "Only self-play matches here.\nPress F to show them."
		}
		return mutedStyle.Italic(true).Padding(2, 4).Render(msg)
	}
	return m.table.View()
}

// detail describes the highlighted match.
func (m ScoreboardModel) detail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.shown) {
		return mutedStyle.Render("No match selected")
	}
	r := m.shown[i]
	res := matchResult(r)

	lines := []string{
		resultStyles[res].Bold(true).Render(strings.ToUpper(res)) + fmt.Sprintf("  %d : %d", r.HumanScore, r.AIScore),
		"",
		fmt.Sprintf("seed      %d", r.Seed),
		fmt.Sprintf("moves     %d", r.Moves),
		fmt.Sprintf("length    %s", r.Duration.Round(1e9)),
		fmt.Sprintf("played    %s", r.Source),
		"",
		boardTitleStyle.Render("AI search"),
		fmt.Sprintf("moves     %d", r.AISearches),
		fmt.Sprintf("depth     %d", r.AIMaxDepth),
		fmt.Sprintf("nodes     %d", r.AINodes),
		fmt.Sprintf("cache     %d/%d", r.AITTHits, r.AITTProbes),
		fmt.Sprintf("thinking  %s", r.AIThink.Round(1e6)),
	}
	return strings.Join(lines, "\n")
}

// IsGoingBack reports whether the user asked for the menu.
func (m ScoreboardModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting reports whether the user quit.
func (m ScoreboardModel) IsQuitting() bool { return m.quitting }

// RunScoreboard runs the match history screen. It returns true when the user
// wants the menu back, false on quit.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
