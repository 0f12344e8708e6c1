package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/registry"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

var (
	menuLogoStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	menuItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// MenuItem is one board in the picker.
type MenuItem struct {
	GameID  string
	Title   string
	Summary string
	Best    int // best human score, self-play excluded
	Played  int
	Won     int
}

func (it MenuItem) record() string {
	if it.Played == 0 {
		return "not played yet"
	}
	return fmt.Sprintf("%d played, %d won, best %d", it.Played, it.Won, it.Best)
}

// MenuModel picks a board variant.
type MenuModel struct {
	items  []MenuItem
	cursor int
	config core.RuntimeConfig
	keys   *KeyMapper

	quitting   bool
	selected   *MenuItem
	scoreboard bool
}

func menuItems(store *storage.Store) []MenuItem {
	variants := registry.List()
	items := make([]MenuItem, len(variants))
	for i, v := range variants {
		items[i] = MenuItem{GameID: v.ID, Title: v.Title, Summary: v.Summary}
		if store == nil {
			continue
		}
		if st, err := store.GetGameStats(v.ID); err == nil && st != nil {
			items[i].Played = st.Matches
			items[i].Won = st.HumanWins
		}
		if best, err := store.HighScore(v.ID); err == nil {
			items[i].Best = best
		}
	}
	return items
}

// NewMenuModel loads the variants and their records from store, which may be
// nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:  menuItems(store),
		config: cfg,
		keys:   NewKeyMapper(),
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.onKey(m.keys.MapKeyToMenuAction(msg))
	}
	return m, nil
}

func (m MenuModel) onKey(action MenuAction) (tea.Model, tea.Cmd) {
	n := len(m.items)
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if n > 0 {
			m.cursor = (m.cursor + n - 1) % n
		}
	case MenuActionDown:
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case MenuActionSelect:
		if n > 0 {
			it := m.items[m.cursor]
			m.selected = &it
			return m, tea.Quit
		}
	case MenuActionScoreboard:
		m.scoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	w := m.config.ScreenW

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuLogoStyle.Render("⬡ H E X H U N T ⬡"), w))
	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render("claim the last side, take the hexagon"), w))
	b.WriteString("\n\n")

	for i, it := range m.items {
		line := fmt.Sprintf(" %-20s ", it.Title)
		if i == m.cursor {
			line = menuSelectedStyle.Render(line)
		} else {
			line = menuItemStyle.Render(line)
		}
		b.WriteString(centerText(line, w))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		it := m.items[m.cursor]
		b.WriteString("\n")
		b.WriteString(centerText(it.Summary, w))
		b.WriteString("\n")
		b.WriteString(centerText(mutedStyle.Render(it.record()), w))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render("Up/Down: Choose  |  Enter: Play  |  Tab: History  |  Q: Quit"), w))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen board, nil until one is chosen.
func (m MenuModel) Selected() *MenuItem { return m.selected }

// IsQuitting reports whether the user quit.
func (m MenuModel) IsQuitting() bool { return m.quitting }

// WantsScoreboard reports whether the user asked for the match history.
func (m MenuModel) WantsScoreboard() bool { return m.scoreboard }

// Config returns the runtime config with the latest terminal size.
func (m MenuModel) Config() core.RuntimeConfig { return m.config }

// centerText pads text to sit in the middle of width columns. Styled text is
// measured without its escape codes.
func centerText(text string, width int) string {
	tw := lipgloss.Width(text)
	if tw >= width {
		return text
	}
	return strings.Repeat(" ", (width-tw)/2) + text
}

// MenuResult is what the standalone menu decided.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu shows the picker until a board is chosen or the user leaves.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	res := MenuResult{Config: m.Config(), WantsScoreboard: m.WantsScoreboard()}
	switch {
	case res.WantsScoreboard:
	case m.Selected() != nil:
		res.GameID = m.Selected().GameID
	default:
		res.Quit = true
	}
	return res, nil
}
