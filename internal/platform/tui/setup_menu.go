package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/core"
)

// SetupSelection is what the player picked before a game.
type SetupSelection struct {
	Difficulty  config.DifficultyPreset
	FirstPlayer string // "human" or "ai"
	Table       bool   // AI uses its transposition table
}

// Apply writes the selection into cfg.
func (s SetupSelection) Apply(cfg *config.HexHuntConfig) {
	config.ApplyDifficultyPreset(cfg, s.Difficulty)
	cfg.Board.FirstPlayer = s.FirstPlayer
	cfg.AI.Table.Enabled = s.Table
}

var (
	firstPlayers = []string{"human", "ai"}
	onOff        = []string{"on", "off"}
)

// setupOption is one cyclable row.
type setupOption struct {
	label  string
	values []string
	pick   int
}

func (o *setupOption) cycle(dir int) { o.pick = core.Wrap(o.pick+dir, len(o.values)) }
func (o setupOption) value() string  { return o.values[o.pick] }

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return 0
}

const (
	optDifficulty = iota
	optFirst
	optTable
	optCount // the Start row follows the options
)

var setupCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

// SetupModel picks the AI difficulty, who opens and whether the AI may use
// its cache.
type SetupModel struct {
	title   string
	options [optCount]setupOption
	cursor  int
	width   int
	keys    *KeyMapper

	done     bool
	quitting bool
	back     bool
}

// NewSetupModel starts from the choices already in cfg with the cursor on
// Start, so Enter plays right away.
func NewSetupModel(title string, cfg config.HexHuntConfig, width, _ int) SetupModel {
	presets := make([]string, len(config.Presets))
	for i, p := range config.Presets {
		presets[i] = string(p)
	}
	table := "off"
	if cfg.AI.Table.Enabled {
		table = "on"
	}

	m := SetupModel{title: title, cursor: optCount, width: width, keys: NewKeyMapper()}
	m.options[optDifficulty] = setupOption{"Difficulty", presets, indexOf(presets, string(cfg.AI.Difficulty))}
	m.options[optFirst] = setupOption{"First move", firstPlayers, indexOf(firstPlayers, cfg.Board.FirstPlayer)}
	m.options[optTable] = setupOption{"AI cache", onOff, indexOf(onOff, table)}
	return m
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.onKey(m.keys.MapKeyToMenuAction(msg))
	}
	return m, nil
}

func (m SetupModel) onKey(action MenuAction) (tea.Model, tea.Cmd) {
	onOption := m.cursor < optCount
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = core.Wrap(m.cursor-1, optCount+1)
	case MenuActionDown:
		m.cursor = core.Wrap(m.cursor+1, optCount+1)
	case MenuActionLeft, MenuActionRight:
		if onOption {
			dir := 1
			if action == MenuActionLeft {
				dir = -1
			}
			m.options[m.cursor].cycle(dir)
		}
	case MenuActionSelect:
		if !onOption {
			m.done = true
			return m, tea.Quit
		}
		m.options[m.cursor].cycle(1)
	}
	return m, nil
}

func (m SetupModel) difficulty() config.DifficultyPreset {
	return config.DifficultyPreset(m.options[optDifficulty].value())
}

// View implements tea.Model.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	rows := make([]string, 0, optCount+1)
	for _, o := range m.options {
		rows = append(rows, fmt.Sprintf("%-11s < %s >", o.label, o.value()))
	}
	rows = append(rows, "Start game")

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(boardTitleStyle.Render(m.title), m.width))
	b.WriteString("\n\n")
	for i, row := range rows {
		if i == m.cursor {
			row = setupCursorStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(centerText(row, m.width))
		b.WriteString("\n")
	}

	limits := config.LimitsForPreset(m.difficulty())
	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render(fmt.Sprintf("AI looks %d moves ahead, up to %v per move", limits.MaxDepth, limits.TimeBudget)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(mutedStyle.Render("Left/Right: Change  |  Enter: Start  |  Esc: Back  |  Q: Quit"), m.width))
	return b.String()
}

// Selected returns the choices once Start was pressed, nil before.
func (m SetupModel) Selected() *SetupSelection {
	if !m.done {
		return nil
	}
	return &SetupSelection{
		Difficulty:  m.difficulty(),
		FirstPlayer: m.options[optFirst].value(),
		Table:       m.options[optTable].value() == "on",
	}
}

// IsQuitting reports whether the user quit.
func (m SetupModel) IsQuitting() bool { return m.quitting }

// WantsBack reports whether the user backed out.
func (m SetupModel) WantsBack() bool { return m.back }

// RunSetup shows the setup screen. A nil selection means the user backed out
// or quit.
func RunSetup(title string, cfg config.HexHuntConfig, rc core.RuntimeConfig) (*SetupSelection, error) {
	final, err := tea.NewProgram(NewSetupModel(title, cfg, rc.ScreenW, rc.ScreenH), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(SetupModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
