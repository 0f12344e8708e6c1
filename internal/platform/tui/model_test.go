package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

// scriptedGame finishes after a fixed number of confirms.
type scriptedGame struct {
	confirms int
	need     int
	resets   int
	width    int
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }

func (g *scriptedGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.confirms = 0
	g.width = cfg.ScreenW
}

func (g *scriptedGame) Resize(w, h int) { g.width = w }

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionConfirm) {
		g.confirms++
	}
	return core.StepResult{State: g.State()}
}

func (g *scriptedGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "scripted")
}

func (g *scriptedGame) State() core.GameState {
	done := g.confirms >= g.need
	st := core.GameState{Score: g.confirms, OpponentScore: 1, GameOver: done}
	if done {
		st.Result = "win"
	}
	return st
}

func (g *scriptedGame) MatchRecord() (storage.MatchRecord, bool) {
	if !g.State().GameOver {
		return storage.MatchRecord{}, false
	}
	return storage.MatchRecord{
		Variant:    g.ID(),
		Radius:     1,
		Difficulty: "normal",
		Source:     "tui",
		HumanScore: g.confirms,
		AIScore:    1,
		Winner:     storage.WinnerHuman,
	}, true
}

// slowGame hands each confirm to the platform as background work.
type slowGame struct {
	scriptedGame
	ran bool
}

func (g *slowGame) Step(in core.InputFrame) core.StepResult {
	if !in.Has(core.ActionConfirm) {
		return core.StepResult{State: g.State()}
	}
	return core.StepResult{State: g.State(), Work: func() func() []string {
		g.ran = true
		return func() []string {
			g.confirms++
			return []string{"confirmed"}
		}
	}}
}

// runWork executes the background work inside cmd the way the program would
// and returns its message.
func runWork(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "expected the tick and the work batched")
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(workDoneMsg); ok {
			return msg
		}
	}
	t.Fatal("no background work in command")
	return nil
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModelSavesFinishedMatchOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "matches.db"))
	require.NoError(t, err)
	defer store.Close()

	game := &scriptedGame{need: 2}
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 30, Seed: 1})

	m = step(t, m, TickMsg{})
	require.Equal(t, 1, game.resets)

	for i := 0; i < 2; i++ {
		m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m = step(t, m, TickMsg{})
	}
	require.True(t, m.GameState().GameOver)
	require.Positive(t, m.SavedMatchID())

	m = step(t, m, TickMsg{})
	matches, err := store.RecentMatches("scripted", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 2, matches[0].HumanScore)

	m = step(t, m, runeKey('r'))
	m = step(t, m, TickMsg{})
	require.Equal(t, 2, game.resets)
	require.False(t, m.GameState().GameOver)
}

func TestModelResizeKeepsGame(t *testing.T) {
	game := &scriptedGame{need: 5}
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 30, Seed: 1})
	m = step(t, m, TickMsg{})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = step(t, m, TickMsg{})

	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Equal(t, 1, game.resets)
	require.Equal(t, 100, game.width)
	require.Equal(t, 1, game.confirms)
	require.True(t, strings.Contains(m.View(), "scripted"))
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&scriptedGame{need: 1}, nil, core.DefaultConfig())
	next, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	require.True(t, next.(Model).IsQuitting())
	require.Empty(t, next.(Model).View())
}

func TestModelBackAfterGameOver(t *testing.T) {
	game := &scriptedGame{need: 1}
	m := NewModel(game, nil, core.DefaultConfig())
	m.embedded = true
	m = step(t, m, TickMsg{})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = step(t, m, TickMsg{})
	require.True(t, m.GameState().GameOver)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = step(t, m, TickMsg{})
	require.True(t, m.BackToMenu())
	require.False(t, m.IsQuitting())
}

func TestModelRunsGameWork(t *testing.T) {
	store := testStore(t)
	game := &slowGame{scriptedGame: scriptedGame{need: 1}}
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 30, Seed: 1})
	m = step(t, m, TickMsg{})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	require.False(t, game.ran, "work must not run inside Update")
	require.False(t, m.GameState().GameOver)

	msg := runWork(t, cmd)
	require.True(t, game.ran)
	require.Zero(t, game.confirms, "the result applies on the update loop")

	m = step(t, m, msg)
	require.Equal(t, 1, game.confirms)
	require.True(t, m.GameState().GameOver)
	require.Positive(t, m.SavedMatchID())
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "hex")
	s.SetCell(0, 1, 'H', core.ColorHuman)
	out := RenderScreen(s)
	require.Contains(t, out, "hex")
	require.Contains(t, out, "H")
	require.Equal(t, 1, strings.Count(out, "\n"))
}
