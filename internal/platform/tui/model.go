package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/registry"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

// Optional game capabilities.
type (
	resizer interface {
		Resize(w, h int)
	}
	matchRecorder interface {
		MatchRecord() (storage.MatchRecord, bool)
	}
)

// Model runs one board at a fixed tick rate. Keys pressed between ticks are
// collected into a frame and handed to the game on the next tick.
type Model struct {
	game   registry.Game
	screen *core.Screen
	store  *storage.Store
	logger *log.Logger
	config core.RuntimeConfig
	keys   *KeyMapper

	pending core.InputFrame
	state   core.GameState
	started bool // first tick has laid out the board
	saved   bool // current board already stored
	savedID int64

	quitting   bool
	backToMenu bool
	embedded   bool // inside a SessionModel; Back keeps the program running
}

// NewModel wraps game. A zero seed is replaced by the clock.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return Model{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:   store,
		logger:  log.New(io.Discard),
		config:  cfg,
		keys:    NewKeyMapper(),
		pending: core.NewInputFrame(),
	}
}

// WithLogger returns a copy of the model that logs to l.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// Init starts the tick loop; the board is laid out on the first tick.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			m.dumpScreen()
			return m, nil
		}
		if m.keys.MapKeyToFrame(msg, &m.pending) {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if r, ok := m.game.(resizer); ok && m.started {
			r.Resize(msg.Width, msg.Height)
		}

	case TickMsg:
		return m.tick()

	case workDoneMsg:
		if msg.apply != nil {
			m.settle(msg.apply())
		}
	}
	return m, nil
}

// newBoard lays out a fresh board from the current seed.
func (m *Model) newBoard() {
	m.game.Reset(m.config)
	m.state = m.game.State()
	m.started = true
	m.saved = false
}

func (m Model) tick() (tea.Model, tea.Cmd) {
	if !m.started {
		m.newBoard()
	}

	if m.state.GameOver {
		switch {
		case m.pending.Has(core.ActionBack):
			m.backToMenu = true
			m.pending.Clear()
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit
		case m.pending.Has(core.ActionRestart):
			m.config.Seed = time.Now().UnixNano()
			m.newBoard()
			m.pending.Clear()
			return m, tickCmd(m.config.TickRate)
		}
	}

	res := m.game.Step(m.pending)
	m.pending.Clear()
	m.settle(res.Events)
	if res.Work != nil {
		return m, tea.Batch(tickCmd(m.config.TickRate), workCmd(res.Work))
	}
	return m, tickCmd(m.config.TickRate)
}

// settle logs events and picks up the game state after a step or finished
// background work, storing the board the first time it is over.
func (m *Model) settle(events []string) {
	m.state = m.game.State()
	for _, ev := range events {
		m.logger.Debug("event", "variant", m.game.ID(), "msg", ev)
	}
	if m.state.GameOver && !m.saved {
		m.record()
		m.saved = true
	}
}

// record stores the finished board if the game can describe it.
func (m *Model) record() {
	rec, ok := m.game.(matchRecorder)
	if !ok || m.store == nil {
		return
	}
	match, ok := rec.MatchRecord()
	if !ok {
		return
	}
	id, err := m.store.SaveMatch(match)
	if err != nil {
		m.logger.Error("cannot save match", "variant", m.game.ID(), "error", err)
		return
	}
	m.savedID = id
	m.logger.Info("match saved", "id", id, "variant", m.game.ID(), "winner", match.Winner,
		"score", fmt.Sprintf("%d:%d", match.HumanScore, match.AIScore))
}

// dumpScreen writes the current frame as plain text under ~/.hexhunt/screens,
// named after the variant and seed so the board can be replayed.
func (m *Model) dumpScreen() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot dump screen", "error", err)
		return
	}
	dir := filepath.Join(home, ".hexhunt", "screens")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot dump screen", "error", err)
		return
	}
	name := fmt.Sprintf("%s_seed%d_%s.txt", m.game.ID(), m.config.Seed, time.Now().Format("150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot dump screen", "error", err)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.backToMenu || !m.started {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the user quit.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu reports whether the user left a finished game.
func (m Model) BackToMenu() bool { return m.backToMenu }

// GameState returns the state after the last tick.
func (m Model) GameState() core.GameState { return m.state }

// SavedMatchID returns the storage id of the last stored board, or 0.
func (m Model) SavedMatchID() int64 { return m.savedID }

// Run plays game in the terminal until the user quits or backs out.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	_, err := tea.NewProgram(NewModel(game, store, cfg).WithLogger(logger), tea.WithAltScreen()).Run()
	return err
}
