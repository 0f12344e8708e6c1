package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/registry"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenHistory
	screenSetup
	screenGame
)

// SessionModel drives one remote player through the menu, the match history,
// the setup screen and their games inside a single program. The child models
// quit their program when run standalone; here only a real quit ends it.
type SessionModel struct {
	store   *storage.Store
	gameCfg config.HexHuntConfig
	rc      core.RuntimeConfig
	logger  *log.Logger

	screen  screen
	menu    MenuModel
	history ScoreboardModel
	setup   SetupModel
	game    *Model
	variant string

	quitting bool
}

// NewSessionModel starts a session at the menu.
func NewSessionModel(store *storage.Store, gameCfg config.HexHuntConfig, rc core.RuntimeConfig, logger *log.Logger) SessionModel {
	return SessionModel{
		store:   store,
		gameCfg: gameCfg,
		rc:      rc,
		logger:  logger,
		menu:    NewMenuModel(store, rc),
	}
}

// Init implements tea.Model.
func (m SessionModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.rc.ScreenW, m.rc.ScreenH = size.Width, size.Height
	}

	switch m.screen {
	case screenHistory:
		return m.updateHistory(msg)
	case screenSetup:
		return m.updateSetup(msg)
	case screenGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.game = nil
	m.menu = NewMenuModel(m.store, m.rc)
	return m, nil
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		return m.quit()
	case m.menu.WantsScoreboard():
		m.history = NewScoreboardModel(m.store, m.rc.ScreenW, m.rc.ScreenH)
		m.history.embedded = true
		m.screen = screenHistory
		return m, nil
	case m.menu.Selected() != nil:
		m.variant = m.menu.Selected().GameID
		title := m.menu.Selected().Title
		m.setup = NewSetupModel(title, m.gameCfg, m.rc.ScreenW, m.rc.ScreenH)
		m.screen = screenSetup
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	m.history = next.(ScoreboardModel)

	switch {
	case m.history.IsQuitting():
		return m.quit()
	case m.history.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.setup.Update(msg)
	m.setup = next.(SetupModel)

	switch {
	case m.setup.IsQuitting():
		return m.quit()
	case m.setup.WantsBack():
		return m.toMenu()
	case m.setup.Selected() != nil:
		return m.startGame(*m.setup.Selected())
	}
	return m, cmd
}

func (m SessionModel) startGame(sel SetupSelection) (tea.Model, tea.Cmd) {
	cfg := m.gameCfg
	sel.Apply(&cfg)

	game, err := registry.Create(m.variant, cfg)
	if err != nil {
		m.logger.Error("cannot create game", "variant", m.variant, "error", err)
		return m.toMenu()
	}
	if lg, ok := game.(interface{ SetLogger(*log.Logger) }); ok {
		lg.SetLogger(m.logger)
	}

	m.rc.Seed = time.Now().UnixNano()
	m.logger.Info("starting game", "variant", m.variant, "difficulty", sel.Difficulty, "first", sel.FirstPlayer)

	gm := NewModel(game, m.store, m.rc).WithLogger(m.logger)
	gm.embedded = true
	m.game = &gm
	m.screen = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	gm := next.(Model)
	m.game = &gm

	switch {
	case gm.IsQuitting():
		return m.quit()
	case gm.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

// View implements tea.Model.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenHistory:
		return m.history.View()
	case screenSetup:
		return m.setup.View()
	case screenGame:
		return m.game.View()
	default:
		return m.menu.View()
	}
}
