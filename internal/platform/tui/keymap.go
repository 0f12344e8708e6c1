package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hexhunt/internal/core"
)

// gameKeys binds key names, as tea.KeyMsg.String reports them, to board
// actions. h stays the hint key, so vim left is not bound on the board.
var gameKeys = bind(map[core.Action][]string{
	core.ActionUp:      {"up", "w", "k"},
	core.ActionDown:    {"down", "s", "j"},
	core.ActionLeft:    {"left", "a"},
	core.ActionRight:   {"right", "d", "l"},
	core.ActionConfirm: {"enter", " "},
	core.ActionPortal:  {"x"},
	core.ActionSteal:   {"g"},
	core.ActionHint:    {"h", "?"},
	core.ActionStats:   {"tab"},
	core.ActionBack:    {"esc", "b"},
	core.ActionRestart: {"r"},
	core.ActionQuit:    {"q", "ctrl+c"},
})

func bind[A comparable](actions map[A][]string) map[string]A {
	keys := make(map[string]A)
	for a, names := range actions {
		for _, n := range names {
			keys[n] = a
		}
	}
	return keys
}

// MenuAction is what a key does on the menu screens.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

var menuKeys = bind(map[MenuAction][]string{
	MenuActionUp:         {"up", "w", "k"},
	MenuActionDown:       {"down", "s", "j"},
	MenuActionLeft:       {"left", "a", "h"},
	MenuActionRight:      {"right", "d", "l"},
	MenuActionSelect:     {"enter", " "},
	MenuActionBack:       {"esc", "b"},
	MenuActionScoreboard: {"tab"},
	MenuActionQuit:       {"q", "ctrl+c"},
})

// KeyMapper turns key presses into game or menu actions.
type KeyMapper struct {
	game map[string]core.Action
	menu map[string]MenuAction
}

// NewKeyMapper returns a mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{game: gameKeys, menu: menuKeys}
}

// MapKey returns the board action of msg, ActionNone if unbound, and whether
// it asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action, ok := km.game[msg.String()]
	if !ok {
		return core.ActionNone, false
	}
	return action, action == core.ActionQuit
}

// MapKeyToFrame records the action of msg in frame and reports a quit.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, quit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return quit
}

// MapKeyToMenuAction returns the menu action of msg.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return km.menu[msg.String()]
}
