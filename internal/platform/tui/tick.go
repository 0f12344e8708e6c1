// Package tui provides the Bubble Tea front end for HexHunt: the game loop,
// key bindings, setup menu, match history and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hexhunt/internal/core"
)

// TickMsg is sent to trigger a game step.
type TickMsg time.Time

// workDoneMsg carries the result of a game's background work back to the
// update loop.
type workDoneMsg struct {
	apply func() []string
}

func workCmd(w core.Work) tea.Cmd {
	return func() tea.Msg {
		return workDoneMsg{apply: w()}
	}
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
