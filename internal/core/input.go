package core

// Action is a semantic input, decoupled from the physical key that caused it.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up - previous row of edges
	ActionDown           // S, Down - next row of edges
	ActionLeft           // A, Left - previous edge
	ActionRight          // D, Right - next edge
	ActionConfirm        // Enter, Space - claim the selected edge
	ActionPortal         // X - toggle portal targeting
	ActionSteal          // G - use a held gauntlet
	ActionHint           // H - ask the engine for a suggestion
	ActionStats          // Tab - toggle the AI stats overlay
	ActionBack           // B, Escape - leave targeting or go back
	ActionRestart        // R - new game after game over
	ActionQuit           // Q, Ctrl+C
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionConfirm: "Confirm",
	ActionPortal:  "Portal",
	ActionSteal:   "Steal",
	ActionHint:    "Hint",
	ActionStats:   "Stats",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame holds the actions triggered since the previous step.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
