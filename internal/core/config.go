package core

// RuntimeConfig is handed to a game when it is (re)started.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // UI ticks per second
	Seed     int64 // Item layout seed; 0 lets the platform pick one
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0,
	}
}

// GameState is the summary a game reports to the platform after each step.
type GameState struct {
	Score         int // Human score
	OpponentScore int
	GameOver      bool
	Thinking      bool   // The AI is choosing a move
	Result        string // "win", "loss" or "draw" once the game is over
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
	// Events are short human-readable notes about what happened this step.
	Events []string
	// Work, when set, is slow work the platform runs off the tick loop. The
	// function it returns is called back on the tick loop to apply the result
	// and returns events like Step does.
	Work Work
}

// Work runs away from the tick loop and returns the callback that applies
// its result.
type Work func() (apply func() []string)
