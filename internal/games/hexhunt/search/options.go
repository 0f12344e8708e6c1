package search

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth sets the default deepest iteration, in plies.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithTimeBudget sets the default wall-clock budget per search. Zero means
// no limit.
func WithTimeBudget(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.timeBudget = d
		}
	}
}

// WithTable makes the engine use t, which may be shared between engines.
func WithTable(t *Table) Option {
	return func(e *Engine) {
		e.table = t
	}
}

// WithoutTable disables the transposition table.
func WithoutTable() Option {
	return func(e *Engine) {
		e.table = nil
	}
}

// WithWeights replaces the evaluation weights.
func WithWeights(w core.EvalWeights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithLogger routes engine diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests of the time budget.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
