// Package search picks HexHunt moves with depth-limited minimax, alpha-beta
// pruning, a transposition table and move ordering.
//
// Values inside the tree are always computed from the AI's point of view: a
// node maximizes when the AI is to move and minimizes otherwise. Because a
// completed hexagon grants another move, the side to move does not simply
// alternate with depth, which is why the search is written as minimax and not
// negamax.
package search

import (
	"context"
	"errors"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

const (
	DefaultMaxDepth = 3

	infinity = math.MaxInt32
)

var (
	// ErrTerminal is returned when asked to search a finished game.
	ErrTerminal = errors.New("search: game is over")
	// ErrNoMoves is returned when no candidate move passed validation.
	ErrNoMoves = errors.New("search: no valid moves")
)

// Budget limits one search. Zero fields fall back to the engine defaults.
type Budget struct {
	MaxDepth  int
	TimeLimit time.Duration
}

// Result is the outcome of a search.
type Result struct {
	Move core.Move
	// Score is the minimax value from the point of view of the side that was
	// to move at the root.
	Score int
	Depth int
	Stats Stats
}

// Engine searches positions. An Engine is not safe for concurrent Search
// calls; use one engine per goroutine and share a Table if needed.
type Engine struct {
	maxDepth   int
	timeBudget time.Duration
	table      *Table
	weights    core.EvalWeights
	logger     *log.Logger
	now        func() time.Time

	ctx      context.Context
	deadline time.Time
	canAbort bool
	aborted  bool
	limited  bool
	metrics  metricsCollector
}

// New returns an engine with a private unbounded table, the default
// evaluation weights and a depth of DefaultMaxDepth.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxDepth: DefaultMaxDepth,
		table:    NewTable(0),
		weights:  core.DefaultWeights(),
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the engine's transposition table, or nil when disabled.
func (e *Engine) Table() *Table { return e.table }

// MaxDepth returns the default iteration limit.
func (e *Engine) MaxDepth() int { return e.maxDepth }

// Reset clears the transposition table. Call it when a new game starts.
func (e *Engine) Reset() {
	if e.table != nil {
		e.table.Clear()
	}
}

// Search returns the best move for the side to move in s. The search deepens
// one ply at a time up to the depth limit and stops early once the whole
// game tree has been resolved. When the time budget or ctx runs out, the
// unfinished iteration is discarded and the deepest completed one is
// returned; the first iteration always completes. s is never modified.
func (e *Engine) Search(ctx context.Context, s *core.State, b Budget) (Result, error) {
	if s.IsTerminal() {
		return Result{}, ErrTerminal
	}

	maxDepth := b.MaxDepth
	if maxDepth <= 0 {
		maxDepth = e.maxDepth
	}
	limit := b.TimeLimit
	if limit <= 0 {
		limit = e.timeBudget
	}

	start := e.now()
	e.metrics.Start(start)
	e.ctx = ctx
	e.deadline = time.Time{}
	if limit > 0 {
		e.deadline = start.Add(limit)
	}

	work := s.Clone()
	root := s.Turn()

	var (
		bestMove  core.Move
		bestScore int
		depthDone int
	)
	for depth := 1; depth <= maxDepth; depth++ {
		e.canAbort = depth > 1
		e.aborted = false
		e.limited = false

		m, score, ok := e.searchRoot(work, depth)
		if e.aborted {
			e.metrics.Aborted()
			e.logger.Debug("iteration aborted", "depth", depth)
			break
		}
		if !ok {
			return Result{}, ErrNoMoves
		}
		bestMove, bestScore, depthDone = m, score, depth
		e.logger.Debug("iteration done", "depth", depth, "move", m, "score", score)

		if !e.limited {
			// Every leaf was a finished game; deeper iterations change nothing.
			break
		}
		if e.expired() {
			break
		}
	}

	if root != core.AI {
		bestScore = -bestScore
	}
	stats := e.metrics.Complete(e.now(), depthDone, bestScore)
	e.ctx = nil

	e.logger.Debug("search done",
		"move", bestMove,
		"score", bestScore,
		"depth", depthDone,
		"nodes", stats.Nodes,
		"tt_hits", stats.TTHits,
		"elapsed", stats.Elapsed,
	)
	return Result{
		Move:  bestMove,
		Score: bestScore,
		Depth: depthDone,
		Stats: stats,
	}, nil
}

// searchRoot runs one fixed-depth iteration. Among equally valued moves the
// one that sorts first under core.Move.Less wins, whatever order they were
// searched in: a sibling that sorts before the current best is searched with
// a window one point wider so that a tie is detected exactly.
func (e *Engine) searchRoot(s *core.State, depth int) (core.Move, int, bool) {
	e.metrics.AddNode()
	key := s.Key()
	maximizing := s.Turn() == core.AI

	ttBest, hasBest := e.tableMove(key)
	moves := OrderMoves(s, core.GenerateMoves(s), ttBest, hasBest)

	var (
		best  core.Move
		score int
		found bool
	)
	for i, m := range moves {
		if i > 0 && e.shouldStop() {
			return best, score, found
		}
		if !e.play(s, m) {
			continue
		}

		var v int
		switch {
		case !found:
			v = e.alphaBeta(s, depth-1, -infinity, infinity)
		case maximizing:
			alpha := score
			if m.Less(best) {
				alpha = score - 1
			}
			v = e.alphaBeta(s, depth-1, alpha, infinity)
		default:
			beta := score
			if m.Less(best) {
				beta = score + 1
			}
			v = e.alphaBeta(s, depth-1, -infinity, beta)
		}
		s.Undo()
		if e.aborted {
			return best, score, found
		}

		better := !found ||
			(maximizing && v > score) ||
			(!maximizing && v < score) ||
			(v == score && m.Less(best))
		if better {
			best, score, found = m, v, true
		}
	}

	if found && e.table != nil {
		e.table.Store(Entry{
			Key:     key,
			Score:   score,
			Depth:   depth,
			Bound:   Exact,
			Best:    best,
			HasBest: true,
			Solved:  !e.limited,
		})
	}
	return best, score, found
}

func (e *Engine) alphaBeta(s *core.State, depth, alpha, beta int) int {
	e.metrics.AddNode()

	if s.IsTerminal() {
		return e.evaluate(s)
	}
	if depth == 0 {
		e.limited = true
		return e.evaluate(s)
	}

	key := s.Key()
	var (
		ttBest  core.Move
		hasBest bool
	)
	if e.table != nil {
		e.metrics.AddProbe()
		if entry, ok := e.table.Probe(key); ok {
			ttBest, hasBest = entry.Best, entry.HasBest
			// Shallower entries only help ordering.
			if entry.Depth >= depth {
				e.metrics.AddHit()
				switch entry.Bound {
				case Exact:
					e.limited = e.limited || !entry.Solved
					return entry.Score
				case LowerBound:
					alpha = max(alpha, entry.Score)
				case UpperBound:
					beta = min(beta, entry.Score)
				}
				if alpha >= beta {
					e.limited = e.limited || !entry.Solved
					return entry.Score
				}
			}
		}
	}

	alphaOrig, betaOrig := alpha, beta
	outerLimited := e.limited
	e.limited = false

	maximizing := s.Turn() == core.AI
	var (
		best     int
		bestMove core.Move
		found    bool
	)
	moves := OrderMoves(s, core.GenerateMoves(s), ttBest, hasBest)
	for i, m := range moves {
		if i > 0 && e.shouldStop() {
			break
		}
		if !e.play(s, m) {
			continue
		}
		v := e.alphaBeta(s, depth-1, alpha, beta)
		s.Undo()
		if e.aborted {
			break
		}

		if maximizing {
			if !found || v > best {
				best, bestMove, found = v, m, true
			}
			alpha = max(alpha, best)
		} else {
			if !found || v < best {
				best, bestMove, found = v, m, true
			}
			beta = min(beta, best)
		}
		if alpha >= beta {
			e.metrics.AddCutoff()
			break
		}
	}

	solved := !e.limited
	e.limited = outerLimited || e.limited

	if e.aborted {
		return 0
	}
	if !found {
		return e.evaluate(s)
	}

	if e.table != nil {
		bound := Exact
		if best <= alphaOrig {
			bound = UpperBound
		} else if best >= betaOrig {
			bound = LowerBound
		}
		e.table.Store(Entry{
			Key:     key,
			Score:   best,
			Depth:   depth,
			Bound:   bound,
			Best:    bestMove,
			HasBest: true,
			Solved:  solved,
		})
	}
	return best
}

// play re-validates a generated move before applying it. A move that fails
// here means the generator and the rules disagree, so it is logged, counted
// and skipped.
func (e *Engine) play(s *core.State, m core.Move) bool {
	p := s.Turn()
	if err := s.CanApply(m, p); err != nil {
		e.violation(m, p, err)
		return false
	}
	if _, err := s.Apply(m, p); err != nil {
		e.violation(m, p, err)
		return false
	}
	return true
}

func (e *Engine) violation(m core.Move, p core.Player, err error) {
	e.metrics.AddViolation()
	e.logger.Error("generated move rejected", "move", m, "player", p, "err", err)
}

func (e *Engine) tableMove(key uint64) (core.Move, bool) {
	if e.table == nil {
		return core.Move{}, false
	}
	entry, ok := e.table.Probe(key)
	if !ok {
		return core.Move{}, false
	}
	return entry.Best, entry.HasBest
}

func (e *Engine) evaluate(s *core.State) int {
	return core.EvaluateWith(s, core.AI, e.weights)
}

// shouldStop reports whether the running iteration must be abandoned.
func (e *Engine) shouldStop() bool {
	if e.aborted {
		return true
	}
	if !e.canAbort {
		return false
	}
	if (e.ctx != nil && e.ctx.Err() != nil) || e.expired() {
		e.aborted = true
	}
	return e.aborted
}

func (e *Engine) expired() bool {
	if e.ctx != nil && e.ctx.Err() != nil {
		return true
	}
	return !e.deadline.IsZero() && !e.now().Before(e.deadline)
}
