// Package hexhunt wires the HexHunt rules and search engine into playable
// sessions: the terminal game registered with the platform, and the Session
// type shared by the SSH, HTTP and self-play front ends.
package hexhunt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/search"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

// Telemetry sums the engine statistics of every AI move in a session.
type Telemetry struct {
	Searches   int
	Nodes      int64
	TTProbes   int64
	TTHits     int64
	Cutoffs    int64
	Violations int64
	MaxDepth   int
	Think      time.Duration
}

// Add folds one search into the totals.
func (t *Telemetry) Add(st search.Stats) {
	t.Searches++
	t.Nodes += st.Nodes
	t.TTProbes += st.TTProbes
	t.TTHits += st.TTHits
	t.Cutoffs += st.Cutoffs
	t.Violations += st.InvariantViolations
	t.MaxDepth = max(t.MaxDepth, st.Depth)
	t.Think += st.Elapsed
}

// NewEngine builds a search engine from the AI configuration. A nil table
// gets a private one sized by the config.
func NewEngine(ai config.AIConfig, weights core.EvalWeights, logger *log.Logger, table *search.Table) *search.Engine {
	opts := []search.Option{
		search.WithMaxDepth(ai.MaxDepth),
		search.WithTimeBudget(ai.TimeBudget()),
		search.WithWeights(weights),
		search.WithLogger(logger),
	}
	switch {
	case !ai.Table.Enabled:
		opts = append(opts, search.WithoutTable())
	case table != nil:
		opts = append(opts, search.WithTable(table))
	default:
		opts = append(opts, search.WithTable(search.NewTable(ai.Table.MaxEntries)))
	}
	return search.New(opts...)
}

// Session is one game between a human and the engine. It is not safe for
// concurrent use; network front ends guard it with their own lock.
type Session struct {
	cfg     config.HexHuntConfig
	seed    int64
	state   *core.State
	engine  *search.Engine
	logger  *log.Logger
	now     func() time.Time
	started time.Time

	ai       Telemetry
	last     search.Result
	hasLast  bool
	lastAI   core.Move
	hasAI    bool
	finished time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger routes session and engine logs to l.
func WithSessionLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine replaces the engine built from the config. The engine's table
// is left as is, so several sessions may share one.
func WithEngine(e *search.Engine) SessionOption {
	return func(s *Session) { s.engine = e }
}

// WithSessionClock replaces time.Now.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession starts a game on the configured radius with the given layout
// seed.
func NewSession(cfg config.HexHuntConfig, seed int64, opts ...SessionOption) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		seed:   seed,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := core.NewGame(cfg.Board.Radius, cfg.GameOptions(seed)...)
	if err != nil {
		return nil, fmt.Errorf("hexhunt: new session: %w", err)
	}
	s.state = state
	if s.engine == nil {
		s.engine = NewEngine(cfg.AI, cfg.AI.Weights, s.logger, nil)
	}
	s.started = s.now()

	s.logger.Debug("session started", "radius", cfg.Board.Radius, "seed", seed, "first", state.Turn())
	return s, nil
}

// State returns the live game state. Callers must not modify it directly.
func (s *Session) State() *core.State { return s.state }

// Config returns the configuration the session was started with.
func (s *Session) Config() config.HexHuntConfig { return s.cfg }

// Seed returns the layout seed.
func (s *Session) Seed() int64 { return s.seed }

// Engine returns the session's search engine.
func (s *Session) Engine() *search.Engine { return s.engine }

// Telemetry returns the accumulated AI search statistics.
func (s *Session) Telemetry() Telemetry { return s.ai }

// LastSearch returns the most recent AI search result.
func (s *Session) LastSearch() (search.Result, bool) { return s.last, s.hasLast }

// LastAIMove returns the AI's most recent move.
func (s *Session) LastAIMove() (core.Move, bool) { return s.lastAI, s.hasAI }

// Play applies the human's move.
func (s *Session) Play(m core.Move) (core.Outcome, error) {
	out, err := s.state.PlayMove(m, core.Human)
	if err != nil {
		return core.Outcome{}, err
	}
	s.afterMove(out)
	return out, nil
}

// PlayAI searches and applies one AI move. It fails with core.ErrNotYourTurn
// when the human is to move and with search.ErrTerminal when the game is over.
func (s *Session) PlayAI(ctx context.Context) (core.Outcome, search.Result, error) {
	res, err := s.ThinkAI(ctx)
	if err != nil {
		return core.Outcome{}, search.Result{}, err
	}
	out, err := s.ApplyAI(res)
	return out, res, err
}

// ThinkAI searches the AI's move without playing it. It only reads the
// board, so it may run on another goroutine as long as nothing moves until
// ApplyAI.
func (s *Session) ThinkAI(ctx context.Context) (search.Result, error) {
	if s.state.IsTerminal() {
		return search.Result{}, search.ErrTerminal
	}
	if s.state.Turn() != core.AI {
		return search.Result{}, core.ErrNotYourTurn
	}
	res, err := s.engine.Search(ctx, s.state, search.Budget{})
	if err != nil {
		return search.Result{}, fmt.Errorf("hexhunt: ai search: %w", err)
	}
	return res, nil
}

// ApplyAI plays a move found by ThinkAI and records its search stats.
func (s *Session) ApplyAI(res search.Result) (core.Outcome, error) {
	out, err := s.state.PlayMove(res.Move, core.AI)
	if err != nil {
		// The engine validated this move against the same state.
		s.logger.Error("engine chose an illegal move", "move", res.Move, "err", err)
		return core.Outcome{}, fmt.Errorf("hexhunt: ai move: %w", err)
	}

	s.ai.Add(res.Stats)
	s.last, s.hasLast = res, true
	s.lastAI, s.hasAI = res.Move, true
	s.logger.Debug("ai moved",
		"move", res.Move,
		"score", res.Score,
		"depth", res.Depth,
		"nodes", res.Stats.Nodes,
		"elapsed", res.Stats.Elapsed,
	)
	s.afterMove(out)
	return out, nil
}

// Hint asks the engine for the human's best move without playing it.
func (s *Session) Hint(ctx context.Context) (search.Result, error) {
	if s.state.IsTerminal() {
		return search.Result{}, search.ErrTerminal
	}
	if s.state.Turn() != core.Human {
		return search.Result{}, core.ErrNotYourTurn
	}
	return s.engine.Search(ctx, s.state, search.Budget{})
}

func (s *Session) afterMove(out core.Outcome) {
	if out.Terminal && s.finished.IsZero() {
		s.finished = s.now()
		s.logger.Info("game over",
			"winner", s.state.Winner(),
			"human", s.state.Score(core.Human),
			"ai", s.state.Score(core.AI),
			"moves", s.state.MoveCount(),
		)
	}
}

// Finished reports whether every edge is claimed.
func (s *Session) Finished() bool { return s.state.IsTerminal() }

// Result returns "win", "loss" or "draw" from the human's side, or "" while
// the game is running.
func (s *Session) Result() string {
	if !s.state.IsTerminal() {
		return ""
	}
	switch s.state.Winner() {
	case core.Human:
		return "win"
	case core.AI:
		return "loss"
	default:
		return "draw"
	}
}

// Record summarizes the session for storage.
func (s *Session) Record(variant, source string) storage.MatchRecord {
	winner := storage.WinnerDraw
	switch s.state.Winner() {
	case core.Human:
		winner = storage.WinnerHuman
	case core.AI:
		winner = storage.WinnerAI
	}
	end := s.finished
	if end.IsZero() {
		end = s.now()
	}
	return storage.MatchRecord{
		Variant:    variant,
		Radius:     s.state.Radius(),
		Seed:       s.seed,
		Difficulty: string(s.cfg.AI.Difficulty),
		Source:     source,
		HumanScore: s.state.Score(core.Human),
		AIScore:    s.state.Score(core.AI),
		Winner:     winner,
		Moves:      s.state.MoveCount(),
		Duration:   end.Sub(s.started),
		AISearches: s.ai.Searches,
		AINodes:    s.ai.Nodes,
		AITTProbes: s.ai.TTProbes,
		AITTHits:   s.ai.TTHits,
		AIMaxDepth: s.ai.MaxDepth,
		AIThink:    s.ai.Think,
	}
}
