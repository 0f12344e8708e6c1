// Package selfplay runs engine-against-engine HexHunt matches in parallel,
// for tuning evaluator weights and search limits.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/search"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

// Source tags stored self-play matches so score tables can skip them.
const Source = "selfplay"

// ErrNoGames is returned when a run is asked for zero matches.
var ErrNoGames = errors.New("selfplay: no games requested")

// Options describes a batch of matches. The engine configured in
// Game.AI plays the AI seat; Challenger plays the human seat.
type Options struct {
	Game       config.HexHuntConfig
	Challenger config.AIConfig
	Games      int
	Workers    int
	Seed       int64 // match i is laid out from Seed+i
	ShareTable bool  // AI seat engines share one transposition table
}

// MatchResult is the outcome of one match.
type MatchResult struct {
	Index      int
	Seed       int64
	Winner     core.Player
	Challenger int // human seat score
	AI         int
	Moves      int
	AIStats    hexhunt.Telemetry
	Duration   time.Duration
	SavedID    int64
}

// Summary aggregates a batch.
type Summary struct {
	Games         int
	AIWins        int
	ChallengerWin int
	Draws         int
	Nodes         int64
	TTProbes      int64
	TTHits        int64
	Think         time.Duration
	Matches       []MatchResult
	Elapsed       time.Duration
}

// HitRate returns the AI seat's transposition table hit ratio.
func (s Summary) HitRate() float64 {
	if s.TTProbes == 0 {
		return 0
	}
	return float64(s.TTHits) / float64(s.TTProbes)
}

// AvgNodes returns the AI seat's mean nodes per match.
func (s Summary) AvgNodes() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Nodes) / float64(s.Games)
}

func (s *Summary) add(r MatchResult) {
	s.Games++
	switch r.Winner {
	case core.AI:
		s.AIWins++
	case core.Human:
		s.ChallengerWin++
	default:
		s.Draws++
	}
	s.Nodes += r.AIStats.Nodes
	s.TTProbes += r.AIStats.TTProbes
	s.TTHits += r.AIStats.TTHits
	s.Think += r.AIStats.Think
}

// Runner plays batches of matches.
type Runner struct {
	store  *storage.Store
	logger *log.Logger
	now    func() time.Time
	saveMu sync.Mutex // sqlite allows one writer at a time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStore saves each finished match.
func WithStore(st *storage.Store) RunnerOption {
	return func(r *Runner) { r.store = st }
}

// WithLogger routes match logs to l.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner returns a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: log.New(io.Discard), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays opts.Games matches on at most opts.Workers goroutines. Each match
// gets its own pair of engines; only the shared table, if any, crosses
// goroutines. The first failing match cancels the rest.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Games <= 0 {
		return Summary{}, ErrNoGames
	}
	if err := opts.Game.Validate(); err != nil {
		return Summary{}, err
	}
	if opts.Challenger.MaxDepth <= 0 {
		opts.Challenger = opts.Game.AI
	}
	if opts.Challenger.Weights.Win <= 0 {
		opts.Challenger.Weights = opts.Game.AI.Weights
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var shared *search.Table
	if opts.ShareTable && opts.Game.AI.Table.Enabled {
		shared = search.NewTable(opts.Game.AI.Table.MaxEntries)
	}

	start := r.now()
	results := make([]MatchResult, opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Games; i++ {
		g.Go(func() error {
			res, err := r.playMatch(ctx, opts, i, shared)
			if err != nil {
				return fmt.Errorf("selfplay: match %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Matches: results, Elapsed: r.now().Sub(start)}
	for _, res := range results {
		sum.add(res)
	}
	r.logger.Info("self-play finished",
		"games", sum.Games,
		"ai_wins", sum.AIWins,
		"challenger_wins", sum.ChallengerWin,
		"draws", sum.Draws,
		"hit_rate", fmt.Sprintf("%.2f", sum.HitRate()),
		"elapsed", sum.Elapsed,
	)
	return sum, nil
}

func (r *Runner) playMatch(ctx context.Context, opts Options, i int, shared *search.Table) (MatchResult, error) {
	seed := opts.Seed + int64(i)
	ai := hexhunt.NewEngine(opts.Game.AI, opts.Game.AI.Weights, r.logger, shared)
	challenger := hexhunt.NewEngine(opts.Challenger, opts.Challenger.Weights, r.logger, nil)

	sess, err := hexhunt.NewSession(opts.Game, seed,
		hexhunt.WithEngine(ai),
		hexhunt.WithSessionLogger(r.logger),
	)
	if err != nil {
		return MatchResult{}, err
	}

	started := r.now()
	s := sess.State()
	for !s.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return MatchResult{}, err
		}
		if s.Turn() == core.AI {
			if _, _, err := sess.PlayAI(ctx); err != nil {
				return MatchResult{}, err
			}
			continue
		}
		res, err := challenger.Search(ctx, s, search.Budget{})
		if err != nil {
			return MatchResult{}, fmt.Errorf("challenger search: %w", err)
		}
		if _, err := sess.Play(res.Move); err != nil {
			return MatchResult{}, fmt.Errorf("challenger move: %w", err)
		}
	}

	out := MatchResult{
		Index:      i,
		Seed:       seed,
		Winner:     s.Winner(),
		Challenger: s.Score(core.Human),
		AI:         s.Score(core.AI),
		Moves:      s.MoveCount(),
		AIStats:    sess.Telemetry(),
		Duration:   r.now().Sub(started),
	}

	if r.store != nil {
		r.saveMu.Lock()
		id, err := r.store.SaveMatch(sess.Record(hexhunt.VariantID(opts.Game.Board.Radius), Source))
		r.saveMu.Unlock()
		if err != nil {
			return MatchResult{}, err
		}
		out.SavedID = id
	}

	r.logger.Debug("match finished",
		"match", i,
		"seed", seed,
		"winner", out.Winner,
		"challenger", out.Challenger,
		"ai", out.AI,
	)
	return out, nil
}
