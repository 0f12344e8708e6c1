package hexhunt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/search"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

func testConfig(radius int) config.HexHuntConfig {
	cfg := config.DefaultHexHuntConfig()
	cfg.Board.Radius = radius
	cfg.AI.MaxDepth = 2
	cfg.AI.TimeBudgetMS = 0
	return cfg
}

// fakeClock advances a second per reading.
func fakeClock() func() time.Time {
	now := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// playHuman claims the lowest free edge for the human.
func playHuman(t *testing.T, s *Session) {
	t.Helper()
	legal := core.LegalMoves(s.State())
	require.NotEmpty(t, legal)
	_, err := s.Play(core.EdgeMove(legal[0]))
	require.NoError(t, err)
}

func TestSessionPlaysToEnd(t *testing.T) {
	for _, radius := range []int{1, 2} {
		s, err := NewSession(testConfig(radius), 42, WithSessionClock(fakeClock()))
		require.NoError(t, err)

		for !s.Finished() {
			if s.State().Turn() == core.Human {
				playHuman(t, s)
				continue
			}
			_, res, err := s.PlayAI(context.Background())
			require.NoError(t, err)
			require.GreaterOrEqual(t, res.Depth, 1)
		}

		st := s.State()
		require.Equal(t, st.Layout().TotalValue(), st.Score(core.Human)+st.Score(core.AI))
		require.Contains(t, []string{"win", "loss", "draw"}, s.Result())

		tel := s.Telemetry()
		require.Positive(t, tel.Searches)
		require.Positive(t, tel.Nodes)
		require.Zero(t, tel.Violations)

		rec := s.Record(VariantID(radius), "test")
		require.Equal(t, radius, rec.Radius)
		require.Equal(t, int64(42), rec.Seed)
		require.Equal(t, st.MoveCount(), rec.Moves)
		require.Equal(t, tel.Searches, rec.AISearches)
		require.Positive(t, rec.Duration)
		switch s.Result() {
		case "win":
			require.Equal(t, storage.WinnerHuman, rec.Winner)
		case "loss":
			require.Equal(t, storage.WinnerAI, rec.Winner)
		default:
			require.Equal(t, storage.WinnerDraw, rec.Winner)
		}
	}
}

func TestSessionTurnChecks(t *testing.T) {
	s, err := NewSession(testConfig(2), 1)
	require.NoError(t, err)
	require.Equal(t, core.Human, s.State().Turn())

	_, _, err = s.PlayAI(context.Background())
	require.ErrorIs(t, err, core.ErrNotYourTurn)

	cfg := testConfig(2)
	cfg.Board.FirstPlayer = "ai"
	s, err = NewSession(cfg, 1)
	require.NoError(t, err)

	_, err = s.Hint(context.Background())
	require.ErrorIs(t, err, core.ErrNotYourTurn)
	_, err = s.Play(core.EdgeMove(0))
	require.ErrorIs(t, err, core.ErrNotYourTurn)
}

func TestSessionHintMatchesEngine(t *testing.T) {
	s, err := NewSession(testConfig(2), 3)
	require.NoError(t, err)

	hint, err := s.Hint(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.State().CanApply(hint.Move, core.Human))
	_, ok := s.LastSearch()
	require.False(t, ok, "hints are not AI moves")
}

func TestSessionRejectsIllegalMove(t *testing.T) {
	s, err := NewSession(testConfig(1), 1)
	require.NoError(t, err)
	playHuman(t, s)

	before := s.State().Clone()
	_, err = s.Play(core.EdgeMove(99))
	require.ErrorIs(t, err, core.ErrIllegalMove)
	require.True(t, s.State().Equal(before))
}

func TestSessionInvalidRadius(t *testing.T) {
	_, err := NewSession(testConfig(0), 1)
	require.Error(t, err)
	if !errors.Is(err, core.ErrInvalidRadius) {
		t.Errorf("NewSession() error = %v, expected ErrInvalidRadius", err)
	}
}

func TestSessionTerminalAI(t *testing.T) {
	s, err := NewSession(testConfig(1), 1)
	require.NoError(t, err)
	for !s.Finished() {
		if s.State().Turn() == core.Human {
			playHuman(t, s)
		} else {
			_, _, err := s.PlayAI(context.Background())
			require.NoError(t, err)
		}
	}
	_, _, err = s.PlayAI(context.Background())
	require.ErrorIs(t, err, search.ErrTerminal)
	_, err = s.Hint(context.Background())
	require.ErrorIs(t, err, search.ErrTerminal)
}

func TestSessionSharedEngine(t *testing.T) {
	table := search.NewTable(0)
	eng := NewEngine(testConfig(2).AI, core.DefaultWeights(), nil, table)
	require.Same(t, table, eng.Table())

	table.Store(search.Entry{Key: 1, Depth: 1})
	s, err := NewSession(testConfig(2), 5, WithEngine(eng))
	require.NoError(t, err)
	require.Same(t, eng, s.Engine())
	require.Equal(t, 1, table.Len(), "shared tables survive a new session")

	fresh, err := NewSession(testConfig(2), 5)
	require.NoError(t, err)
	require.Zero(t, fresh.Engine().Table().Len())
}

func TestSessionThinkThenApply(t *testing.T) {
	cfg := testConfig(2)
	cfg.Board.FirstPlayer = "ai"
	s, err := NewSession(cfg, 3)
	require.NoError(t, err)
	require.Equal(t, core.AI, s.State().Turn())

	before := s.State().Clone()
	res, err := s.ThinkAI(context.Background())
	require.NoError(t, err)
	require.True(t, s.State().Equal(before), "thinking must not touch the board")
	_, ok := s.LastSearch()
	require.False(t, ok)

	out, err := s.ApplyAI(res)
	require.NoError(t, err)
	require.Equal(t, res.Move, out.Move)
	last, ok := s.LastAIMove()
	require.True(t, ok)
	require.Equal(t, res.Move, last)
	require.Equal(t, 1, s.Telemetry().Searches)
}
