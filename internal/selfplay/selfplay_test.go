package selfplay

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

func testOptions(radius, games, workers int) Options {
	cfg := config.DefaultHexHuntConfig()
	cfg.Board.Radius = radius
	cfg.AI.MaxDepth = 2
	cfg.AI.TimeBudgetMS = 0
	return Options{Game: cfg, Games: games, Workers: workers, Seed: 100}
}

func TestRunPlaysEveryMatch(t *testing.T) {
	sum, err := NewRunner().Run(context.Background(), testOptions(1, 5, 2))
	require.NoError(t, err)

	require.Equal(t, 5, sum.Games)
	require.Equal(t, sum.Games, sum.AIWins+sum.ChallengerWin+sum.Draws)
	require.Len(t, sum.Matches, 5)
	for i, m := range sum.Matches {
		require.Equal(t, i, m.Index)
		require.Equal(t, int64(100+i), m.Seed)
		require.Positive(t, m.Moves)
		require.Positive(t, m.Challenger+m.AI)
		require.Zero(t, m.SavedID)
	}
	require.GreaterOrEqual(t, sum.HitRate(), 0.0)
	require.LessOrEqual(t, sum.HitRate(), 1.0)
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	serial, err := NewRunner().Run(context.Background(), testOptions(2, 4, 1))
	require.NoError(t, err)
	parallel, err := NewRunner().Run(context.Background(), testOptions(2, 4, 4))
	require.NoError(t, err)

	for i := range serial.Matches {
		a, b := serial.Matches[i], parallel.Matches[i]
		require.Equal(t, a.Winner, b.Winner, "match %d", i)
		require.Equal(t, a.Challenger, b.Challenger, "match %d", i)
		require.Equal(t, a.AI, b.AI, "match %d", i)
		require.Equal(t, a.AIStats.Nodes, b.AIStats.Nodes, "match %d", i)
	}
}

func TestRunSharedTable(t *testing.T) {
	opts := testOptions(2, 4, 4)
	opts.ShareTable = true
	sum, err := NewRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 4, sum.Games)
	require.Positive(t, sum.TTProbes)
	require.LessOrEqual(t, sum.TTHits, sum.TTProbes)
}

func TestRunSavesMatches(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "selfplay.db"))
	require.NoError(t, err)
	defer store.Close()

	sum, err := NewRunner(WithStore(store)).Run(context.Background(), testOptions(1, 3, 3))
	require.NoError(t, err)

	variant := hexhunt.VariantID(1)
	recent, err := store.RecentMatches(variant, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	for _, r := range recent {
		require.Equal(t, Source, r.Source)
	}
	for _, m := range sum.Matches {
		require.Positive(t, m.SavedID)
	}

	// Self-play is kept out of the human score tables.
	top, err := store.TopScores(variant, 10)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestRunRejectsBadOptions(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), testOptions(1, 0, 1))
	require.ErrorIs(t, err, ErrNoGames)

	opts := testOptions(9, 1, 1)
	_, err = NewRunner().Run(context.Background(), opts)
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner().Run(ctx, testOptions(2, 3, 2))
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestChallengerBorrowsWeights(t *testing.T) {
	// Only a depth is set, so the challenger evaluates with the AI weights.
	opts := testOptions(1, 1, 1)
	opts.Challenger.MaxDepth = 1
	sum, err := NewRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Games)
}
