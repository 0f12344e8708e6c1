package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

func TestTableProbeStore(t *testing.T) {
	tt := NewTable(0)

	_, ok := tt.Probe(42)
	require.False(t, ok)

	want := Entry{Key: 42, Score: 7, Depth: 3, Bound: LowerBound, Best: core.EdgeMove(5), HasBest: true}
	tt.Store(want)

	got, ok := tt.Probe(42)
	require.True(t, ok)
	require.Equal(t, want, got)

	stats := tt.Stats()
	require.Equal(t, 1, stats.Entries)
	require.Equal(t, uint64(2), stats.Probes)
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(1), stats.Stores)
}

func TestTableKeepsDeeperEntry(t *testing.T) {
	tt := NewTable(0)
	tt.Store(Entry{Key: 1, Score: 10, Depth: 4, Bound: Exact})
	tt.Store(Entry{Key: 1, Score: -3, Depth: 2, Bound: Exact, Best: core.EdgeMove(9), HasBest: true})

	got, ok := tt.Probe(1)
	require.True(t, ok)
	require.Equal(t, 10, got.Score)
	require.Equal(t, 4, got.Depth)
	require.True(t, got.HasBest, "best move should carry over to the kept entry")
	require.Equal(t, core.EdgeMove(9), got.Best)

	tt.Store(Entry{Key: 1, Score: 5, Depth: 4, Bound: UpperBound})
	got, _ = tt.Probe(1)
	require.Equal(t, 5, got.Score)
	require.Equal(t, UpperBound, got.Bound)
	require.Equal(t, core.EdgeMove(9), got.Best)
}

func TestTableCapDropsEverything(t *testing.T) {
	tt := NewTable(2)
	tt.Store(Entry{Key: 1, Depth: 1})
	tt.Store(Entry{Key: 2, Depth: 1})
	// Overwriting an existing key never triggers the cap.
	tt.Store(Entry{Key: 2, Depth: 2})
	require.Equal(t, 2, tt.Len())

	tt.Store(Entry{Key: 3, Depth: 1})
	require.Equal(t, 1, tt.Len())
	require.Equal(t, uint64(1), tt.Stats().Resets)

	_, ok := tt.Probe(1)
	require.False(t, ok)
	_, ok = tt.Probe(3)
	require.True(t, ok)
}

func TestTableClear(t *testing.T) {
	tt := NewTable(0)
	for k := uint64(0); k < 10; k++ {
		tt.Store(Entry{Key: k, Depth: 1})
	}
	require.Equal(t, 10, tt.Len())

	tt.Clear()
	require.Zero(t, tt.Len())
	require.Equal(t, uint64(10), tt.Stats().Stores)
}

func TestBoundString(t *testing.T) {
	tests := []struct {
		b    Bound
		want string
	}{
		{Exact, "exact"},
		{LowerBound, "lower"},
		{UpperBound, "upper"},
		{Bound(9), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.b.String(); got != tc.want {
			t.Errorf("Bound(%d).String() = %q, expected %q", tc.b, got, tc.want)
		}
	}
}
