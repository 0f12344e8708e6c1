package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

// orderingPosition leaves the centre hexagon one edge short of completion
// and its south-east neighbour four edges in.
func orderingPosition(t *testing.T) *core.State {
	t.Helper()
	s, err := core.NewGame(2, core.WithLayout(nil))
	require.NoError(t, err)

	centre := s.Grid().Hex(3).Edges
	south := s.Grid().Hex(6).Edges
	for _, e := range []core.EdgeID{centre[0], centre[1], centre[2], centre[3], centre[4], south[0], south[1], south[2]} {
		_, err := core.ApplyMove(s, e, core.Human)
		require.NoError(t, err)
	}
	require.Equal(t, 5, s.ClaimedEdges(3))
	require.Equal(t, 4, s.ClaimedEdges(6))
	return s
}

func TestOrderMovesBuckets(t *testing.T) {
	s := orderingPosition(t)
	centre := s.Grid().Hex(3).Edges
	south := s.Grid().Hex(6).Edges

	best := core.EdgeMove(south[4])
	ordered := OrderMoves(s, core.GenerateMoves(s), best, true)

	require.Len(t, ordered, s.Remaining())
	require.Equal(t, core.EdgeMove(centre[5]), ordered[0], "completing edge goes first")
	require.Equal(t, best, ordered[1], "table move follows completions")

	for i := 1; i < len(ordered); i++ {
		a, b := moveBucket(s, ordered[i-1], best, true), moveBucket(s, ordered[i], best, true)
		require.LessOrEqual(t, a, b, "buckets out of order at %d", i)
		if a == b {
			require.True(t, ordered[i-1].Less(ordered[i]), "ties out of order at %d", i)
		}
	}

	// The other edge of the four-claimed neighbour would hand over a hexagon.
	require.Equal(t, bucketRest, moveBucket(s, core.EdgeMove(south[3]), best, true))
}

func TestOrderMovesDeterministic(t *testing.T) {
	s := orderingPosition(t)
	moves := core.GenerateMoves(s)
	want := OrderMoves(s, moves, core.Move{}, false)

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 10; i++ {
		shuffled := append([]core.Move(nil), moves...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, OrderMoves(s, shuffled, core.Move{}, false))
	}
}

func TestOrderMovesPortalGain(t *testing.T) {
	g, err := core.GridFor(2)
	require.NoError(t, err)
	s, err := core.NewGame(2, core.WithLayout(map[core.HexID]core.Item{
		0: {Artifact: core.Compass},
		6: {Treasure: core.Gold},
		5: {Treasure: core.Copper},
	}), core.WithFirstPlayer(core.AI))
	require.NoError(t, err)

	claimHex := func(h core.HexID, p core.Player) {
		for _, e := range g.Hex(h).Edges {
			if s.Claim(e) == core.NoPlayer {
				_, err := core.ApplyMove(s, e, p)
				require.NoError(t, err)
			}
		}
	}
	claimHex(6, core.Human)
	claimHex(5, core.Human)
	claimHex(0, core.AI)
	require.Equal(t, core.AI, s.Owner(0))

	src, ok := s.PortalSource(core.AI)
	require.True(t, ok)

	gold := core.PortalMove(src, 6)
	require.Equal(t, bucketSafe, moveBucket(s, gold, core.Move{}, false))
	// Compass hexagon is worth 1 and copper 2, still a gain.
	require.Equal(t, bucketSafe, moveBucket(s, core.PortalMove(src, 5), core.Move{}, false))
}

func TestOrderMovesGauntletSteal(t *testing.T) {
	g, err := core.GridFor(2)
	require.NoError(t, err)
	s, err := core.NewGame(2, core.WithLayout(map[core.HexID]core.Item{
		0: {Artifact: core.Gauntlet},
		6: {Treasure: core.Silver},
	}))
	require.NoError(t, err)
	for _, h := range []core.HexID{6, 0} {
		p := core.Human
		if h == 0 {
			p = core.AI
		}
		for _, e := range g.Hex(h).Edges {
			if s.Claim(e) == core.NoPlayer {
				_, err := core.ApplyMove(s, e, p)
				require.NoError(t, err)
			}
		}
	}
	require.Equal(t, core.AI, s.Turn())

	steal := core.StealMove()
	require.Equal(t, bucketSafe, moveBucket(s, steal, core.Move{}, false))

	ordered := OrderMoves(s, core.GenerateMoves(s), core.Move{}, false)
	last := ordered[len(ordered)-1]
	require.NotEqual(t, steal, last, "a profitable steal is not left for last")
}
