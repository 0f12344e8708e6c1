package search

import (
	"sort"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

// Ordering buckets, tried in ascending order.
const (
	bucketCompletes = iota
	bucketTableBest
	bucketSafe
	bucketRest
)

// OrderMoves sorts moves for alpha-beta: edges that complete a hexagon, then
// the table's best move, then edges that leave no hexagon at five of six
// (and profitable portal swaps or gauntlet steals), then everything else.
// Ties fall back to core.Move.Less, so the order is fully deterministic.
func OrderMoves(s *core.State, moves []core.Move, best core.Move, hasBest bool) []core.Move {
	buckets := make([]int, len(moves))
	idx := make([]int, len(moves))
	for i, m := range moves {
		idx[i] = i
		buckets[i] = moveBucket(s, m, best, hasBest)
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if buckets[ia] != buckets[ib] {
			return buckets[ia] < buckets[ib]
		}
		return moves[ia].Less(moves[ib])
	})

	out := make([]core.Move, len(moves))
	for i, j := range idx {
		out[i] = moves[j]
	}
	return out
}

func moveBucket(s *core.State, m core.Move, best core.Move, hasBest bool) int {
	if m.Kind == core.ClaimEdge && core.Completes(s, m.Edge) > 0 {
		return bucketCompletes
	}
	if hasBest && m == best {
		return bucketTableBest
	}
	switch m.Kind {
	case core.ClaimEdge:
		if !core.Exposes(s, m.Edge) {
			return bucketSafe
		}
	case core.PortalSwap:
		if core.PortalGain(s, m) > 0 {
			return bucketSafe
		}
	case core.GauntletSteal:
		if s.StealValue(s.Turn()) > 0 {
			return bucketSafe
		}
	}
	return bucketRest
}
