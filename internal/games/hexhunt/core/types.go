// Package core provides the game logic for HexHunt: board topology, game
// state, move application, move generation and static evaluation.
// It is UI-agnostic and deterministic for a given seed.
package core

import "fmt"

// Player identifies who claimed an edge or owns a hexagon.
type Player uint8

const (
	NoPlayer Player = iota
	Human
	AI
)

// numPlayers sizes per-player arrays indexed directly by Player.
const numPlayers = 3

// Opponent returns the other player. NoPlayer has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Human:
		return AI
	case AI:
		return Human
	default:
		return NoPlayer
	}
}

// Valid reports whether p is one of the two seated players.
func (p Player) Valid() bool {
	return p == Human || p == AI
}

// String returns a human-readable name for the player.
func (p Player) String() string {
	switch p {
	case NoPlayer:
		return "none"
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return fmt.Sprintf("Player(%d)", uint8(p))
	}
}

// ParsePlayer converts a name produced by String back into a Player.
func ParsePlayer(name string) (Player, bool) {
	switch name {
	case "human":
		return Human, true
	case "ai":
		return AI, true
	case "none", "":
		return NoPlayer, true
	}
	return NoPlayer, false
}

// MoveKind distinguishes edge claims from portal swaps and gauntlet steals.
type MoveKind uint8

const (
	ClaimEdge MoveKind = iota
	PortalSwap
	GauntletSteal
)

// Move is a single action by the side to move.
// Edge moves set Edge; portal moves set Source and Target. A gauntlet steal
// sets neither.
type Move struct {
	Kind   MoveKind
	Edge   EdgeID
	Source HexID
	Target HexID
}

// EdgeMove returns a move claiming edge e.
func EdgeMove(e EdgeID) Move {
	return Move{Kind: ClaimEdge, Edge: e, Source: NoHex, Target: NoHex}
}

// PortalMove returns a move that swaps the owned portal hexagon src with
// the opponent's hexagon dst.
func PortalMove(src, dst HexID) Move {
	return Move{Kind: PortalSwap, Edge: NoEdge, Source: src, Target: dst}
}

// StealMove returns the gauntlet steal.
func StealMove() Move {
	return Move{Kind: GauntletSteal, Edge: NoEdge, Source: NoHex, Target: NoHex}
}

// Less orders moves canonically: edge claims by id, then portal swaps by
// target and source, then the steal.
func (m Move) Less(o Move) bool {
	if m.Kind != o.Kind {
		return m.Kind < o.Kind
	}
	switch m.Kind {
	case ClaimEdge:
		return m.Edge < o.Edge
	case GauntletSteal:
		return false
	}
	if m.Target != o.Target {
		return m.Target < o.Target
	}
	return m.Source < o.Source
}

// String returns a compact description of the move.
func (m Move) String() string {
	switch m.Kind {
	case ClaimEdge:
		return fmt.Sprintf("edge %d", m.Edge)
	case PortalSwap:
		return fmt.Sprintf("portal %d->%d", m.Source, m.Target)
	case GauntletSteal:
		return "gauntlet steal"
	default:
		return "unknown move"
	}
}
