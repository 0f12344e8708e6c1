package core

// LegalMoves returns every unclaimed edge in ascending id order.
func LegalMoves(s *State) []EdgeID {
	out := make([]EdgeID, 0, s.remaining)
	for e, p := range s.claims {
		if p == NoPlayer {
			out = append(out, EdgeID(e))
		}
	}
	return out
}

// IsTerminal reports whether every edge of s is claimed.
func IsTerminal(s *State) bool {
	return s.IsTerminal()
}

// PortalTargets returns the hexagons p may take with a portal swap right
// now, or nil when p holds no usable right.
func PortalTargets(s *State, p Player) []HexID {
	src := s.portal[p]
	if src == NoHex || s.owners[src] != p || s.IsTerminal() {
		return nil
	}
	var out []HexID
	opp := p.Opponent()
	for h, o := range s.owners {
		if o == opp {
			out = append(out, HexID(h))
		}
	}
	return out
}

// CanSteal reports whether p may play the gauntlet steal right now.
func CanSteal(s *State, p Player) bool {
	return !s.IsTerminal() && s.StealValue(p) > 0
}

// GenerateMoves returns every move available to the side to move: one claim
// per unclaimed edge, followed by one portal swap per opponent hexagon when a
// portal right is held, and the steal while a gauntlet has something to take.
func GenerateMoves(s *State) []Move {
	p := s.turn
	targets := PortalTargets(s, p)
	moves := make([]Move, 0, s.remaining+len(targets)+1)
	for e, c := range s.claims {
		if c == NoPlayer {
			moves = append(moves, EdgeMove(EdgeID(e)))
		}
	}
	src := s.portal[p]
	for _, h := range targets {
		moves = append(moves, PortalMove(src, h))
	}
	if CanSteal(s, p) {
		moves = append(moves, StealMove())
	}
	return moves
}

// Completes reports how many hexagons claiming e would finish.
func Completes(s *State, e EdgeID) int {
	n := 0
	for _, h := range s.grid.edges[e].Borders() {
		if s.counts[h] == 5 {
			n++
		}
	}
	return n
}

// Exposes reports whether claiming e leaves some hexagon one edge short of
// completion, handing it to whoever moves next.
func Exposes(s *State, e EdgeID) bool {
	for _, h := range s.grid.edges[e].Borders() {
		if s.counts[h] == 4 {
			return true
		}
	}
	return false
}

// PortalGain returns the mover's score change from portal move m.
func PortalGain(s *State, m Move) int {
	return s.layout.Value(m.Target) - s.layout.Value(m.Source)
}
