package core

// Completion reports one hexagon finished by a move.
type Completion struct {
	Hex    HexID
	Points int
	Item   Item
}

// Outcome is everything a move changed that a caller may want to react to.
type Outcome struct {
	Move      Move
	Player    Player
	Completed []Completion

	// Gained is the mover's score change. A portal swap can make it negative.
	Gained int

	BonusGranted    int
	BonusConsumed   bool
	PortalGranted   bool
	PortalUsed      bool
	GauntletGranted bool
	GauntletExpired bool

	// Stolen is what a gauntlet steal took from the opponent.
	Stolen int

	ExtraTurn bool
	Next      Player
	Terminal  bool
}

// CompletedHexes returns the ids of the hexagons finished by the move.
func (o Outcome) CompletedHexes() []HexID {
	out := make([]HexID, len(o.Completed))
	for i, c := range o.Completed {
		out[i] = c.Hex
	}
	return out
}

type undoRecord struct {
	move   Move
	player Player

	completed  [2]HexID
	ncompleted int

	turn         Player
	scores       [numPlayers]int
	bonus        [numPlayers]int
	portal       [numPlayers]HexID
	gauntlet     [numPlayers]int
	lastTreasure [numPlayers]int
	key          uint64
}

// ApplyMove claims edge e for p. It fails with an *IllegalMoveError when the
// edge is not on the board or already claimed, leaving s unchanged.
func ApplyMove(s *State, e EdgeID, p Player) (Outcome, error) {
	return s.Apply(EdgeMove(e), p)
}

// CanApply validates m for p without changing s.
func (s *State) CanApply(m Move, p Player) error {
	if !p.Valid() {
		return illegal(m, p, ReasonUnknownPlayer)
	}

	switch m.Kind {
	case ClaimEdge:
		if !s.grid.HasEdge(m.Edge) {
			return illegal(m, p, ReasonNoSuchEdge)
		}
		if s.claims[m.Edge] != NoPlayer {
			return illegal(m, p, ReasonClaimed)
		}
		return nil

	case PortalSwap:
		if s.IsTerminal() {
			return illegal(m, p, ReasonGameOver)
		}
		src := s.portal[p]
		if src == NoHex {
			return illegal(m, p, ReasonNoPortal)
		}
		if m.Source != src {
			return illegal(m, p, ReasonWrongSource)
		}
		if s.owners[src] != p {
			return illegal(m, p, ReasonSourceLost)
		}
		if !s.grid.HasHex(m.Target) || s.owners[m.Target] != p.Opponent() {
			return illegal(m, p, ReasonBadTarget)
		}
		return nil

	case GauntletSteal:
		if s.IsTerminal() {
			return illegal(m, p, ReasonGameOver)
		}
		if s.gauntlet[p] == 0 {
			return illegal(m, p, ReasonNoGauntlet)
		}
		if s.StealValue(p) == 0 {
			return illegal(m, p, ReasonNothingToTake)
		}
		return nil
	}

	return illegal(m, p, ReasonUnknownKind)
}

// PlayMove applies m for p only if p is the side to move.
func (s *State) PlayMove(m Move, p Player) (Outcome, error) {
	if p != s.turn {
		return Outcome{}, ErrNotYourTurn
	}
	return s.Apply(m, p)
}

// Apply validates and performs m for p, recording an undo entry.
//
// Every move except the steal itself wears down a gauntlet p holds; it is
// gone once GauntletLifespan of p's moves have passed unused.
//
// After the move p keeps the turn if it completed a hexagon, or if p holds a
// bonus-turn credit, which is then consumed. Otherwise the turn passes.
func (s *State) Apply(m Move, p Player) (Outcome, error) {
	if err := s.CanApply(m, p); err != nil {
		return Outcome{}, err
	}

	u := undoRecord{
		move:         m,
		player:       p,
		turn:         s.turn,
		scores:       s.scores,
		bonus:        s.bonus,
		portal:       s.portal,
		gauntlet:     s.gauntlet,
		lastTreasure: s.lastTreasure,
		key:          s.key,
	}
	out := Outcome{Move: m, Player: p}
	before := s.scores[p]

	if n := s.gauntlet[p]; n > 0 && m.Kind != GauntletSteal {
		s.setGauntlet(p, n-1)
		out.GauntletExpired = n == 1
	}

	switch m.Kind {
	case ClaimEdge:
		s.claimEdge(m.Edge, p, &u, &out)
	case PortalSwap:
		s.swapPortal(m, p, &out)
	case GauntletSteal:
		s.steal(p, &out)
	}

	s.advanceTurn(p, &out)
	s.moves++
	s.history = append(s.history, u)

	out.Gained = s.scores[p] - before
	out.Next = s.turn
	out.Terminal = s.IsTerminal()
	return out, nil
}

func (s *State) claimEdge(e EdgeID, p Player, u *undoRecord, out *Outcome) {
	s.claims[e] = p
	s.key ^= s.zob.edge(e, p)
	s.remaining--

	for _, h := range s.grid.edges[e].Borders() {
		s.counts[h]++
		if s.counts[h] != 6 {
			continue
		}

		s.setOwner(h, p)
		pts := s.layout.Value(h)
		s.scores[p] += pts
		item := s.layout.Item(h)
		if v := s.layout.TreasureValue(h); v > 0 {
			s.setLastTreasure(p, v)
		}

		switch item.Artifact {
		case Hourglass:
			s.setCredits(p, s.bonus[p]+1)
			out.BonusGranted++
		case Compass:
			s.setPortal(p, h)
			out.PortalGranted = true
		case Gauntlet:
			s.setGauntlet(p, GauntletLifespan)
			out.GauntletGranted = true
			out.GauntletExpired = false
		}

		out.Completed = append(out.Completed, Completion{Hex: h, Points: pts, Item: item})
		u.completed[u.ncompleted] = h
		u.ncompleted++
	}
}

func (s *State) swapPortal(m Move, p Player, out *Outcome) {
	opp := p.Opponent()
	src, dst := m.Source, m.Target

	s.setOwner(src, opp)
	s.setOwner(dst, p)

	delta := s.layout.Value(dst) - s.layout.Value(src)
	s.scores[p] += delta
	s.scores[opp] -= delta

	s.setPortal(p, NoHex)
	out.PortalUsed = true
}

func (s *State) steal(p Player, out *Outcome) {
	v := s.StealValue(p)
	s.scores[p] += v
	s.scores[p.Opponent()] -= v
	s.setGauntlet(p, 0)
	out.Stolen = v
}

func (s *State) advanceTurn(p Player, out *Outcome) {
	next := p.Opponent()
	switch {
	case len(out.Completed) > 0:
		next = p
		out.ExtraTurn = true
	case s.bonus[p] > 0:
		s.setCredits(p, s.bonus[p]-1)
		next = p
		out.ExtraTurn = true
		out.BonusConsumed = true
	}
	s.setTurn(next)
}

func (s *State) setOwner(h HexID, p Player) {
	if old := s.owners[h]; old != NoPlayer {
		s.key ^= s.zob.owner(h, old)
	}
	s.owners[h] = p
	if p != NoPlayer {
		s.key ^= s.zob.owner(h, p)
	}
}

func (s *State) setCredits(p Player, n int) {
	s.key ^= s.zob.credits(p, s.bonus[p])
	s.bonus[p] = n
	s.key ^= s.zob.credits(p, n)
}

func (s *State) setPortal(p Player, h HexID) {
	s.key ^= s.zob.portalSource(p, s.portal[p])
	s.portal[p] = h
	s.key ^= s.zob.portalSource(p, h)
}

func (s *State) setGauntlet(p Player, n int) {
	s.key ^= s.zob.gauntletLeft(p, s.gauntlet[p])
	s.gauntlet[p] = n
	s.key ^= s.zob.gauntletLeft(p, n)
}

func (s *State) setLastTreasure(p Player, v int) {
	s.key ^= s.zob.lastTreasure(p, s.lastTreasure[p])
	s.lastTreasure[p] = v
	s.key ^= s.zob.lastTreasure(p, v)
}

func (s *State) setTurn(p Player) {
	s.key ^= s.zob.turn(s.turn)
	s.turn = p
	s.key ^= s.zob.turn(p)
}

// Undo reverts the most recent Apply. It returns false when there is nothing to undo.
func (s *State) Undo() bool {
	n := len(s.history)
	if n == 0 {
		return false
	}
	u := s.history[n-1]
	s.history = s.history[:n-1]

	switch u.move.Kind {
	case ClaimEdge:
		for i := 0; i < u.ncompleted; i++ {
			s.owners[u.completed[i]] = NoPlayer
		}
		for _, h := range s.grid.edges[u.move.Edge].Borders() {
			s.counts[h]--
		}
		s.claims[u.move.Edge] = NoPlayer
		s.remaining++
	case PortalSwap:
		s.owners[u.move.Source] = u.player
		s.owners[u.move.Target] = u.player.Opponent()
	}

	s.turn = u.turn
	s.scores = u.scores
	s.bonus = u.bonus
	s.portal = u.portal
	s.gauntlet = u.gauntlet
	s.lastTreasure = u.lastTreasure
	s.key = u.key
	s.moves--
	return true
}
