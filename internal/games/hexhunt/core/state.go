package core

// State is the complete, mutable record of one game. Topology and item
// layout are shared and immutable; claims, owners, scores, turn and effect
// flags change with every move.
type State struct {
	grid   *Grid
	layout *Layout
	zob    *zobristTable

	claims []Player // per edge
	owners []Player // per hexagon
	counts []uint8  // claimed edges per hexagon

	scores [numPlayers]int
	bonus  [numPlayers]int
	portal [numPlayers]HexID

	gauntlet     [numPlayers]int // moves left on a held gauntlet, 0 when none
	lastTreasure [numPlayers]int // bonus of the last treasure each player took

	turn      Player
	moves     int
	remaining int
	key       uint64

	history []undoRecord
}

// GameOption configures NewGame.
type GameOption func(*gameOptions)

type gameOptions struct {
	seed   int64
	rules  Rules
	placed map[HexID]Item
	fixed  bool
	first  Player
}

// WithSeed sets the seed for random item placement.
func WithSeed(seed int64) GameOption {
	return func(o *gameOptions) { o.seed = seed }
}

// WithRules overrides scoring and placement parameters.
func WithRules(r Rules) GameOption {
	return func(o *gameOptions) { o.rules = r }
}

// WithLayout places exactly the given items instead of a random layout.
// A nil or empty map yields a board without items.
func WithLayout(placed map[HexID]Item) GameOption {
	return func(o *gameOptions) {
		o.placed = placed
		o.fixed = true
	}
}

// WithFirstPlayer sets who moves first. The default is Human.
func WithFirstPlayer(p Player) GameOption {
	return func(o *gameOptions) { o.first = p }
}

// NewGame starts a game on a board of the given radius.
func NewGame(radius int, opts ...GameOption) (*State, error) {
	if radius < MinRadius || radius > MaxRadius {
		return nil, &RadiusError{Radius: radius, Min: MinRadius, Max: MaxRadius}
	}

	o := gameOptions{rules: DefaultRules(), first: Human}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.first.Valid() {
		o.first = Human
	}

	g, err := GridFor(radius)
	if err != nil {
		return nil, err
	}

	var layout *Layout
	if o.fixed {
		layout, err = FixedLayout(g, o.rules, o.placed)
		if err != nil {
			return nil, err
		}
	} else {
		layout = NewLayout(g, o.rules, o.seed)
	}

	return NewState(g, layout, o.first), nil
}

// NewState returns an empty board over an existing grid and layout.
func NewState(g *Grid, layout *Layout, first Player) *State {
	s := &State{
		grid:      g,
		layout:    layout,
		zob:       zobristFor(g),
		claims:    make([]Player, g.NumEdges()),
		owners:    make([]Player, g.NumHexes()),
		counts:    make([]uint8, g.NumHexes()),
		portal:    [numPlayers]HexID{NoHex, NoHex, NoHex},
		turn:      first,
		remaining: g.NumEdges(),
	}
	s.key = computeKey(s)
	return s
}

// Clone returns an independent copy of the game without undo history.
func (s *State) Clone() *State {
	c := *s
	c.claims = append([]Player(nil), s.claims...)
	c.owners = append([]Player(nil), s.owners...)
	c.counts = append([]uint8(nil), s.counts...)
	c.history = nil
	return &c
}

// Equal reports whether two states hold the same game data. Undo history is ignored.
func (s *State) Equal(o *State) bool {
	if s.grid.Radius() != o.grid.Radius() || !s.layout.Equal(o.layout) {
		return false
	}
	if s.scores != o.scores || s.bonus != o.bonus || s.portal != o.portal {
		return false
	}
	if s.gauntlet != o.gauntlet || s.lastTreasure != o.lastTreasure {
		return false
	}
	if s.turn != o.turn || s.moves != o.moves || s.remaining != o.remaining || s.key != o.key {
		return false
	}
	for i := range s.claims {
		if s.claims[i] != o.claims[i] {
			return false
		}
	}
	for i := range s.owners {
		if s.owners[i] != o.owners[i] || s.counts[i] != o.counts[i] {
			return false
		}
	}
	return true
}

// Grid returns the board topology.
func (s *State) Grid() *Grid { return s.grid }

// Layout returns the item placement.
func (s *State) Layout() *Layout { return s.layout }

// Radius returns the board radius.
func (s *State) Radius() int { return s.grid.Radius() }

// Claim returns who claimed edge e, or NoPlayer.
func (s *State) Claim(e EdgeID) Player { return s.claims[e] }

// Owner returns who completed hexagon h, or NoPlayer.
func (s *State) Owner(h HexID) Player { return s.owners[h] }

// Completed reports whether all six edges of h are claimed.
func (s *State) Completed(h HexID) bool { return s.counts[h] == 6 }

// ClaimedEdges returns how many of h's edges are claimed.
func (s *State) ClaimedEdges(h HexID) int { return int(s.counts[h]) }

// Score returns p's points.
func (s *State) Score(p Player) int { return s.scores[p] }

// Turn returns the side to move.
func (s *State) Turn() Player { return s.turn }

// BonusCredits returns p's unused bonus-turn credits.
func (s *State) BonusCredits(p Player) int { return s.bonus[p] }

// PortalSource returns the hexagon backing p's portal-claim right.
func (s *State) PortalSource(p Player) (HexID, bool) {
	h := s.portal[p]
	return h, h != NoHex
}

// GauntletLeft returns how many more of p's moves a held gauntlet survives,
// or 0 when p holds none.
func (s *State) GauntletLeft(p Player) int { return s.gauntlet[p] }

// LastTreasure returns the treasure bonus of the last treasure hexagon p
// completed, or 0.
func (s *State) LastTreasure(p Player) int { return s.lastTreasure[p] }

// StealValue returns what a gauntlet steal by p would take right now: the
// opponent's last treasure bonus, capped by their score. It is 0 when p holds
// no gauntlet.
func (s *State) StealValue(p Player) int {
	if !p.Valid() || s.gauntlet[p] == 0 {
		return 0
	}
	opp := p.Opponent()
	return min(s.lastTreasure[opp], s.scores[opp])
}

// MoveCount returns the number of moves applied.
func (s *State) MoveCount() int { return s.moves }

// Remaining returns the number of unclaimed edges.
func (s *State) Remaining() int { return s.remaining }

// Key returns the order-independent position key.
func (s *State) Key() uint64 { return s.key }

// RecomputeKey derives the key from scratch, ignoring the incremental value.
func (s *State) RecomputeKey() uint64 { return computeKey(s) }

// IsTerminal reports whether every edge is claimed.
func (s *State) IsTerminal() bool { return s.remaining == 0 }

// Depth returns the number of moves that can be undone.
func (s *State) Depth() int { return len(s.history) }

// Winner returns the leader on a finished board, or NoPlayer for a tie or
// an unfinished game.
func (s *State) Winner() Player {
	if !s.IsTerminal() {
		return NoPlayer
	}
	switch {
	case s.scores[Human] > s.scores[AI]:
		return Human
	case s.scores[AI] > s.scores[Human]:
		return AI
	default:
		return NoPlayer
	}
}

// OwnedHexes returns the hexagons p owns in id order.
func (s *State) OwnedHexes(p Player) []HexID {
	var out []HexID
	for h, o := range s.owners {
		if o == p {
			out = append(out, HexID(h))
		}
	}
	return out
}
