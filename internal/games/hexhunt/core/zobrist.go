package core

import "sync"

// zobristTable holds the random keys for one board radius. A state's key is
// the XOR of its layout fingerprint and the keys for its edge claims, hexagon
// owners, side to move, bonus credits, portal sources, gauntlet lifespans and
// last treasure values, so it does not depend on move order.
type zobristTable struct {
	edges    [][numPlayers]uint64
	owners   [][numPlayers]uint64
	bonus    [numPlayers][]uint64
	portal   [numPlayers][]uint64
	gauntlet [numPlayers][GauntletLifespan + 1]uint64
	treasure [numPlayers]uint64 // seeds, mixed with the value itself
	side     uint64
}

var (
	zobristTables = make(map[int]*zobristTable)
	zobristMu     sync.Mutex
)

func zobristFor(g *Grid) *zobristTable {
	zobristMu.Lock()
	defer zobristMu.Unlock()

	if z, ok := zobristTables[g.Radius()]; ok {
		return z
	}

	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(g.Radius())}
	z := &zobristTable{
		edges:  make([][numPlayers]uint64, g.NumEdges()),
		owners: make([][numPlayers]uint64, g.NumHexes()),
	}
	for i := range z.edges {
		z.edges[i][Human] = rng.next()
		z.edges[i][AI] = rng.next()
	}
	for i := range z.owners {
		z.owners[i][Human] = rng.next()
		z.owners[i][AI] = rng.next()
	}
	for _, p := range []Player{Human, AI} {
		// Credits never exceed the number of hourglasses, so one slot per hexagon is enough.
		z.bonus[p] = make([]uint64, g.NumHexes()+1)
		for i := 1; i < len(z.bonus[p]); i++ {
			z.bonus[p][i] = rng.next()
		}
		z.portal[p] = make([]uint64, g.NumHexes())
		for i := range z.portal[p] {
			z.portal[p][i] = rng.next()
		}
	}
	z.side = rng.next()
	for _, p := range []Player{Human, AI} {
		for i := 1; i <= GauntletLifespan; i++ {
			z.gauntlet[p][i] = rng.next()
		}
		z.treasure[p] = rng.next()
	}

	zobristTables[g.Radius()] = z
	return z
}

func (z *zobristTable) edge(e EdgeID, p Player) uint64 {
	return z.edges[e][p]
}

func (z *zobristTable) owner(h HexID, p Player) uint64 {
	return z.owners[h][p]
}

func (z *zobristTable) credits(p Player, n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= len(z.bonus[p]) {
		n = len(z.bonus[p]) - 1
	}
	return z.bonus[p][n]
}

func (z *zobristTable) portalSource(p Player, h HexID) uint64 {
	if h == NoHex {
		return 0
	}
	return z.portal[p][h]
}

func (z *zobristTable) gauntletLeft(p Player, n int) uint64 {
	if n <= 0 || n > GauntletLifespan {
		return 0
	}
	return z.gauntlet[p][n]
}

// Treasure values come from Rules and are unbounded, so they are hashed
// rather than looked up.
func (z *zobristTable) lastTreasure(p Player, v int) uint64 {
	if v <= 0 {
		return 0
	}
	mix := splitmix64{state: z.treasure[p] ^ uint64(v)}
	return mix.next()
}

func (z *zobristTable) turn(p Player) uint64 {
	if p == AI {
		return z.side
	}
	return 0
}

// computeKey recomputes a state's key from scratch.
func computeKey(s *State) uint64 {
	z := s.zob
	key := s.layout.key
	for e, p := range s.claims {
		if p != NoPlayer {
			key ^= z.edge(EdgeID(e), p)
		}
	}
	for h, p := range s.owners {
		if p != NoPlayer {
			key ^= z.owner(HexID(h), p)
		}
	}
	for _, p := range []Player{Human, AI} {
		key ^= z.credits(p, s.bonus[p])
		key ^= z.portalSource(p, s.portal[p])
		key ^= z.gauntletLeft(p, s.gauntlet[p])
		key ^= z.lastTreasure(p, s.lastTreasure[p])
	}
	key ^= z.turn(s.turn)
	return key
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
