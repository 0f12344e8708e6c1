package core

import (
	"fmt"
	"math/rand"
	"strings"
)

// Treasure is a point bonus placed on a hexagon.
type Treasure uint8

const (
	NoTreasure Treasure = iota
	Copper
	Silver
	Gold
	Platinum
	Diamond
)

// Treasures lists every placeable treasure in value order.
var Treasures = []Treasure{Copper, Silver, Gold, Platinum, Diamond}

func (t Treasure) String() string {
	switch t {
	case NoTreasure:
		return "none"
	case Copper:
		return "copper"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	case Platinum:
		return "platinum"
	case Diamond:
		return "diamond"
	default:
		return fmt.Sprintf("Treasure(%d)", uint8(t))
	}
}

// ParseTreasure converts a treasure name (case-insensitive) into a Treasure.
func ParseTreasure(name string) (Treasure, bool) {
	for _, t := range Treasures {
		if strings.EqualFold(t.String(), name) {
			return t, true
		}
	}
	return NoTreasure, false
}

// Artifact is a one-shot effect granted to whoever completes its hexagon.
type Artifact uint8

const (
	NoArtifact Artifact = iota
	// Hourglass grants one bonus-turn credit.
	Hourglass
	// Compass grants the portal-claim right.
	Compass
	// Gauntlet grants the right to steal the opponent's last treasure,
	// usable within GauntletLifespan of the holder's moves.
	Gauntlet
)

// GauntletLifespan is how many of the holder's own moves a gauntlet survives.
const GauntletLifespan = 5

// Artifacts lists every placeable artifact.
var Artifacts = []Artifact{Hourglass, Compass, Gauntlet}

func (a Artifact) String() string {
	switch a {
	case NoArtifact:
		return "none"
	case Hourglass:
		return "hourglass"
	case Compass:
		return "compass"
	case Gauntlet:
		return "gauntlet"
	default:
		return fmt.Sprintf("Artifact(%d)", uint8(a))
	}
}

// Item is what a hexagon carries. At most one of the two fields is set by
// random layouts; fixed layouts may set both.
type Item struct {
	Treasure Treasure
	Artifact Artifact
}

// Rules holds the scoring and placement parameters of a game.
type Rules struct {
	BasePoints     int
	TreasureValues map[Treasure]int
	TreasureRatio  float64
	ArtifactRatio  float64
}

// DefaultRules returns the standard values: one point per hexagon, copper 1,
// silver 3, gold 5, platinum and diamond 8, treasures on 60% of hexagons and
// artifacts on 10%.
func DefaultRules() Rules {
	return Rules{
		BasePoints: 1,
		TreasureValues: map[Treasure]int{
			Copper:   1,
			Silver:   3,
			Gold:     5,
			Platinum: 8,
			Diamond:  8,
		},
		TreasureRatio: 0.6,
		ArtifactRatio: 0.1,
	}
}

// Layout is the immutable item placement of one game.
type Layout struct {
	items    []Item
	values   []int
	treasure []int // treasure bonus alone, without base points
	key      uint64
}

// NewLayout places treasures and artifacts at random. The same grid, rules
// and seed always produce the same layout.
func NewLayout(g *Grid, rules Rules, seed int64) *Layout {
	n := g.NumHexes()
	items := make([]Item, n)

	rng := rand.New(rand.NewSource(seed))
	order := rng.Perm(n)

	treasureCount := int(float64(n) * rules.TreasureRatio)
	artifactCount := int(float64(n) * rules.ArtifactRatio)
	if treasureCount > n {
		treasureCount = n
	}
	if treasureCount+artifactCount > n {
		artifactCount = n - treasureCount
	}

	for i := 0; i < treasureCount; i++ {
		items[order[i]].Treasure = Treasures[rng.Intn(len(Treasures))]
	}
	for i := treasureCount; i < treasureCount+artifactCount; i++ {
		items[order[i]].Artifact = Artifacts[rng.Intn(len(Artifacts))]
	}

	return newLayout(items, rules)
}

// FixedLayout places the given items and leaves every other hexagon empty.
func FixedLayout(g *Grid, rules Rules, placed map[HexID]Item) (*Layout, error) {
	items := make([]Item, g.NumHexes())
	for h, it := range placed {
		if !g.HasHex(h) {
			return nil, fmt.Errorf("core: layout hexagon %d not on radius %d board", h, g.Radius())
		}
		items[h] = it
	}
	return newLayout(items, rules), nil
}

// EmptyLayout returns a layout with no items on a grid.
func EmptyLayout(g *Grid, rules Rules) *Layout {
	return newLayout(make([]Item, g.NumHexes()), rules)
}

func newLayout(items []Item, rules Rules) *Layout {
	values := make([]int, len(items))
	treasure := make([]int, len(items))
	for i, it := range items {
		treasure[i] = rules.TreasureValues[it.Treasure]
		values[i] = rules.BasePoints + treasure[i]
	}
	return &Layout{items: items, values: values, treasure: treasure, key: layoutKey(items, values)}
}

// layoutKey fingerprints a placement so positions on different boards of the
// same radius never share a transposition key.
func layoutKey(items []Item, values []int) uint64 {
	rng := splitmix64{state: uint64(len(items))}
	var key uint64
	for i, it := range items {
		rng.state ^= uint64(it.Treasure)<<8 | uint64(it.Artifact)<<16 | uint64(values[i])<<24
		key = key*31 + rng.next()
	}
	return key
}

// Item returns what hexagon h carries.
func (l *Layout) Item(h HexID) Item { return l.items[h] }

// Value returns the points awarded for completing hexagon h.
func (l *Layout) Value(h HexID) int { return l.values[h] }

// TreasureValue returns the treasure bonus of hexagon h, 0 without a treasure.
func (l *Layout) TreasureValue(h HexID) int { return l.treasure[h] }

// Len returns the number of hexagons covered.
func (l *Layout) Len() int { return len(l.items) }

// TotalValue returns the points available on the board.
func (l *Layout) TotalValue() int {
	total := 0
	for _, v := range l.values {
		total += v
	}
	return total
}

// Equal reports whether two layouts place the same items with the same values.
func (l *Layout) Equal(o *Layout) bool {
	if l == o {
		return true
	}
	if l == nil || o == nil || len(l.items) != len(o.items) {
		return false
	}
	for i := range l.items {
		if l.items[i] != o.items[i] || l.values[i] != o.values[i] {
			return false
		}
	}
	return true
}
