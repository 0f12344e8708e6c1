package core

import (
	"sort"
	"sync"
)

// Supported board radii for new games. The grid itself accepts any radius >= MinRadius.
const (
	MinRadius = 1
	MaxRadius = 4
)

// EdgeID indexes Grid edges densely from 0.
type EdgeID int

// HexID indexes Grid hexagons densely from 0.
type HexID int

const (
	NoEdge EdgeID = -1
	NoHex  HexID  = -1
)

// HexCoord is an axial coordinate of a pointy-top hexagon.
type HexCoord struct {
	Q, R int
}

// Ring returns the hex distance from the origin.
func (c HexCoord) Ring() int {
	return max(abs(c.Q), abs(c.R), abs(c.Q+c.R))
}

// Corners returns the six corners clockwise from north.
// A hexagon owns its top and bottom corners; the other four are the top or
// bottom corner of a diagonal neighbour, so shared corners compare equal.
func (c HexCoord) Corners() [6]Vertex {
	return [6]Vertex{
		{Q: c.Q, R: c.R, Top: true},          // N
		{Q: c.Q + 1, R: c.R - 1, Top: false}, // NE
		{Q: c.Q, R: c.R + 1, Top: true},      // SE
		{Q: c.Q, R: c.R, Top: false},         // S
		{Q: c.Q - 1, R: c.R + 1, Top: true},  // SW
		{Q: c.Q, R: c.R - 1, Top: false},     // NW
	}
}

// Vertex is a lattice corner: the top or bottom corner of hexagon (Q, R).
type Vertex struct {
	Q, R int
	Top  bool
}

// Less orders vertices by row, column, then top before bottom.
func (v Vertex) Less(o Vertex) bool {
	if v.R != o.R {
		return v.R < o.R
	}
	if v.Q != o.Q {
		return v.Q < o.Q
	}
	return v.Top && !o.Top
}

// Edge joins two adjacent vertices, with A.Less(B).
type Edge struct {
	ID       EdgeID
	A, B     Vertex
	Hexes    [2]HexID
	HexCount int
}

// Borders returns the one or two hexagons this edge bounds.
func (e Edge) Borders() []HexID {
	return e.Hexes[:e.HexCount]
}

// Hex is one cell of the board. Edges[i] joins Corners()[i] and Corners()[i+1].
type Hex struct {
	ID    HexID
	Coord HexCoord
	Edges [6]EdgeID
}

type edgeKey struct {
	a, b Vertex
}

func makeEdgeKey(a, b Vertex) edgeKey {
	if b.Less(a) {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// Grid is the immutable topology for one board radius.
type Grid struct {
	radius    int
	hexes     []Hex
	edges     []Edge
	vertices  []Vertex
	hexIndex  map[HexCoord]HexID
	edgeIndex map[edgeKey]EdgeID
}

// NewGrid builds the board of the given radius. Radius R holds every cell at
// hex distance at most R-1 from the centre, so radius 1 is a single hexagon.
// Construction is deterministic: hexagons are ordered by (r, q) and edges are
// numbered in the order they are first met walking each hexagon clockwise.
func NewGrid(radius int) (*Grid, error) {
	if radius < MinRadius {
		return nil, &RadiusError{Radius: radius, Min: MinRadius}
	}

	g := &Grid{
		radius:    radius,
		hexIndex:  make(map[HexCoord]HexID),
		edgeIndex: make(map[edgeKey]EdgeID),
	}

	n := radius - 1
	for r := -n; r <= n; r++ {
		for q := -n; q <= n; q++ {
			c := HexCoord{Q: q, R: r}
			if c.Ring() > n {
				continue
			}
			id := HexID(len(g.hexes))
			g.hexIndex[c] = id
			g.hexes = append(g.hexes, Hex{ID: id, Coord: c})
		}
	}

	seen := make(map[Vertex]bool)
	for i := range g.hexes {
		h := &g.hexes[i]
		corners := h.Coord.Corners()
		for side := 0; side < 6; side++ {
			a, b := corners[side], corners[(side+1)%6]
			seen[a] = true

			key := makeEdgeKey(a, b)
			id, ok := g.edgeIndex[key]
			if !ok {
				id = EdgeID(len(g.edges))
				g.edgeIndex[key] = id
				g.edges = append(g.edges, Edge{
					ID:    id,
					A:     key.a,
					B:     key.b,
					Hexes: [2]HexID{NoHex, NoHex},
				})
			}
			e := &g.edges[id]
			e.Hexes[e.HexCount] = h.ID
			e.HexCount++
			h.Edges[side] = id
		}
	}

	g.vertices = make([]Vertex, 0, len(seen))
	for v := range seen {
		g.vertices = append(g.vertices, v)
	}
	sort.Slice(g.vertices, func(i, j int) bool {
		return g.vertices[i].Less(g.vertices[j])
	})

	return g, nil
}

var (
	gridCache = make(map[int]*Grid)
	gridMu    sync.Mutex
)

// GridFor returns a shared Grid for the radius, building it on first use.
func GridFor(radius int) (*Grid, error) {
	gridMu.Lock()
	defer gridMu.Unlock()

	if g, ok := gridCache[radius]; ok {
		return g, nil
	}
	g, err := NewGrid(radius)
	if err != nil {
		return nil, err
	}
	gridCache[radius] = g
	return g, nil
}

// Radius returns the board radius.
func (g *Grid) Radius() int { return g.radius }

// NumHexes returns the number of hexagons.
func (g *Grid) NumHexes() int { return len(g.hexes) }

// NumEdges returns the number of edges.
func (g *Grid) NumEdges() int { return len(g.edges) }

// NumVertices returns the number of vertices.
func (g *Grid) NumVertices() int { return len(g.vertices) }

// Hex returns hexagon h. It panics on an invalid id.
func (g *Grid) Hex(h HexID) Hex { return g.hexes[h] }

// Edge returns edge e. It panics on an invalid id.
func (g *Grid) Edge(e EdgeID) Edge { return g.edges[e] }

// Hexes returns all hexagons in id order. The slice must not be modified.
func (g *Grid) Hexes() []Hex { return g.hexes }

// Edges returns all edges in id order. The slice must not be modified.
func (g *Grid) Edges() []Edge { return g.edges }

// Vertices returns a sorted copy of the vertex set.
func (g *Grid) Vertices() []Vertex {
	out := make([]Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// HasEdge reports whether e names an edge of this grid.
func (g *Grid) HasEdge(e EdgeID) bool {
	return e >= 0 && int(e) < len(g.edges)
}

// HasHex reports whether h names a hexagon of this grid.
func (g *Grid) HasHex(h HexID) bool {
	return h >= 0 && int(h) < len(g.hexes)
}

// HexAt looks up the hexagon at an axial coordinate.
func (g *Grid) HexAt(c HexCoord) (HexID, bool) {
	id, ok := g.hexIndex[c]
	return id, ok
}

// EdgeBetween looks up the edge joining two vertices, in either order.
func (g *Grid) EdgeBetween(a, b Vertex) (EdgeID, bool) {
	id, ok := g.edgeIndex[makeEdgeKey(a, b)]
	return id, ok
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
