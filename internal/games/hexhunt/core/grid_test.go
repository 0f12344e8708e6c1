package core_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

func TestNewGridCounts(t *testing.T) {
	tests := []struct {
		radius   int
		hexes    int
		edges    int
		vertices int
		boundary int
	}{
		{1, 1, 6, 6, 6},
		{2, 7, 30, 24, 18},
		{3, 19, 72, 54, 30},
		{4, 37, 132, 96, 42},
	}

	for _, tt := range tests {
		g, err := core.NewGrid(tt.radius)
		if err != nil {
			t.Fatalf("NewGrid(%d) failed: %v", tt.radius, err)
		}
		if g.NumHexes() != tt.hexes {
			t.Errorf("radius %d: NumHexes() = %d, expected %d", tt.radius, g.NumHexes(), tt.hexes)
		}
		if g.NumEdges() != tt.edges {
			t.Errorf("radius %d: NumEdges() = %d, expected %d", tt.radius, g.NumEdges(), tt.edges)
		}
		if g.NumVertices() != tt.vertices {
			t.Errorf("radius %d: NumVertices() = %d, expected %d", tt.radius, g.NumVertices(), tt.vertices)
		}

		boundary := 0
		for _, e := range g.Edges() {
			if e.HexCount == 1 {
				boundary++
			}
		}
		if boundary != tt.boundary {
			t.Errorf("radius %d: boundary edges = %d, expected %d", tt.radius, boundary, tt.boundary)
		}
	}
}

func TestGridIncidence(t *testing.T) {
	for radius := core.MinRadius; radius <= core.MaxRadius; radius++ {
		g, err := core.NewGrid(radius)
		if err != nil {
			t.Fatalf("NewGrid(%d) failed: %v", radius, err)
		}

		for _, h := range g.Hexes() {
			seen := make(map[core.EdgeID]bool)
			corners := h.Coord.Corners()
			for side, e := range h.Edges {
				if seen[e] {
					t.Errorf("radius %d hex %d: edge %d listed twice", radius, h.ID, e)
				}
				seen[e] = true

				edge := g.Edge(e)
				found := false
				for _, owner := range edge.Borders() {
					if owner == h.ID {
						found = true
					}
				}
				if !found {
					t.Errorf("radius %d: edge %d does not border hex %d", radius, e, h.ID)
				}

				id, ok := g.EdgeBetween(corners[(side+1)%6], corners[side])
				if !ok || id != e {
					t.Errorf("radius %d: EdgeBetween for hex %d side %d = %d, expected %d", radius, h.ID, side, id, e)
				}
			}
		}

		for _, e := range g.Edges() {
			if e.HexCount != 1 && e.HexCount != 2 {
				t.Errorf("radius %d: edge %d borders %d hexagons", radius, e.ID, e.HexCount)
			}
			if !e.A.Less(e.B) {
				t.Errorf("radius %d: edge %d endpoints not normalized", radius, e.ID)
			}
		}
	}
}

func TestNewGridDeterministic(t *testing.T) {
	a, err := core.NewGrid(3)
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	b, err := core.NewGrid(3)
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}

	for i, e := range a.Edges() {
		if e != b.Edges()[i] {
			t.Fatalf("edge %d differs between builds: %+v vs %+v", i, e, b.Edges()[i])
		}
	}
	for i, h := range a.Hexes() {
		if h != b.Hexes()[i] {
			t.Fatalf("hex %d differs between builds: %+v vs %+v", i, h, b.Hexes()[i])
		}
	}
}

func TestNewGridInvalidRadius(t *testing.T) {
	for _, radius := range []int{0, -1, -7} {
		_, err := core.NewGrid(radius)
		if !errors.Is(err, core.ErrInvalidRadius) {
			t.Errorf("NewGrid(%d) error = %v, expected ErrInvalidRadius", radius, err)
		}
	}
}

func TestGridForShared(t *testing.T) {
	a, err := core.GridFor(2)
	if err != nil {
		t.Fatalf("GridFor() failed: %v", err)
	}
	b, err := core.GridFor(2)
	if err != nil {
		t.Fatalf("GridFor() failed: %v", err)
	}
	if a != b {
		t.Error("GridFor should return the cached grid")
	}
}

func TestHexAt(t *testing.T) {
	g, err := core.NewGrid(2)
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}

	tests := []struct {
		coord core.HexCoord
		ok    bool
	}{
		{core.HexCoord{Q: 0, R: 0}, true},
		{core.HexCoord{Q: 1, R: -1}, true},
		{core.HexCoord{Q: -1, R: 1}, true},
		{core.HexCoord{Q: 1, R: 1}, false},
		{core.HexCoord{Q: 2, R: 0}, false},
	}

	for _, tt := range tests {
		id, ok := g.HexAt(tt.coord)
		if ok != tt.ok {
			t.Errorf("HexAt(%v) ok = %v, expected %v", tt.coord, ok, tt.ok)
			continue
		}
		if ok && g.Hex(id).Coord != tt.coord {
			t.Errorf("HexAt(%v) = hex at %v", tt.coord, g.Hex(id).Coord)
		}
	}
}
