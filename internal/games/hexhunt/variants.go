package hexhunt

import (
	"fmt"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/registry"
)

// DefaultID plays on the configured board radius.
const DefaultID = "hexhunt"

// MaxRadius is the largest board offered as a fixed variant.
const MaxRadius = 4

// VariantID returns the registry id of the fixed-radius variant.
func VariantID(radius int) string {
	return fmt.Sprintf("hexhunt-r%d", radius)
}

var summaries = map[int]string{
	1: "7 hexagons, a quick warm-up",
	2: "19 hexagons, the classic board",
	3: "37 hexagons, deeper tactics",
	4: "61 hexagons, long games and slow AI turns",
}

func init() {
	registry.Register(registry.Variant{
		ID:      DefaultID,
		Title:   "HexHunt",
		Summary: "board radius from hexhunt.yaml",
	}, func(cfg config.HexHuntConfig) registry.Game {
		return NewGame(DefaultID, cfg, 0)
	})
	for r := 1; r <= MaxRadius; r++ {
		id := VariantID(r)
		radius := r
		registry.Register(registry.Variant{
			ID:      id,
			Title:   fmt.Sprintf("HexHunt (radius %d)", r),
			Radius:  r,
			Summary: summaries[r],
		}, func(cfg config.HexHuntConfig) registry.Game {
			return NewGame(id, cfg, radius)
		})
	}
}
