// Package registry maps board variant ids to game factories. Variants register
// from init() so the CLI, menus and servers can offer them without importing
// the game packages directly.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/core"
)

// Game is the interface the terminal platform drives. The platform maps input
// and keeps time; the game owns its rules and plays the AI turn inside Step.
type Game interface {
	// ID is the variant id, also the key matches are stored under.
	ID() string
	Title() string

	// Reset lays out a new board from cfg.Seed sized for the screen.
	Reset(cfg core.RuntimeConfig)

	// Step applies the input collected since the previous tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// Variant describes a registered board.
type Variant struct {
	ID      string
	Title   string
	Radius  int // 0 plays the configured radius
	Summary string
}

// Factory builds a game from the loaded configuration.
type Factory func(cfg config.HexHuntConfig) Game

type entry struct {
	info    Variant
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a variant. It panics on an empty or duplicate id, both of
// which are programming errors in an init function.
func Register(info Variant, f Factory) {
	if info.ID == "" || f == nil {
		panic("registry: variant needs an id and a factory")
	}
	if info.Title == "" {
		info.Title = info.ID
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := entries[info.ID]; dup {
		panic(fmt.Sprintf("registry: variant %q already registered", info.ID))
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns the variants by ascending radius; the configured-radius
// variant comes first.
func List() []Variant {
	mu.RLock()
	out := make([]Variant, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	mu.RUnlock()

	slices.SortFunc(out, func(a, b Variant) int {
		if a.Radius != b.Radius {
			return a.Radius - b.Radius
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Lookup returns the metadata of id.
func Lookup(id string) (Variant, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[id]
	return e.info, ok
}

// Create builds the variant id.
func Create(id string, cfg config.HexHuntConfig) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown variant %q", id)
	}
	return e.factory(cfg), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
