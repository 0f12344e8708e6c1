// Package config provides YAML-based HexHunt configuration loading and
// difficulty presets.
package config

import (
	"time"

	hcore "github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

// HexHuntConfig contains all configuration for HexHunt.
type HexHuntConfig struct {
	Board     BoardConfig    `yaml:"board"`
	Treasures map[string]int `yaml:"treasures"`
	AI        AIConfig       `yaml:"ai"`
	Server    ServerConfig   `yaml:"server"`
}

// BoardConfig defines the board and item placement.
type BoardConfig struct {
	Radius        int     `yaml:"radius"`
	TreasureRatio float64 `yaml:"treasure_ratio"` // Share of hexagons carrying a treasure
	ArtifactRatio float64 `yaml:"artifact_ratio"` // Share of hexagons carrying an artifact
	FirstPlayer   string  `yaml:"first_player"`   // "human" or "ai"
}

// AIConfig defines the opponent's search limits.
type AIConfig struct {
	Difficulty   DifficultyPreset  `yaml:"difficulty"`
	MaxDepth     int               `yaml:"max_depth"`
	TimeBudgetMS int               `yaml:"time_budget_ms"` // 0 means no time limit
	Table        TableConfig       `yaml:"table"`
	Weights      hcore.EvalWeights `yaml:"weights"`
}

// TableConfig controls the transposition table.
type TableConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"` // 0 means unbounded
}

// ServerConfig holds listen addresses for the network front ends.
type ServerConfig struct {
	SSHAddr  string `yaml:"ssh_addr"`
	HTTPAddr string `yaml:"http_addr"`
}

// TimeBudget returns the per-move search budget.
func (a AIConfig) TimeBudget() time.Duration {
	return time.Duration(a.TimeBudgetMS) * time.Millisecond
}

// Rules converts the board and treasure sections into game rules. Treasure
// names not known to the game are ignored; Validate reports them.
func (c HexHuntConfig) Rules() hcore.Rules {
	r := hcore.DefaultRules()
	r.TreasureRatio = c.Board.TreasureRatio
	r.ArtifactRatio = c.Board.ArtifactRatio
	for name, v := range c.Treasures {
		if t, ok := hcore.ParseTreasure(name); ok {
			r.TreasureValues[t] = v
		}
	}
	return r
}

// FirstPlayer returns who opens the game, Human unless configured otherwise.
func (c HexHuntConfig) FirstPlayer() hcore.Player {
	if p, ok := hcore.ParsePlayer(c.Board.FirstPlayer); ok && p.Valid() {
		return p
	}
	return hcore.Human
}

// GameOptions returns the core options for a new game with the given seed.
func (c HexHuntConfig) GameOptions(seed int64) []hcore.GameOption {
	return []hcore.GameOption{
		hcore.WithSeed(seed),
		hcore.WithRules(c.Rules()),
		hcore.WithFirstPlayer(c.FirstPlayer()),
	}
}
