package config

import (
	_ "embed"

	hcore "github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

//go:embed defaults/hexhunt.yaml
var defaultHexHuntYAML []byte

// DefaultHexHuntConfig returns the built-in configuration. It matches the
// embedded defaults/hexhunt.yaml.
func DefaultHexHuntConfig() HexHuntConfig {
	return HexHuntConfig{
		Board: BoardConfig{
			Radius:        2,
			TreasureRatio: 0.6,
			ArtifactRatio: 0.1,
			FirstPlayer:   "human",
		},
		Treasures: map[string]int{
			"copper":   1,
			"silver":   3,
			"gold":     5,
			"platinum": 8,
			"diamond":  8,
		},
		AI: AIConfig{
			Difficulty:   DifficultyNormal,
			MaxDepth:     3,
			TimeBudgetMS: 1000,
			Table: TableConfig{
				Enabled:    true,
				MaxEntries: 0,
			},
			Weights: hcore.DefaultWeights(),
		},
		Server: ServerConfig{
			SSHAddr:  ":2222",
			HTTPAddr: ":8080",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultHexHuntYAML
}
