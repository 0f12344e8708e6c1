package config

import (
	"fmt"
	"strings"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists every difficulty in increasing strength.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// SearchLimits is what a difficulty preset sets on the engine.
type SearchLimits struct {
	MaxDepth   int
	TimeBudget time.Duration
}

// LimitsForPreset returns the search limits of a preset. Unknown presets get
// the normal limits.
func LimitsForPreset(preset DifficultyPreset) SearchLimits {
	switch preset {
	case DifficultyEasy:
		return SearchLimits{MaxDepth: 2, TimeBudget: 250 * time.Millisecond}
	case DifficultyHard:
		return SearchLimits{MaxDepth: 4, TimeBudget: 3 * time.Second}
	default:
		return SearchLimits{MaxDepth: 3, TimeBudget: time.Second}
	}
}

// ParseDifficulty accepts a preset name in any case.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (valid: easy, normal, hard)", name)
}

// ApplyDifficultyPreset sets the AI limits of cfg from a preset.
func ApplyDifficultyPreset(cfg *HexHuntConfig, preset DifficultyPreset) {
	limits := LimitsForPreset(preset)
	cfg.AI.Difficulty = preset
	cfg.AI.MaxDepth = limits.MaxDepth
	cfg.AI.TimeBudgetMS = int(limits.TimeBudget / time.Millisecond)
}
