package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	hcore "github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

const configFile = "hexhunt.yaml"

// MaxSearchDepth bounds ai.max_depth.
const MaxSearchDepth = 12

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Load loads HexHunt configuration.
// Search order: customPath -> ~/.hexhunt/configs/hexhunt.yaml -> ./configs/hexhunt.yaml -> embedded default
//
// Files are decoded over the built-in defaults, so a file only needs the keys
// it changes. A custom path must exist and parse; the other locations are
// skipped when missing or broken.
func Load(customPath string) (HexHuntConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return HexHuntConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return HexHuntConfig{}, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultHexHuntYAML)
	if err != nil {
		return DefaultHexHuntConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the built-in defaults.
func Parse(data []byte) (HexHuntConfig, error) {
	cfg := DefaultHexHuntConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HexHuntConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hexhunt", "configs", filename)
}

// Validate reports the first out-of-range setting.
func (c HexHuntConfig) Validate() error {
	b := c.Board
	if b.Radius < hcore.MinRadius || b.Radius > hcore.MaxRadius {
		return fmt.Errorf("%w: board.radius %d outside %d..%d", ErrInvalid, b.Radius, hcore.MinRadius, hcore.MaxRadius)
	}
	if b.TreasureRatio < 0 || b.TreasureRatio > 1 {
		return fmt.Errorf("%w: board.treasure_ratio %.2f outside 0..1", ErrInvalid, b.TreasureRatio)
	}
	if b.ArtifactRatio < 0 || b.ArtifactRatio > 1 {
		return fmt.Errorf("%w: board.artifact_ratio %.2f outside 0..1", ErrInvalid, b.ArtifactRatio)
	}
	if b.TreasureRatio+b.ArtifactRatio > 1 {
		return fmt.Errorf("%w: treasure and artifact ratios exceed 1", ErrInvalid)
	}
	if b.FirstPlayer != "" {
		if p, ok := hcore.ParsePlayer(b.FirstPlayer); !ok || !p.Valid() {
			return fmt.Errorf("%w: board.first_player %q", ErrInvalid, b.FirstPlayer)
		}
	}

	for name, v := range c.Treasures {
		if _, ok := hcore.ParseTreasure(name); !ok {
			return fmt.Errorf("%w: unknown treasure %q", ErrInvalid, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: treasure %s has negative value %d", ErrInvalid, name, v)
		}
	}

	a := c.AI
	if a.Difficulty != "" {
		if _, err := ParseDifficulty(string(a.Difficulty)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if a.MaxDepth < 1 || a.MaxDepth > MaxSearchDepth {
		return fmt.Errorf("%w: ai.max_depth %d outside 1..%d", ErrInvalid, a.MaxDepth, MaxSearchDepth)
	}
	if a.TimeBudgetMS < 0 {
		return fmt.Errorf("%w: ai.time_budget_ms must not be negative", ErrInvalid)
	}
	if a.Table.MaxEntries < 0 {
		return fmt.Errorf("%w: ai.table.max_entries must not be negative", ErrInvalid)
	}
	if a.Weights.Win <= 0 {
		return fmt.Errorf("%w: ai.weights.win must be positive", ErrInvalid)
	}
	return nil
}
