package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt"
	"github.com/vovakirdan/hexhunt/internal/platform/tui"
	"github.com/vovakirdan/hexhunt/internal/registry"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

var flagSkipSetup bool

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a board variant",
	Long: `Start playing the given variant against the AI.

A setup screen lets you pick the difficulty and who moves first.

Controls:
  Arrows/WASD  - Move the edge cursor
  Enter/Space  - Claim the selected edge
  X            - Portal (after completing a compass hexagon)
  H/?          - Ask the AI for a hint
  Tab          - Toggle AI statistics
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Examples:
  hexhunt play
  hexhunt play hexhunt-r3
  hexhunt play hexhunt-r4 --difficulty hard --no-setup
  hexhunt play --seed 42 --config ./my-hexhunt.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSkipSetup, "no-setup", false, "Skip the setup screen")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := hexhunt.DefaultID
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'hexhunt list' to see available variants.")
		os.Exit(1)
	}

	gameCfg := loadConfig()
	rc := runtimeConfig()

	store := openStore()
	logger, closeLog := newGameLogger()

	runErr := playOnce(gameID, gameCfg, rc, store, logger)

	closeLog()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// playOnce shows the setup screen unless disabled, then runs one game.
// Backing out of the setup screen is not an error.
func playOnce(gameID string, gameCfg config.HexHuntConfig, rc core.RuntimeConfig, store *storage.Store, logger *log.Logger) error {
	if !flagSkipSetup {
		sel, err := tui.RunSetup(registryTitle(gameID), gameCfg, rc)
		if err != nil {
			return err
		}
		if sel == nil {
			return nil
		}
		sel.Apply(&gameCfg)
	}

	game, err := registry.Create(gameID, gameCfg)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	if lg, ok := game.(interface{ SetLogger(*log.Logger) }); ok {
		lg.SetLogger(logger)
	}
	logger.Info("starting game", "variant", gameID, "difficulty", gameCfg.AI.Difficulty, "seed", rc.Seed)
	return tui.Run(game, store, rc, logger)
}

func registryTitle(id string) string {
	if v, ok := registry.Lookup(id); ok {
		return v.Title
	}
	return id
}
