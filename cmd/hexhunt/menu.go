package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexhunt/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start HexHunt with a variant picker menu",
	Long: `Start HexHunt in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a board.
After a game ends, press B to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select variant
  Tab          - Match history
  Q            - Quit

Examples:
  hexhunt menu
  hexhunt menu --difficulty easy
  hexhunt menu --db ./hexhunt.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	gameCfg := loadConfig()
	store := openStore()
	logger, closeLog := newGameLogger()
	rc := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, rc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		rc = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, rc.ScreenW, rc.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.GameID == "" {
			break
		}

		// A fresh layout for every game unless --seed pins it.
		if flagSeed == 0 {
			rc.Seed = time.Now().UnixNano()
		}
		if err := playOnce(menuResult.GameID, gameCfg, rc, store, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	closeLog()
	if store != nil {
		store.Close()
	}
}
