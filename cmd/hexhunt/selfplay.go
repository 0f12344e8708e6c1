package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/selfplay"
)

var (
	flagGames      int
	flagWorkers    int
	flagRadius     int
	flagChallenger string
	flagShareTable bool
	flagSave       bool
)

var selfplayCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "Run AI-vs-AI matches",
	Long: `Play the configured AI against a challenger engine on many boards
at once and report wins, node counts and cache hit rates.

The challenger takes the human seat. By default it uses the same
settings as the AI; --challenger picks a difficulty preset instead.

Examples:
  hexhunt selfplay --games 50
  hexhunt selfplay --radius 3 --difficulty hard --challenger normal
  hexhunt selfplay --games 100 --workers 8 --share-table --save`,
	Run: runSelfplay,
}

func init() {
	selfplayCmd.Flags().IntVar(&flagGames, "games", 10, "Number of matches")
	selfplayCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "Matches played at once")
	selfplayCmd.Flags().IntVar(&flagRadius, "radius", 0, "Board radius (default: board.radius from config)")
	selfplayCmd.Flags().StringVar(&flagChallenger, "challenger", "", "Difficulty preset of the human seat")
	selfplayCmd.Flags().BoolVar(&flagShareTable, "share-table", false, "Share one transposition table between the AI engines")
	selfplayCmd.Flags().BoolVar(&flagSave, "save", false, "Store every match in the database")
}

func runSelfplay(_ *cobra.Command, _ []string) {
	gameCfg := loadConfig()
	if flagRadius > 0 {
		gameCfg.Board.Radius = flagRadius
	}

	opts := selfplay.Options{
		Game:       gameCfg,
		Games:      flagGames,
		Workers:    flagWorkers,
		Seed:       flagSeed,
		ShareTable: flagShareTable,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if flagChallenger != "" {
		preset, err := config.ParseDifficulty(flagChallenger)
		if err != nil {
			fail("%v", err)
		}
		challenger := gameCfg
		config.ApplyDifficultyPreset(&challenger, preset)
		opts.Challenger = challenger.AI
	}

	logger := newLogger("hexhunt-selfplay")
	runnerOpts := []selfplay.RunnerOption{selfplay.WithLogger(logger)}
	if flagSave {
		store := openStore()
		if store != nil {
			defer store.Close()
			runnerOpts = append(runnerOpts, selfplay.WithStore(store))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := selfplay.NewRunner(runnerOpts...).Run(ctx, opts)
	if err != nil {
		stop()
		fail("%v", err)
	}

	fmt.Printf("Self-play: %d matches on radius %d in %s\n", sum.Games, gameCfg.Board.Radius, sum.Elapsed.Round(time.Millisecond))
	fmt.Println()
	fmt.Printf("  AI (%s)          %d wins\n", gameCfg.AI.Difficulty, sum.AIWins)
	fmt.Printf("  Challenger (%s)  %d wins\n", challengerName(opts), sum.ChallengerWin)
	fmt.Printf("  Draws             %d\n", sum.Draws)
	fmt.Println()
	fmt.Printf("  Nodes per match   %.0f\n", sum.AvgNodes())
	fmt.Printf("  Cache hit rate    %.1f%%\n", sum.HitRate()*100)
	fmt.Printf("  AI thinking time  %s\n", sum.Think.Round(time.Millisecond))
}

func challengerName(opts selfplay.Options) string {
	if opts.Challenger.Difficulty != "" {
		return string(opts.Challenger.Difficulty)
	}
	return string(opts.Game.AI.Difficulty)
}
