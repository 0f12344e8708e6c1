// hexhunt is a terminal game of claiming hexagon edges against a minimax AI.
//
// Usage:
//
//	hexhunt list               - List board variants
//	hexhunt play [variant]     - Play a variant (default: hexhunt)
//	hexhunt menu               - Pick variants interactively
//	hexhunt scores [variant]   - Show match statistics
//	hexhunt selfplay           - Run AI-vs-AI matches
//	hexhunt serve              - Start SSH server for remote play
//	hexhunt api                - Start the HTTP/WebSocket API
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set layout seed for reproducible boards
//	--db <path>         - Set database path (default: ~/.hexhunt/hexhunt.db)
//	--config <path>     - Load a custom hexhunt.yaml
//	--difficulty <name> - Override the AI difficulty preset
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/storage"

	// Register the board variants
	_ "github.com/vovakirdan/hexhunt/internal/games/hexhunt"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hexhunt",
	Short: "HexHunt - claim hexagon edges against a minimax AI",
	Long: `HexHunt is a two-player edge-claiming game on a hexagonal board.
Claim the last free side of a hexagon to score it and move again.
Treasures raise a hexagon's value; hourglasses grant bonus turns,
compasses let you take over a hexagon already scored and gauntlets
steal the last treasure your opponent found.

Available commands:
  list      - Show all board variants
  play      - Play a variant directly
  menu      - Interactive variant picker
  scores    - View match statistics
  selfplay  - Benchmark the AI against itself
  serve     - Start SSH server for remote play
  api       - Start the HTTP/WebSocket API

Examples:
  hexhunt list
  hexhunt play hexhunt-r3 --difficulty hard
  hexhunt menu
  hexhunt selfplay --games 20 --workers 4
  hexhunt serve --ssh :2222
  hexhunt api --addr :8080`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Layout seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.hexhunt/hexhunt.db", "Path to match database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom hexhunt.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs of terminal games to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(selfplayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the game configuration and applies --difficulty.
func loadConfig() config.HexHuntConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if flagDifficulty != "" {
		preset, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			fail("%v", err)
		}
		config.ApplyDifficultyPreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	return cfg
}

// newLogger returns a logger for the server commands.
func newLogger(prefix string) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	setLevel(l)
	return l
}

// newGameLogger returns a logger that stays off the terminal the game draws
// on. Without --log-file it discards everything. The returned close function
// releases the file.
func newGameLogger() (*log.Logger, func()) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	l := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "hexhunt"})
	setLevel(l)
	return l, func() { f.Close() }
}

func setLevel(l *log.Logger) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", flagLogLevel)
		level = log.InfoLevel
	}
	l.SetLevel(level)
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}
}

// openStore opens the match database. Terminal games still run without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		return nil
	}
	return store
}
