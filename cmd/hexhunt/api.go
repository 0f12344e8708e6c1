package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexhunt/internal/api"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

var flagHTTPAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HexHunt HTTP and WebSocket API",
	Long: `Serve games over a JSON API. Clients create a game, post their
moves and ask the AI to reply. Subscribers on /ws/games/{id} receive
every move as it is played.

Endpoints:
  POST   /api/games              - New game {"radius", "seed", "difficulty", "first_player"}
  GET    /api/games              - List running games
  GET    /api/games/{id}         - Board state
  GET    /api/games/{id}/legal   - Legal moves
  POST   /api/games/{id}/move    - Play the human move
  POST   /api/games/{id}/ai-move - Let the AI move
  GET    /api/games/{id}/hint    - Best move for the human
  GET    /api/games/{id}/tt      - Transposition table counters
  DELETE /api/games/{id}         - Drop a game

Examples:
  hexhunt api
  hexhunt api --addr :9090 --difficulty hard`,
	Run: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "HTTP listen address (default: server.http_addr from config)")
}

func runAPI(_ *cobra.Command, _ []string) {
	gameCfg := loadConfig()
	logger := newLogger("hexhunt-api")

	addr := flagHTTPAddr
	if addr == "" {
		addr = gameCfg.Server.HTTPAddr
	}

	opts := []api.Option{api.WithLogger(logger)}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open match database", "error", err)
	} else {
		defer store.Close()
		opts = append(opts, api.WithStore(store))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting HexHunt API on %s\n", addr)
	if err := api.NewServer(gameCfg, opts...).ListenAndServe(ctx, addr); err != nil {
		stop()
		if store != nil {
			store.Close()
		}
		fail("server: %v", err)
	}
}
