// Package api serves HexHunt games over HTTP: a JSON API for creating games,
// playing moves and asking the engine, plus a websocket feed per game.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/search"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

// ErrUnknownGame is returned for a game id the server does not hold.
var ErrUnknownGame = errors.New("unknown game")

// game is one session guarded by its own lock.
type game struct {
	mu      sync.Mutex
	id      string
	session *hexhunt.Session
	saved   bool
}

// Server holds the running games.
type Server struct {
	cfg    config.HexHuntConfig
	store  *storage.Store
	logger *log.Logger
	hub    *Hub
	router chi.Router

	mu     sync.Mutex
	games  map[string]*game
	nextID int
	seed   func() int64
}

// Option configures a Server.
type Option func(*Server)

// WithStore saves finished games to st.
func WithStore(st *storage.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithLogger routes request and game logs to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeedSource replaces the layout seed used when a request gives none.
func WithSeedSource(f func() int64) Option {
	return func(s *Server) {
		if f != nil {
			s.seed = f
		}
	}
}

// NewServer returns a server whose games start from cfg.
func NewServer(cfg config.HexHuntConfig, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		logger: log.New(io.Discard),
		hub:    NewHub(),
		games:  make(map[string]*game),
		seed:   func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger.StandardLog(), NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withGame(s.handleState))
			r.Delete("/", s.handleDelete)
			r.Get("/legal", s.withGame(s.handleLegal))
			r.Post("/move", s.withGame(s.handleMove))
			r.Post("/ai-move", s.withGame(s.handleAIMove))
			r.Get("/hint", s.withGame(s.handleHint))
			r.Get("/tt", s.withGame(s.handleTable))
			r.Delete("/tt", s.withGame(s.handleClearTable))
		})
	})

	r.Get("/ws/games/{id}", s.handleWS)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // The client is gone if this fails.
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownGame):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrIllegalMove),
		errors.Is(err, core.ErrNotYourTurn),
		errors.Is(err, search.ErrTerminal):
		status = http.StatusConflict
	case errors.Is(err, core.ErrInvalidRadius):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) lookup(id string) (*game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("api: game %q: %w", id, ErrUnknownGame)
	}
	return g, nil
}

// withGame resolves {id} and runs h under the game's lock.
func (s *Server) withGame(h func(http.ResponseWriter, *http.Request, *game)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.lookup(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		h(w, r, g)
	}
}

// CreateRequest starts a game. Zero fields take the server defaults.
type CreateRequest struct {
	Radius      int    `json:"radius"`
	Seed        int64  `json:"seed"`
	Difficulty  string `json:"difficulty"`
	FirstPlayer string `json:"first_player"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)
	writeJSON(w, http.StatusOK, map[string][]string{"games": ids})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
	}

	cfg := s.cfg
	if req.Radius != 0 {
		if req.Radius < 1 || req.Radius > hexhunt.MaxRadius {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("radius must be between 1 and %d", hexhunt.MaxRadius),
			})
			return
		}
		cfg.Board.Radius = req.Radius
	}
	if req.Difficulty != "" {
		preset, err := config.ParseDifficulty(req.Difficulty)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		config.ApplyDifficultyPreset(&cfg, preset)
	}
	if req.FirstPlayer != "" {
		p, ok := core.ParsePlayer(req.FirstPlayer)
		if !ok || !p.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "first_player must be human or ai"})
			return
		}
		cfg.Board.FirstPlayer = req.FirstPlayer
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.seed()
	}

	s.mu.Lock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.mu.Unlock()

	sess, err := hexhunt.NewSession(cfg, seed, hexhunt.WithSessionLogger(s.logger.With("game", id)))
	if err != nil {
		writeError(w, fmt.Errorf("api: create game: %w", err))
		return
	}
	g := &game{id: id, session: sess}

	s.mu.Lock()
	s.games[id] = g
	s.mu.Unlock()

	s.logger.Info("game created", "game", id, "radius", cfg.Board.Radius, "seed", seed, "difficulty", cfg.AI.Difficulty)
	writeJSON(w, http.StatusCreated, stateToDTO(id, sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, fmt.Errorf("api: game %q: %w", id, ErrUnknownGame))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, g *game) {
	writeJSON(w, http.StatusOK, stateToDTO(g.id, g.session))
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request, g *game) {
	moves := core.GenerateMoves(g.session.State())
	out := make([]MoveDTO, len(moves))
	for i, m := range moves {
		out[i] = moveToDTO(m)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"turn":  g.session.State().Turn().String(),
		"moves": out,
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, g *game) {
	var payload MoveDTO
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	m, err := moveFromDTO(payload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	out, err := g.session.Play(m)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := MoveResponse{Outcome: outcomeToDTO(out), State: stateToDTO(g.id, g.session)}
	s.afterMove(g, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request, g *game) {
	out, res, err := g.session.PlayAI(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sr := searchToDTO(res)
	resp := MoveResponse{Outcome: outcomeToDTO(out), Search: &sr, State: stateToDTO(g.id, g.session)}
	s.afterMove(g, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request, g *game) {
	res, err := g.session.Hint(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchToDTO(res))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request, g *game) {
	writeJSON(w, http.StatusOK, tableToDTO(g.session.Engine().Table()))
}

func (s *Server) handleClearTable(w http.ResponseWriter, r *http.Request, g *game) {
	g.session.Engine().Reset()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	g, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.serveWS(w, r, g.id, func() Event {
		g.mu.Lock()
		defer g.mu.Unlock()
		return Event{Type: "state", Game: g.id, Payload: mustMarshal(stateToDTO(g.id, g.session))}
	})
}

// afterMove publishes the move and records the match once it ends. The
// caller holds g.mu.
func (s *Server) afterMove(g *game, resp MoveResponse) {
	s.hub.Publish(Event{Type: "move", Game: g.id, Payload: mustMarshal(resp)})
	if !g.session.Finished() || g.saved {
		return
	}
	g.saved = true
	s.logger.Info("game finished", "game", g.id, "result", g.session.Result())
	if s.store == nil {
		return
	}
	rec := g.session.Record(hexhunt.VariantID(g.session.State().Radius()), "api")
	if _, err := s.store.SaveMatch(rec); err != nil {
		s.logger.Error("cannot save match", "game", g.id, "err", err)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	s.logger.Info("api listening", "address", addr)
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			return fmt.Errorf("api: serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return nil
}
