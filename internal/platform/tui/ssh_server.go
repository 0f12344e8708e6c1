package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

const shutdownGrace = 10 * time.Second

// SSHServerConfig configures the SSH server.
type SSHServerConfig struct {
	Address string

	// HostKeyPath defaults to ~/.hexhunt/host_key; wish generates the key
	// on first start.
	HostKeyPath string

	DBPath      string
	IdleTimeout time.Duration

	// Game is what every session plays with.
	Game config.HexHuntConfig
}

// DefaultSSHServerConfig returns the configuration of `hexhunt serve`
// without flags.
func DefaultSSHServerConfig() SSHServerConfig {
	game := config.DefaultHexHuntConfig()
	return SSHServerConfig{
		Address:     game.Server.SSHAddr,
		DBPath:      "~/.hexhunt/hexhunt.db",
		IdleTimeout: 30 * time.Minute,
		Game:        game,
	}
}

// SSHServer serves one HexHunt session per SSH connection. All sessions
// share the match database.
type SSHServer struct {
	cfg    SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int32
}

func hostKeyPath(p string) (string, error) {
	if p == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		p = filepath.Join(home, ".hexhunt", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", fmt.Errorf("creating host key directory: %w", err)
	}
	return p, nil
}

// NewSSHServer builds the server. A database that cannot be opened is logged
// and the server runs without history.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "hexhunt-ssh"})
	}
	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{cfg: cfg, logger: logger}
	if s.store, err = storage.Open(cfg.DBPath); err != nil {
		logger.Warn("match history disabled", "db", cfg.DBPath, "error", err)
		s.store = nil
	}

	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.startSession),
			s.trackSession,
		),
	)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("creating SSH server: %w", err)
	}
	return s, nil
}

// startSession builds the model of one connection. Sessions without a
// terminal are refused.
func (s *SSHServer) startSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("refusing session without a terminal", "user", sess.User())
		wish.Fatalln(sess, "hexhunt needs a terminal: connect with ssh -t")
		return nil, nil
	}

	rc := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 30,
		Seed:     time.Now().UnixNano(),
	}
	logger := s.logger.With("user", sess.User())
	return NewSessionModel(s.store, s.cfg.Game, rc, logger), []tea.ProgramOption{tea.WithAltScreen()}
}

// trackSession logs connects and disconnects with the number of players
// online.
func (s *SSHServer) trackSession(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		remote := sess.RemoteAddr().String()
		s.logger.Info("player connected", "user", sess.User(), "remote", remote, "online", s.active.Add(1))
		defer func() {
			s.logger.Info("player left", "user", sess.User(), "remote", remote,
				"online", s.active.Add(-1), "stayed", time.Since(start).Round(time.Second))
		}()
		next(sess)
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("ssh server listening", "addr", s.cfg.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		s.closeStore()
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down", "online", s.active.Load())
	return s.Shutdown()
}

// Shutdown waits up to ten seconds for sessions to end.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string { return s.cfg.Address }

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}
