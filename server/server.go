package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"honk/logging"
	"honk/paths"
	"honk/relay"
	"honk/ui"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"
)

// shutdownTimeout bounds how long open connections may take to finish
const shutdownTimeout = 30 * time.Second

// Config holds the SSH server settings
type Config struct {
	AuthorizedKeysPath string // default ~/.ssh/authorized_keys
	Host               string
	HostKeyPath        string // default $HONK_HOME/ssh/id_ed25519
	Panel              ui.PanelOptions
	Port               string
}

// Server exposes the agent panel over SSH. Every connection gets its own panel
// attached to the shared relay; the newest connection receives the output.
type Server struct {
	address            string
	agent              ui.Agent
	authorizedKeysPath string
	panelOptions       ui.PanelOptions
	relay              *relay.Relay
	wishServer         *ssh.Server
}

// NewServer creates a new SSH server instance
func NewServer(agent ui.Agent, r *relay.Relay, cfg Config) (*Server, error) {
	s := &Server{
		address:            net.JoinHostPort(cfg.Host, cfg.Port),
		agent:              agent,
		authorizedKeysPath: cfg.AuthorizedKeysPath,
		panelOptions:       cfg.Panel,
		relay:              r,
	}

	if s.authorizedKeysPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		s.authorizedKeysPath = filepath.Join(homeDir, ".ssh", "authorized_keys")
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(paths.GetSSHDir(), "id_ed25519")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create SSH directory: %w", err)
	}

	// Middleware executes in reverse order (last to first)
	wishServer, err := wish.NewServer(
		wish.WithAddress(s.address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithPublicKeyAuth(s.authorizeKey),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			activeterm.Middleware(), // Require PTY
			wishlogging.Middleware(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}

	s.wishServer = wishServer
	return s, nil
}

// Address returns the host:port the server listens on
func (s *Server) Address() string {
	return s.address
}

// Start serves until ctx is cancelled, an interrupt arrives or the listener fails
func (s *Server) Start(ctx context.Context) error {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	logging.Logger.Info("Starting SSH server", "address", s.address)
	fmt.Printf("SSH server listening on %s\n", s.address)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.wishServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logging.Logger.Error("SSH server error", "error", err)
			return fmt.Errorf("SSH server failed: %w", err)
		}
		return nil
	case <-done:
	case <-ctx.Done():
	}
	logging.Logger.Info("Shutting down SSH server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.wishServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown SSH server: %w", err)
	}

	logging.Logger.Info("SSH server stopped")
	return nil
}

// authorizeKey accepts keys listed in the authorized_keys file
func (s *Server) authorizeKey(ctx ssh.Context, key ssh.PublicKey) bool {
	fingerprint := getKeyFingerprint(key)
	user := ctx.User()

	if !isKeyAuthorized(key, s.authorizedKeysPath) {
		logging.Logger.Warn("Unauthorized SSH key",
			"user", user,
			"fingerprint", fingerprint,
			"key_type", key.Type())
		return false
	}

	logging.Logger.Info("SSH key authenticated",
		"user", user,
		"fingerprint", fingerprint,
		"key_type", key.Type())
	return true
}
