package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"honk/logging"
	"honk/server"
	"honk/ui"
)

// ServeCmd serves the agent panel over SSH
type ServeCmd struct {
	AuthorizedKeys  string `help:"authorized_keys file listing allowed client keys (default: ~/.ssh/authorized_keys)" type:"path"`
	ErrorClearDelay int    `help:"Seconds before error messages auto-clear" default:"10"`
	Host            string `help:"Host to bind to" default:"localhost"`
	Port            string `help:"Port to listen on" default:"23234"`
	ScrollbackLines int    `help:"Lines of agent output kept per panel (0 = unlimited)" default:"5000"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	if cli.settings != nil {
		if s.Host == "localhost" && cli.settings.SSHHost != "" {
			s.Host = cli.settings.SSHHost
		}
		if s.Port == "23234" && cli.settings.SSHPort != nil {
			s.Port = strconv.Itoa(*cli.settings.SSHPort)
		}
		if s.ErrorClearDelay == 10 && cli.settings.ErrorClearDelay != nil {
			s.ErrorClearDelay = *cli.settings.ErrorClearDelay
		}
		if s.ScrollbackLines == 5000 && cli.settings.ScrollbackLines != nil {
			s.ScrollbackLines = *cli.settings.ScrollbackLines
		}
	}

	logging.Logger.Info("Starting honk SSH server",
		"host", s.Host,
		"port", s.Port,
		"command", cli.Command)

	container, err := NewContainer(cli)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := container.Agent.Open(ctx); err != nil {
		logging.Logger.Warn("Agent did not start", "error", err)
	}

	srv, err := server.NewServer(container.Agent, container.Agent.Relay(), server.Config{
		AuthorizedKeysPath: s.AuthorizedKeys,
		Host:               s.Host,
		Panel: ui.PanelOptions{
			EchoInput:       !cli.PTY,
			ErrorClearDelay: time.Duration(s.ErrorClearDelay) * time.Second,
			Program:         programName(cli.Command),
			ScrollbackLines: s.ScrollbackLines,
		},
		Port: s.Port,
	})
	if err != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), cli.StopGrace+10*time.Second)
		defer cancel()
		container.Close(closeCtx)
		return fmt.Errorf("failed to create server: %w", err)
	}

	serveErr := srv.Start(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), cli.StopGrace+10*time.Second)
	defer cancel()
	closeErr := container.Close(closeCtx)

	if serveErr != nil {
		return serveErr
	}
	return closeErr
}
