package cmd

import (
	"context"
	"fmt"
	"os"

	"honk/application"
	"honk/config"
	"honk/logging"
	"honk/ports"
	"honk/process"
	"honk/sound"
	"honk/storage"
	"honk/workspace"
)

// Container wires the agent session, run history and service for one command
type Container struct {
	Agent   *application.AgentService
	Runs    ports.RunRepository
	Session *process.Session

	unnotify func()
}

// NewContainer builds the dependencies from the parsed CLI
func NewContainer(cli *CLI) (*Container, error) {
	c := &Container{}

	var runs ports.RunWriter
	if !cli.NoHistory {
		store, err := storage.NewStore(cli.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		c.Runs = store
		runs = store
	}

	shell := cli.Shell
	if shell == "" {
		shell = config.DefaultShell()
	}

	dir := cli.Dir
	if dir == "" {
		if cwd, err := os.Getwd(); err == nil {
			dir = cwd
		}
	}

	c.Session = process.NewSession(
		process.WithShell(shell),
		process.WithDir(dir),
		process.WithEnv(cli.env()...),
		process.WithPTY(cli.PTY),
	)
	if cli.Notify {
		c.unnotify = c.Session.Subscribe(sound.NewNotifier(sound.NewPlayer()))
	}
	c.Agent = application.NewAgentService(c.Session, runs, workspace.NewTracker(cli.ContextDir), cli.agentOptions())

	logging.Logger.Debug("Container ready",
		"shell", shell,
		"dir", dir,
		"pty", cli.PTY,
		"history", !cli.NoHistory,
		"notify", cli.Notify)
	return c, nil
}

// Close stops the agent if it is still running and releases resources
func (c *Container) Close(ctx context.Context) error {
	result, err := c.Agent.Close(ctx)
	if err != nil {
		logging.Logger.Warn("Agent did not shut down cleanly", "error", err)
	} else if result.Forced {
		logging.Logger.Info("Agent was stopped", "exit", result.Exit.String())
	}
	c.Agent.Shutdown()
	if c.unnotify != nil {
		c.unnotify()
	}

	if c.Runs != nil {
		if cerr := c.Runs.Close(); cerr != nil {
			logging.Logger.Error("Failed to close run history", "error", cerr)
		}
	}
	return err
}

// programName returns the agent's program for user-facing messages
func programName(command string) string {
	if program := process.ProgramName(command); program != "" {
		return program
	}
	return "the agent"
}
