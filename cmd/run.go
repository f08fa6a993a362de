package cmd

import (
	"context"
	"fmt"
	"time"

	"honk/domain"
	"honk/logging"
	"honk/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// RunCmd opens the agent panel in the terminal
type RunCmd struct {
	Dev             bool `help:"Enable development mode (shows version info in the header)"`
	ErrorClearDelay int  `help:"Seconds before error messages auto-clear" default:"10"`
	ScrollbackLines int  `help:"Lines of agent output kept in the panel (0 = unlimited)" default:"5000"`
}

// Run executes the panel
func (r *RunCmd) Run(cli *CLI) error {
	if cli.settings != nil {
		if r.ErrorClearDelay == 10 && cli.settings.ErrorClearDelay != nil {
			r.ErrorClearDelay = *cli.settings.ErrorClearDelay
		}
		if r.ScrollbackLines == 5000 && cli.settings.ScrollbackLines != nil {
			r.ScrollbackLines = *cli.settings.ScrollbackLines
		}
	}

	logging.Logger.Info("Starting honk panel")

	container, err := NewContainer(cli)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	program := programName(cli.Command)
	panel := openPanel(container, ui.PanelOptions{
		DevMode:         r.Dev,
		EchoInput:       !cli.PTY,
		ErrorClearDelay: time.Duration(r.ErrorClearDelay) * time.Second,
		Program:         program,
		ScrollbackLines: r.ScrollbackLines,
	})

	p := tea.NewProgram(panel, tea.WithAltScreen())

	logging.Logger.Info("Starting TUI program")
	_, runErr := p.Run()
	panel.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cli.StopGrace+10*time.Second)
	defer cancel()
	closeErr := container.Close(ctx)

	if runErr != nil {
		logging.Logger.Error("TUI program error", "error", runErr)
		return fmt.Errorf("error running program: %w", runErr)
	}
	if st := container.Agent.Status(); st.State == domain.StateExited {
		fmt.Printf("%s %s\n", program, st.String())
	}

	logging.Logger.Info("TUI program exited normally")
	return closeErr
}

// openPanel builds the panel and attaches it before the agent starts, so the
// panel sees the agent's output from its first byte. A start failure is shown
// in the panel, where ctrl+r retries.
func openPanel(c *Container, options ui.PanelOptions) *ui.Panel {
	panel := ui.NewPanel(c.Agent, c.Agent.Relay(), options)
	c.Agent.Relay().Attach(panel.Sink())

	if err := c.Agent.Open(context.Background()); err != nil {
		logging.Logger.Warn("Agent did not start", "error", err)
		panel.ShowStartError(err)
	}
	return panel
}
