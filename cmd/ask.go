package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"honk/domain"
	"honk/logging"
	"honk/prompt"
	"honk/relay"
	"honk/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// AskCmd starts the agent, sends one question and streams the answer
type AskCmd struct {
	Question string        `arg:"" optional:"" help:"Question to ask (prompted for when omitted)"`
	File     string        `help:"File the question is about" short:"f" type:"path"`
	Lines    string        `help:"Line range in --file, e.g. 12-30" short:"l"`
	KeepOpen bool          `help:"Do not send the exit command after the question"`
	Timeout  time.Duration `help:"Give up waiting for the agent after this long" default:"5m"`
}

// Run executes the ask command
func (a *AskCmd) Run(cli *CLI) error {
	request := ui.AskResult{File: a.File, Lines: a.Lines, Question: a.Question}

	if request.Question == "" {
		form := ui.NewAskForm(request, false)
		if _, err := tea.NewProgram(form).Run(); err != nil {
			return fmt.Errorf("error running form: %w", err)
		}
		request = form.Result()
		if request.Cancelled {
			return nil
		}
	}

	selection, err := request.Selection()
	if err != nil {
		return err
	}
	// Validate before anything is started
	if _, err := prompt.Question(request.Question, selection); err != nil {
		return err
	}

	container, err := NewContainer(cli)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	askErr := a.ask(ctx, cli, container, request.Question, selection)

	closeCtx, cancel := context.WithTimeout(context.Background(), cli.StopGrace+10*time.Second)
	defer cancel()
	closeErr := container.Close(closeCtx)

	if askErr != nil {
		return askErr
	}
	return closeErr
}

func (a *AskCmd) ask(ctx context.Context, cli *CLI, c *Container, question string, selection *prompt.Selection) error {
	program := programName(cli.Command)
	c.Agent.Relay().Attach(&relay.WriterSink{Out: os.Stdout, Status: os.Stderr})

	if err := c.Agent.Open(ctx); err != nil {
		return errors.New(domain.UserMessage(err, program))
	}

	// Give the agent time to come up before it is asked anything
	select {
	case <-time.After(cli.StartupDelay):
	case <-ctx.Done():
		return nil
	}

	c.Agent.FlushPrompt()
	if err := c.Agent.Ask(question, selection); err != nil {
		return errors.New(domain.UserMessage(err, program))
	}
	logging.Logger.Info("Question sent", "has_selection", selection != nil)

	if !a.KeepOpen {
		if err := c.Agent.Submit(cli.ExitCommand); err != nil {
			logging.Logger.Debug("Exit command not delivered", "error", err)
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	exit, err := c.Agent.Wait(waitCtx)
	switch {
	case err == nil:
		logging.Logger.Info("Agent finished", "exit", exit.String())
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s did not finish within %s", program, a.Timeout)
	case ctx.Err() != nil:
		return nil
	default:
		return err
	}
}
