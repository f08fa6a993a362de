package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"honk/domain"
	"honk/logging"
	"honk/relay"
	"honk/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sinkBuffer is how many events may queue between the relay and the panel
const sinkBuffer = 256

// Agent is what the panel drives
type Agent interface {
	Open(ctx context.Context) error
	Status() domain.Status
	Stop()
	Submit(text string) error
}

// agentEventMsg carries one event from the relay
type agentEventMsg struct {
	event domain.Event
}

// sinkClosedMsg is sent once the panel's sink is closed
type sinkClosedMsg struct{}

// agentOpenedMsg reports the outcome of a (re)start
type agentOpenedMsg struct {
	err error
}

// submittedMsg reports the outcome of sending a line
type submittedMsg struct {
	err error
}

// PanelOptions configures a Panel
type PanelOptions struct {
	DevMode         bool
	EchoInput       bool
	ErrorClearDelay time.Duration
	Program         string
	ScrollbackLines int
}

// Panel is the agent surface: scrolling output, an input line and a status bar.
// It receives events through its own ChannelSink attached to the relay.
type Panel struct {
	agent      Agent
	errors     *ErrorManager
	help       help.Model
	input      textinput.Model
	keys       KeyMap
	options    PanelOptions
	relay      *relay.Relay
	scrollback *scrollback
	sink       *relay.ChannelSink
	startErr   error
	status     domain.Status
	viewport   viewport.Model

	height int
	ready  bool
	width  int
}

// NewPanel creates a panel for agent, fed by r
func NewPanel(agent Agent, r *relay.Relay, options PanelOptions) *Panel {
	input := textinput.New()
	input.Placeholder = "Ask goose something..."
	input.Prompt = "> "
	input.Focus()

	return &Panel{
		agent:      agent,
		errors:     NewErrorManager(options.ErrorClearDelay, options.Program),
		help:       help.New(),
		input:      input,
		keys:       NewKeyMap(),
		options:    options,
		relay:      r,
		scrollback: newScrollback(options.ScrollbackLines),
		sink:       relay.NewChannelSink(sinkBuffer),
		status:     agent.Status(),
		viewport:   viewport.New(0, 0),
	}
}

// Sink returns the sink the panel reads from
func (p *Panel) Sink() relay.Sink {
	return p.sink
}

// Init implements tea.Model. It attaches the panel to the relay, replacing any
// other surface.
func (p *Panel) Init() tea.Cmd {
	p.relay.Attach(p.sink)
	p.status = p.agent.Status()

	cmds := []tea.Cmd{textinput.Blink, p.waitForEvent()}
	if p.startErr != nil {
		cmds = append(cmds, p.setError(p.startErr))
	}
	return tea.Batch(cmds...)
}

// ShowStartError makes the panel open with err on its error line
func (p *Panel) ShowStartError(err error) {
	p.startErr = err
}

// Close detaches the panel from the relay. Safe to call more than once.
func (p *Panel) Close() {
	p.relay.DetachSink(p.sink)
	p.sink.Close()
}

// Update implements tea.Model
func (p *Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.resize()
		return p, nil

	case clearErrorMsg:
		p.errors.HandleClear(msg)
		p.resize()
		return p, nil

	case agentEventMsg:
		p.handleEvent(msg.event)
		return p, p.waitForEvent()

	case sinkClosedMsg:
		return p, nil

	case agentOpenedMsg:
		p.status = p.agent.Status()
		if msg.err != nil {
			return p, p.setError(msg.err)
		}
		p.scrollback.Line(theme.ExitLineStyle.Render("[agent started]"))
		p.refresh()
		return p, nil

	case submittedMsg:
		if msg.err != nil {
			p.status = p.agent.Status()
			return p, p.setError(msg.err)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p, tea.Quit

		case key.Matches(msg, p.keys.Submit):
			text := p.input.Value()
			p.input.Reset()
			if p.options.EchoInput && strings.TrimSpace(text) != "" {
				p.scrollback.Line(theme.EchoStyle.Render("> " + text))
				p.refresh()
			}
			return p, p.submitCmd(text)

		case key.Matches(msg, p.keys.PageUp):
			p.viewport.ScrollUp(max(1, p.viewport.Height/2))
			return p, nil

		case key.Matches(msg, p.keys.PageDown):
			p.viewport.ScrollDown(max(1, p.viewport.Height/2))
			return p, nil

		case key.Matches(msg, p.keys.Restart):
			p.status = p.agent.Status()
			if p.status.State == domain.StateRunning {
				return p, p.setError(domain.ErrAlreadyRunning)
			}
			return p, p.openCmd()

		case key.Matches(msg, p.keys.Stop):
			p.agent.Stop()
			return p, nil

		case key.Matches(msg, p.keys.Help):
			p.help.ShowAll = !p.help.ShowAll
			p.resize()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View implements tea.Model
func (p *Panel) View() string {
	if !p.ready {
		return "Starting...\n"
	}

	var b strings.Builder
	b.WriteString(renderHeader(p.options.DevMode, ""))
	b.WriteString("\n")
	b.WriteString(p.viewport.View())
	b.WriteString("\n")
	b.WriteString(p.renderStatus())
	b.WriteString("\n")
	if p.errors.HasError() {
		b.WriteString(theme.ErrorStyle.Render(p.errors.Message()))
		b.WriteString("\n")
	}
	b.WriteString(p.input.View())
	b.WriteString("\n")
	b.WriteString(p.help.View(p.keys))
	return b.String()
}

// Output returns the scrollback text
func (p *Panel) Output() string {
	return p.scrollback.String()
}

func (p *Panel) handleEvent(ev domain.Event) {
	switch ev.Kind {
	case domain.EventOutput:
		p.scrollback.Write(string(ev.Chunk))
	case domain.EventExit:
		p.status = p.agent.Status()
		p.scrollback.Line(theme.ExitLineStyle.Render(fmt.Sprintf("[agent %s, press ctrl+r to restart]", ev.Exit.String())))
		logging.Logger.Debug("Panel saw agent exit", "run_id", ev.RunID, "exit", ev.Exit.String())
	}
	p.refresh()
}

// refresh pushes the scrollback into the viewport, following the tail unless
// the user scrolled up
func (p *Panel) refresh() {
	follow := p.viewport.AtBottom()
	p.viewport.SetContent(p.scrollback.String())
	if follow {
		p.viewport.GotoBottom()
	}
}

func (p *Panel) setError(err error) tea.Cmd {
	cmd := p.errors.SetError(err)
	p.resize()
	return cmd
}

// resize lays out the viewport between the header and the footer
func (p *Panel) resize() {
	if p.width == 0 || p.height == 0 {
		return
	}

	header := lipgloss.Height(renderHeader(p.options.DevMode, "")) + 1
	footer := 2 + lipgloss.Height(p.help.View(p.keys)) // status + input + help
	if p.errors.HasError() {
		footer++
	}

	p.help.Width = p.width
	p.input.Width = max(1, p.width-4)
	p.viewport.Width = p.width
	p.viewport.Height = max(1, p.height-header-footer)
	p.ready = true
	p.refresh()
}

func (p *Panel) renderStatus() string {
	return theme.StateIcon(p.status.State) + " " + theme.StatusStyle.Render(p.status.String())
}

func (p *Panel) waitForEvent() tea.Cmd {
	sink := p.sink
	return func() tea.Msg {
		select {
		case ev := <-sink.Events():
			return agentEventMsg{event: ev}
		case <-sink.Done():
			return sinkClosedMsg{}
		}
	}
}

func (p *Panel) submitCmd(text string) tea.Cmd {
	agent := p.agent
	return func() tea.Msg {
		return submittedMsg{err: agent.Submit(text)}
	}
}

func (p *Panel) openCmd() tea.Cmd {
	agent := p.agent
	return func() tea.Msg {
		return agentOpenedMsg{err: agent.Open(context.Background())}
	}
}
