package application

import (
	"time"

	"honk/domain"
)

const (
	DefaultCommand      = "goose session start"
	DefaultExitCommand  = "exit"
	DefaultStartupDelay = 4 * time.Second
	DefaultStopGrace    = 3 * time.Second
)

// AgentOptions controls how the agent is started and shut down
type AgentOptions struct {
	Command       string
	ExitCommand   string
	InitialPrompt bool
	StartupDelay  time.Duration
	StopGrace     time.Duration
}

// withDefaults fills zero fields with the defaults
func (o AgentOptions) withDefaults() AgentOptions {
	if o.Command == "" {
		o.Command = DefaultCommand
	}
	if o.ExitCommand == "" {
		o.ExitCommand = DefaultExitCommand
	}
	if o.StopGrace <= 0 {
		o.StopGrace = DefaultStopGrace
	}
	if o.StartupDelay < 0 {
		o.StartupDelay = 0
	}
	return o
}

// CloseResult describes how the agent went away on Close
type CloseResult struct {
	Exit   domain.ExitStatus
	Forced bool
}
