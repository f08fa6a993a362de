package cmd

import (
	"fmt"
	"os"
	"time"

	"honk/application"
	"honk/config"
	"honk/logging"
	"honk/paths"
	"honk/version"

	"github.com/alecthomas/kong"
)

const defaultMaxLogFiles = 1000

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	DBPath      string           `help:"Path to the SQLite run history (default: $HONK_HOME/history.db)" env:"HONK_DB_PATH"`
	NoHistory   bool             `help:"Do not record agent runs"`
	Notify      bool             `help:"Play a sound when the agent exits" env:"HONK_NOTIFY"`

	Command         string        `help:"Command that starts the agent" default:"goose session start" env:"HONK_COMMAND"`
	ContextDir      string        `help:"Directory holding the open/unsaved file lists (default: OS temp dir)" type:"path" env:"HONK_CONTEXT_DIR"`
	Dir             string        `help:"Working directory of the agent (default: current directory)" type:"path"`
	ExitCommand     string        `help:"Line sent to ask the agent to exit" default:"exit"`
	NoInitialPrompt bool          `help:"Do not send the orientation prompt after start"`
	PTY             bool          `help:"Run the agent on a pseudo-terminal instead of pipes" env:"HONK_PTY"`
	Shell           string        `help:"Shell used to run the command (default: $SHELL)" env:"HONK_SHELL"`
	StartupDelay    time.Duration `help:"Delay before the orientation prompt is sent" default:"4s"`
	StopGrace       time.Duration `help:"How long the agent may take to honour the exit command" default:"3s"`

	Run       RunCmd       `cmd:"" help:"Open the agent panel (default)" default:"1"`
	Serve     ServeCmd     `cmd:"serve" help:"Serve the agent panel over SSH"`
	Ask       AskCmd       `cmd:"ask" help:"Send one question to the agent and stream the answer"`
	Context   ContextCmd   `cmd:"context" help:"Update the open and unsaved file lists the agent reads"`
	History   HistoryCmd   `cmd:"history" help:"List recorded agent runs"`
	PlaySound PlaySoundCmd `cmd:"play-sound" help:"Play a notification sound"`
	Info      VersionCmd   `cmd:"version" help:"Print version information"`

	// Internal field for settings (not a flag)
	settings *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set
	if c.settings != nil {
		c.applySettings(c.settings)
	}
	if c.DBPath == "" {
		c.DBPath = paths.GetDBPath()
	}

	// Initialize logging first and get the log file path
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Child processes inherit debug settings and append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("HONK_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("HONK_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != defaultMaxLogFiles {
		os.Setenv("HONK_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	return nil
}

func (c *CLI) applySettings(s *config.Settings) {
	if c.DBPath == "" && s.DBPath != "" {
		c.DBPath = s.DBPath
	}

	if c.MaxLogFiles == defaultMaxLogFiles && !hasEnv("HONK_MAX_LOG_FILES") && s.MaxLogFiles != nil {
		c.MaxLogFiles = *s.MaxLogFiles
	}

	if !c.Debug && !hasEnv("HONK_DEBUG") && s.Debug != nil && *s.Debug {
		c.Debug = true
	}

	if c.Command == application.DefaultCommand && !hasEnv("HONK_COMMAND") && s.Command != "" {
		c.Command = s.Command
	}

	if c.Shell == "" && !hasEnv("HONK_SHELL") && s.Shell != "" {
		c.Shell = s.Shell
	}

	if !c.Notify && !hasEnv("HONK_NOTIFY") && s.Notify != nil && *s.Notify {
		c.Notify = true
	}

	if !c.PTY && !hasEnv("HONK_PTY") && s.PTY != nil && *s.PTY {
		c.PTY = true
	}

	if c.ExitCommand == application.DefaultExitCommand && s.ExitCommand != "" {
		c.ExitCommand = s.ExitCommand
	}

	if !c.NoInitialPrompt && s.InitialPrompt != nil && !*s.InitialPrompt {
		c.NoInitialPrompt = true
	}

	if c.StartupDelay == application.DefaultStartupDelay && s.StartupDelayMs != nil {
		c.StartupDelay = time.Duration(*s.StartupDelayMs) * time.Millisecond
	}

	if c.StopGrace == application.DefaultStopGrace && s.StopGraceMs != nil {
		c.StopGrace = time.Duration(*s.StopGraceMs) * time.Millisecond
	}
}

// agentOptions returns the options the agent service runs with
func (c *CLI) agentOptions() application.AgentOptions {
	return application.AgentOptions{
		Command:       c.Command,
		ExitCommand:   c.ExitCommand,
		InitialPrompt: !c.NoInitialPrompt,
		StartupDelay:  c.StartupDelay,
		StopGrace:     c.StopGrace,
	}
}

// env returns extra environment entries from settings.json
func (c *CLI) env() []string {
	if c.settings == nil {
		return nil
	}
	return c.settings.Env
}

func hasEnv(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// VersionCmd prints version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run() error {
	fmt.Println(version.Info())
	return nil
}
