package ui

import (
	"strings"

	"honk/prompt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// AskResult contains what the user entered in the ask form
type AskResult struct {
	Cancelled bool
	File      string
	Lines     string
	Question  string
}

// Selection loads the selection the result points at. It returns nil when no
// file was given.
func (r AskResult) Selection() (*prompt.Selection, error) {
	file := strings.TrimSpace(r.File)
	if file == "" {
		return nil, nil
	}

	start, end := 1, 1
	if strings.TrimSpace(r.Lines) != "" {
		var err error
		if start, end, err = prompt.ParseLineRange(r.Lines); err != nil {
			return nil, err
		}
	}
	return prompt.LoadSelection(file, start, end)
}

// AskForm is a Bubble Tea component asking for a question and an optional
// file selection to send along
type AskForm struct {
	Completed bool
	devMode   bool
	form      *huh.Form
	result    AskResult
}

// NewAskForm creates the form, prefilled with defaults
func NewAskForm(defaults AskResult, devMode bool) *AskForm {
	af := &AskForm{
		devMode: devMode,
		result:  defaults,
	}

	af.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ask goose something").
				Value(&af.result.Question).
				Validate(func(s string) error {
					_, err := prompt.Question(s, nil)
					return err
				}),
			huh.NewInput().
				Title("File").
				Description("Optional file the question is about").
				Value(&af.result.File),
			huh.NewInput().
				Title("Lines").
				Description("Line range in the file, e.g. 12-30").
				Value(&af.result.Lines).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, _, err := prompt.ParseLineRange(s)
					return err
				}),
		),
	)
	return af
}

func (af *AskForm) Init() tea.Cmd {
	return af.form.Init()
}

func (af *AskForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle Escape or Ctrl+C to cancel
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" || keyMsg.String() == "ctrl+c" {
			af.Completed = true
			af.result.Cancelled = true
			return af, tea.Quit
		}
	}

	form, cmd := af.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		af.form = f
	}

	if af.form.State == huh.StateCompleted {
		af.Completed = true
		return af, tea.Quit
	}

	return af, cmd
}

func (af *AskForm) View() string {
	if af.Completed {
		return ""
	}
	return renderHeader(af.devMode, "Ask") + "\n" + af.form.View()
}

// Result returns the form result
func (af *AskForm) Result() AskResult {
	return af.result
}
