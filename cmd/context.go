package cmd

import (
	"fmt"

	"honk/workspace"
)

// ContextCmd updates the file lists the agent is pointed at
type ContextCmd struct {
	Open    []string `help:"Files the user has open" short:"o"`
	Unsaved []string `help:"Open files with unsaved changes" short:"u"`
	Show    bool     `help:"Print the current lists instead of updating them"`
}

// Run executes the context command
func (c *ContextCmd) Run(cli *CLI) error {
	tracker := workspace.NewTracker(cli.ContextDir)

	if !c.Show {
		if err := tracker.Update(c.Open, c.Unsaved); err != nil {
			return err
		}
	}

	open, unsaved, err := tracker.Read()
	if err != nil {
		return err
	}

	fmt.Printf("Open files (%s):\n", tracker.OpenFilesPath())
	for _, f := range open {
		fmt.Printf("  %s\n", f)
	}
	fmt.Printf("Unsaved files (%s):\n", tracker.UnsavedFilesPath())
	for _, f := range unsaved {
		fmt.Printf("  %s\n", f)
	}
	return nil
}
