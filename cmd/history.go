package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"honk/domain"
	"honk/storage"
)

// HistoryCmd lists recorded agent runs
type HistoryCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Limit  int    `help:"Number of runs to show (0 = all)" default:"20" short:"n"`
}

// Run executes the history command
func (h *HistoryCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(cli.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), h.Limit)
	if err != nil {
		return err
	}

	if h.Format == "json" {
		return h.printJSON(runs)
	}
	return h.printTable(runs)
}

func (h *HistoryCmd) printJSON(runs []domain.Run) error {
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func (h *HistoryCmd) printTable(runs []domain.Run) error {
	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTATE\tOUTCOME\tSTARTED\tDURATION\tOUTPUT\tCOMMAND")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(run.ID),
			run.State,
			outcome(run),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration(now).Round(time.Second),
			formatBytes(run.BytesOut),
			run.Command)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func outcome(run domain.Run) string {
	switch {
	case run.State == domain.StateFailed:
		return run.Reason
	case run.Exit != nil:
		return run.Exit.String()
	default:
		return "-"
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
