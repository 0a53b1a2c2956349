package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/revizor/internal/config"
	"github.com/ppiankov/revizor/internal/history"
	"github.com/ppiankov/revizor/internal/reporter"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past review runs",
	}
	cmd.AddCommand(newHistoryListCmd(), newHistoryShowCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tPATH\tFILES\tISSUES\tSECURITY")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
					e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Path,
					e.FilesReviewed, e.IssuesFound, e.SecurityIssues)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			report, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			f, err := reporter.ByName(format, isTerminal())
			if err != nil {
				return err
			}
			return f.Format(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, html or sarif")

	return cmd
}
