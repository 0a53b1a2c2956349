package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/revizor/internal/config"
	"github.com/ppiankov/revizor/internal/engine"
	"github.com/ppiankov/revizor/internal/gitinfo"
	"github.com/ppiankov/revizor/internal/history"
	"github.com/ppiankov/revizor/internal/ollama"
	"github.com/ppiankov/revizor/internal/reporter"
	"github.com/ppiankov/revizor/internal/review"
)

func newReviewCmd() *cobra.Command {
	var (
		format    string
		output    string
		noAI      bool
		requireAI bool
		noColor   bool
		useTUI    bool
		minSev    string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "review <path>",
		Short: "Review a file or directory and print findings",
		Long: `Review runs the static rule catalog over every supported file under
the given path, then asks the configured Ollama models for a deeper
pass when a model is reachable. Findings from both passes are merged
into a single report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("no-ai") && noAI {
				cfg.Analysis.AI.Enabled = false
			}
			if cmd.Flags().Changed("require-ai") && requireAI {
				cfg.Analysis.AI.Enabled = true
				cfg.Analysis.AI.Required = true
			}

			var minSeverity review.Severity
			if minSev != "" {
				minSeverity = review.ParseSeverity(minSev)
				if minSeverity == 0 {
					return fmt.Errorf("unknown severity %q (want critical, high, medium or low)", minSev)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var ai engine.AIClient
			if cfg.Analysis.AI.Enabled {
				ai = ollama.New(cfg.Models.Host, cfg.Models.Timeout)
			}

			eng := engine.New(cfg, ai)
			report, err := eng.Review(ctx, args[0])
			if err != nil {
				return err
			}

			if cfg.Git.Enabled {
				if info, gerr := gitinfo.Detect(ctx, args[0]); gerr == nil && info != nil {
					report.Git = info
				}
			}

			if minSeverity != 0 {
				report = review.FilterMinSeverity(report, minSeverity)
			}

			if !noHistory && cfg.History.Path != "" {
				if err := saveRun(ctx, cfg, report); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: history not saved: %v\n", err)
				}
			}

			if useTUI && isTerminal() {
				return reporter.RunTUI(report)
			}

			color := isTerminal() && !noColor && output == ""
			f, err := reporter.ByName(format, color)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				fh, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer fh.Close()
				out = fh
			}
			if err := f.Format(out, report); err != nil {
				return err
			}

			return writeConfigured(cmd, cfg, report, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, html or sarif")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the model pass, static rules only")
	cmd.Flags().BoolVar(&requireAI, "require-ai", false, "fail instead of degrading when no model is reachable")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "browse the report interactively")
	cmd.Flags().StringVar(&minSev, "severity", "", "only report issues at this severity or worse")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run in the history database")

	return cmd
}

// saveRun records the report in the history database. History failures never
// fail the review itself.
func saveRun(ctx context.Context, cfg *config.Settings, r *review.Report) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Save(ctx, r)
	return err
}

// writeConfigured emits the extra report files enabled in the config. The
// stdout format is skipped so the same report is not rendered twice.
func writeConfigured(cmd *cobra.Command, cfg *config.Settings, r *review.Report, stdoutFormat string) error {
	enabled := map[string]bool{
		"json":  cfg.Output.JSON,
		"html":  cfg.Output.HTML,
		"sarif": cfg.Output.SARIF,
	}
	for _, format := range []string{"json", "html", "sarif"} {
		if !enabled[format] || format == stdoutFormat {
			continue
		}
		path, err := reporter.WriteFile(r, cfg.Output.Dir, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	}
	return nil
}
