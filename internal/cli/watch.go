package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/revizor/internal/config"
	"github.com/ppiankov/revizor/internal/engine"
	"github.com/ppiankov/revizor/internal/ollama"
	"github.com/ppiankov/revizor/internal/reporter"
	"github.com/ppiankov/revizor/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var (
		poll     bool
		debounce time.Duration
		withAI   bool
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-review files as they change",
		Long: `Watch monitors a directory and re-runs the review on every batch of
saved files. The model pass is skipped by default so feedback stays
fast; pass --ai to include it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return err
			}
			// Watch loops favor latency over depth.
			if !withAI {
				cfg.Analysis.AI.Enabled = false
			}

			eng := engine.New(cfg, watchClient(cfg))
			color := isTerminal()
			f := reporter.NewTextFormatter(color)

			onChange := func(ctx context.Context, files []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d file(s) changed\n", len(files))
				for _, path := range files {
					report, err := eng.Review(ctx, path)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "review %s: %v\n", path, err)
						continue
					}
					if err := f.Format(cmd.OutOrStdout(), report); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "render report: %v\n", err)
					}
				}
			}

			w, err := watch.New(watch.Config{
				Root:     args[0],
				Debounce: debounce,
				PollMode: poll,
				OnChange: onChange,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&poll, "poll", false, "use mod-time polling instead of fsnotify")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet window before a changed batch is reviewed")
	cmd.Flags().BoolVar(&withAI, "ai", false, "include the model pass on each change")

	return cmd
}

func watchClient(cfg *config.Settings) engine.AIClient {
	if !cfg.Analysis.AI.Enabled {
		return nil
	}
	return ollama.New(cfg.Models.Host, cfg.Models.Timeout)
}
