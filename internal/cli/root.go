package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/revizor/internal/reporter"
)

// Version, Commit and BuildDate are set via LDFLAGS at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configFile string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "revizor",
		Short: "AI-assisted code review for local projects",
		Long:  "revizor runs a static rule catalog and local Ollama models over a file or directory and reports quality, security, and performance issues.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&configFile, "config", ".revizor.yml", "path to config file")

	root.AddCommand(newReviewCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	return reporter.IsTerminal(os.Stdout)
}
