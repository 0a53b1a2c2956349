package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/revizor/internal/config"
	"github.com/ppiankov/revizor/internal/engine"
	"github.com/ppiankov/revizor/internal/history"
	"github.com/ppiankov/revizor/internal/ollama"
	"github.com/ppiankov/revizor/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Serve starts an HTTP server exposing a small dashboard and a JSON API
for launching reviews and browsing past runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Output.WebPort = port
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			client := ollama.New(cfg.Models.Host, cfg.Models.Timeout)
			var ai engine.AIClient
			if cfg.Analysis.AI.Enabled {
				ai = client
			}

			srv := web.New(cfg, engine.New(cfg, ai), store, client)
			addr := fmt.Sprintf(":%d", cfg.Output.WebPort)
			fmt.Fprintf(cmd.ErrOrStderr(), "revizor web on http://localhost%s\n", addr)
			return srv.Run(addr)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")

	return cmd
}
