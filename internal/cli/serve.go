package cli

import (
	"github.com/spf13/cobra"

	"github.com/ddrutch/AWSInfoGraphic/internal/server"
	"github.com/ddrutch/AWSInfoGraphic/pkg/config"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string
	configPath string
	offline    bool
}

// newServeCmd creates the serve command, which runs the HTTP API.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the infographic HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}

			runner, closeCache, err := buildRunner(ctx, cfg, runnerOpts{offline: opts.offline}, logger)
			if err != nil {
				return err
			}
			defer closeCache()

			printInfo("Listening on %s", cfg.Server.Addr)
			return server.New(runner, logger, cfg.Server.Addr).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (TOML)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "run without AWS: extractive analysis and placeholder imagery")

	return cmd
}
