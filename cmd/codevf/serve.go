package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codevf/codevf-go/internal/config"
	"github.com/codevf/codevf-go/internal/serve"
	"github.com/codevf/codevf-go/pkg/codevf"
	"github.com/codevf/codevf-go/pkg/review"
)

func serveCmd() *cobra.Command {
	var (
		stdio bool
		bind  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the codevf_review tool to MCP clients",
		Long: `Serve runs an MCP server exposing the codevf_review tool, either over
stdio (for agent hosts that spawn tool servers as subprocesses) or over
streamable HTTP with health and metrics endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.Serve.Bind = bind
			}

			client, err := codevf.New(cfg.ClientConfig())
			if err != nil {
				return err
			}

			// In stdio mode stdout belongs to the protocol; logs go to stderr
			// either way.
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			reviewer, err := review.New(client, cfg.ReviewOptions())
			if err != nil {
				return err
			}
			reviewer = reviewer.WithLogger(logger)

			srv := serve.New(cfg.Serve, reviewer, client, logger, version)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if stdio {
				return srv.ServeStdio(ctx)
			}

			if err := srv.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			stop()
			return srv.Stop(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve over stdin/stdout instead of HTTP")
	cmd.Flags().StringVar(&bind, "bind", "", "HTTP listen address (default "+config.DefaultBind+")")

	return cmd
}
