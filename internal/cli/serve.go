package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lang-portal/internal/app"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides LANGPORTAL_PORT)")

	return cmd
}

// runServe starts the server and shuts it down when ctx is cancelled.
func runServe(ctx context.Context, cfg *app.Config) error {
	slog.Info("starting lang-portal server",
		"db_path", cfg.DBPath,
		"db_driver", cfg.DBDriver,
		"port", cfg.Port,
		"rate_limit_per_min", cfg.RateLimit,
		"cors_origins", cfg.CORSOrigins,
	)

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run()
	}()

	select {
	case err := <-errCh:
		if shutdownErr := a.Shutdown(context.Background()); shutdownErr != nil {
			slog.Warn("shutdown after server error failed", "error", shutdownErr)
		}
		return err
	case <-ctx.Done():
	}

	if err := a.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
