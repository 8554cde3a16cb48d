package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/api"
)

// newServeCmd creates the 'serve' subcommand, which exposes the editorial
// command API over HTTP.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the editorial command API",
		Long: `Starts the HTTP API: free-text editorial commands, forced-topic article
runs, run status, the persisted article list, and Prometheus metrics. Article
runs execute in the background, one at a time.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			cfg := appInstance.Config()
			logger := appInstance.Logger()

			runs := api.NewRunStore()
			manager, err := api.NewManager(
				appInstance.Pipeline(),
				appInstance.Assistant(),
				appInstance.Mailer(),
				runs,
				appInstance.IDGenerator(),
				appInstance.Clock(),
				cfg.Site.SiteURL,
				logger,
			)
			if err != nil {
				return fmt.Errorf("init run manager: %w", err)
			}

			server := api.NewServer(manager, appInstance.Assistant(), runs, appInstance.Store(), api.AuthConfig{
				Enabled: cfg.Server.Auth.Enabled,
				APIKey:  cfg.Server.Auth.APIKey,
			}, logger)

			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:           server.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("api listening", zap.String("addr", httpServer.Addr))
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
	return cmd
}
