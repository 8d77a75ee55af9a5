package mock

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/internal/mockapi"
)

var (
	addr     string
	tokenTTL time.Duration
)

// MockCmd groups the demo backend commands
var MockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run the in-memory demo backend",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo dashboard API",
	Long: `Starts an in-memory dashboard API with demo data. Log in against it with

  cohortctl --base-url http://127.0.0.1:8000 auth login --refresh-token demo-admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		backend := mockapi.New(mockapi.Options{TokenTTL: tokenTTL})
		srv := &http.Server{
			Addr:              addr,
			Handler:           backend.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		pterm.Info.Printf("Demo API listening on http://%s (refresh tokens: demo-admin, demo-head, demo-teacher, demo-student)\n", addr)

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		cfg.Logger.Debug("shutting down demo API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Listen address")
	serveCmd.Flags().DurationVar(&tokenTTL, "token-ttl", 15*time.Minute, "Lifetime of minted access tokens")
	MockCmd.AddCommand(serveCmd)
}
