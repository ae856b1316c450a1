package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ddadvisor/internal/app"
	"ddadvisor/internal/metrics"
	chiTransport "ddadvisor/internal/transport/chi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides http.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, l, err := setup(false)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}
	metrics.Register()

	a := app.New(cfg, l)
	var asker chiTransport.Asker
	if a.Orchestrator != nil {
		asker = a
	}
	server := chiTransport.NewServer(asker, a, l)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      chiTransport.NewRouter(server, l),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSecs) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		l.Info("Starting HTTP server", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	l.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Error during shutdown", zap.Error(err))
		return err
	}
	l.Info("Server stopped gracefully")
	return nil
}
