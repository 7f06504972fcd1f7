package medcare

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/api"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/config"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/logging"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/symptoms"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the symptom analysis HTTP API",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default $PORT or 8080)")
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	svc, err := symptoms.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}

	server := api.NewServer(api.Config{
		Service:     svc,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := net.JoinHostPort("", cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Leave room for a full upstream call plus the response.
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := withSignal(cmd.Context())
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     addr,
			"env":      cfg.Env,
			"strategy": svc.StrategyName(),
		}).Info("Starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
