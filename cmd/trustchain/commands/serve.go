package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	proofhttp "github.com/SagarGupta-30/TrustChain/proofs/service/http"
)

// NewServeCommand runs the HTTP proof service.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the TrustChain HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			service, err := newService(cfg, logger)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			handler := proofhttp.NewHandler(service, cfg.Limits.MaxUploadBytes, logger)
			handler.RegisterRoutes(mux, cfg.Server.APIKey)

			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})

			// Validated at load time, so these parses cannot fail.
			readTimeout, _ := time.ParseDuration(cfg.Server.ReadTimeout)
			writeTimeout, _ := time.ParseDuration(cfg.Server.WriteTimeout)
			idleTimeout, _ := time.ParseDuration(cfg.Server.IdleTimeout)

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
				Handler:      mux,
				ReadTimeout:  readTimeout,
				WriteTimeout: writeTimeout,
				IdleTimeout:  idleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("TrustChain service listening", zap.Int("port", cfg.Server.HTTPPort))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("http server: %w", err)
			case sig := <-quit:
				logger.Info("shutting down", zap.String("signal", sig.String()))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http server shutdown error", zap.Error(err))
			}

			logger.Info("service stopped")
			return nil
		},
	}
}
