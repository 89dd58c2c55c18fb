package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sifriya-app/shelfscan/internal/config"
	"github.com/sifriya-app/shelfscan/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the shelf detection API server",
		Long: `Starts the shelfscan HTTP API on the specified port.

The API accepts bookshelf photos on /api/detect, keeps the results available
for review under /api/scans, and adds confirmed books to the household
catalog via /api/books/bulk.`,
		Example: `  # Start server on default port 8888
  shelfscan serve

  # Start server on custom port
  shelfscan serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}

			detector, err := buildDetector(cfg)
			if err != nil {
				return err
			}
			catalogService, err := buildCatalog(cfg)
			if err != nil {
				return err
			}

			handler := handlers.New(detector, catalogService)
			if cfg.Server.DetectTimeout > 0 {
				handler.DetectTimeout = cfg.Server.DetectTimeout
			}

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/detect", handler.HandleDetect)
			mux.HandleFunc("/api/scans", handler.HandleScans)
			mux.HandleFunc("/api/scans/", handler.HandleScanDetail)
			mux.HandleFunc("/api/books/bulk", handler.HandleBulkIngest)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			if port == "" {
				port = cfg.Server.Port
			}
			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Shelfscan API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config: 8888)")

	return cmd
}
