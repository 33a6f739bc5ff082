package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/prettynotes/internal/api"
	"github.com/dgallion1/prettynotes/internal/config"
	"github.com/dgallion1/prettynotes/internal/pipeline"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			if err := cfg.ValidateServer(); err != nil {
				log.Error("invalid configuration", "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			gen, err := newGenerator(ctx, cfg)
			if err != nil {
				return err
			}
			conv, err := newConverter(cfg, gen, log)
			if err != nil {
				return err
			}

			orch := pipeline.NewOrchestrator(cfg, conv, log)
			orch.Start(context.Background())

			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      api.NewServer(orch, gen, log, cfg),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting prettynotes",
					"port", cfg.Port,
					"provider", cfg.Provider,
					"model", cfg.Model(),
					"workers", cfg.WorkerCount,
				)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				orch.Stop()
				if !errors.Is(err, http.ErrServerClosed) {
					log.Error("server error", "error", err)
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Warn("http shutdown", "error", err)
			}
			orch.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: PORT or 8090)")
	return cmd
}
