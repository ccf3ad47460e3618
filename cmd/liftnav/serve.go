package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/liftnav/internal/cli"
	httpAdapter "github.com/aretw0/liftnav/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the navigation coordinator as a JSON API with a server-sent event stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, host, err := loadHost(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}

		opts := []httpAdapter.Option{httpAdapter.WithLogger(host.Logger)}
		if cfg.HTTP.Metrics {
			opts = append(opts, httpAdapter.WithMetricsHandler(host.MetricsHandler()))
		}
		handler, err := httpAdapter.NewHandler(host.Nav, opts...)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if ok, err := host.StartMirror(ctx); err != nil {
			host.Logger.Warn("redis mirror disabled", "err", err)
		} else if ok {
			host.Logger.Info("redis mirror enabled", "addr", cfg.Redis.Addr)
		}

		srv := &http.Server{
			Addr:    cfg.Addr(),
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			host.Logger.Info("Starting liftnav server", "addr", srv.Addr, "surface", cfg.Surface)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			host.Logger.Info("Start shutdown", "signal", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				host.Logger.Error("Graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			host.Logger.Info("liftnav server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
}
