package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"playcheck/internal/handlers"
	"playcheck/internal/middleware"
	"playcheck/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the check endpoint over HTTP",
	Long:  `Exposes POST /api/v1/check, GET /health and GET /metrics. Every request is an independent exchange.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		a, err := newApp(cfg, logger, reg)
		if err != nil {
			return err
		}
		defer a.Close()

		limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		defer limiter.Stop()

		r := router.New(
			handlers.NewCheckHandler(a.controller, cfg.RequestTimeout),
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			limiter,
		)

		server := &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.WriteTimeout(),
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown
		go func() {
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			logger.Info("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		}()

		logger.Info("PlayCheck ready", "addr", fmt.Sprintf("http://localhost:%s", cfg.Port))

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
