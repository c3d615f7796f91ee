package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lecternlabs/lectern/internal/config"
	"github.com/lecternlabs/lectern/server"
	"github.com/lecternlabs/lectern/tools"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Canvas tool gateway over HTTP",
	Long: `Serve starts the HTTP gateway. Every tool call carries its own Canvas
base URL and API token, so one gateway instance can front any number of
Canvas instances and callers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()

		settings, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logger.Info("configuration loaded",
			"default_per_page", settings.DefaultPerPage,
			"max_per_page", settings.MaxPerPage,
			"request_timeout", settings.RequestTimeout,
			"enable_caching", settings.EnableCaching,
			"enable_debug", settings.EnableDebug,
		)

		if timeout > 0 {
			settings.RequestTimeout = int(timeout.Seconds())
		}
		requestTimeout := settings.Timeout()

		registry, err := tools.Default()
		if err != nil {
			return fmt.Errorf("build tool registry: %w", err)
		}

		srv := server.New(registry, settings,
			server.WithLogger(logger),
			server.WithHTTPClient(newCanvasHTTPClient(logger, requestTimeout)),
			server.WithVersion(version),
		)

		httpServer := &http.Server{
			Addr:              addr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("listening", "addr", addr, "tools", registry.Len())
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return httpServer.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8000", "Address to listen on")
}
