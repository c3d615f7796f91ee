package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lecternlabs/lectern/internal/config"
	"github.com/lecternlabs/lectern/internal/secret"
	"github.com/lecternlabs/lectern/mcp"
)

var (
	canvasURL   string
	canvasToken string
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the Canvas tools over MCP on stdin/stdout",
	Long: `Stdio starts a Model Context Protocol server bound to one Canvas
instance. Credentials come from the --canvas-url and --canvas-token flags,
falling back to the CANVAS_API_URL and CANVAS_API_TOKEN environment
variables. The token may be a 1Password secret reference
(op://vault/item/field), resolved via the op CLI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()

		settings, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		apiURL := canvasURL
		if apiURL == "" {
			apiURL = os.Getenv("CANVAS_API_URL")
		}
		if apiURL == "" {
			return fmt.Errorf("canvas API URL is required (--canvas-url or CANVAS_API_URL)")
		}

		token := canvasToken
		if token == "" {
			token = os.Getenv("CANVAS_API_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("canvas API token is required (--canvas-token or CANVAS_API_TOKEN)")
		}

		token, wasRef, err := secret.Resolve(ctx, token)
		if err != nil {
			return fmt.Errorf("resolve canvas API token: %w", err)
		}
		if wasRef {
			logger.Info("resolved canvas token from 1Password")
		}

		if timeout > 0 {
			settings.RequestTimeout = int(timeout.Seconds())
		}
		requestTimeout := settings.Timeout()

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			server, err := mcp.NewServer(
				mcp.WithCanvas(apiURL, token),
				mcp.WithClient(newCanvasHTTPClient(logger, requestTimeout)),
				mcp.WithSettings(settings),
				mcp.WithLogger(logger),
				mcp.WithServerInfo("lectern", version),
			)
			if err != nil {
				return fmt.Errorf("error creating server: %w", err)
			}

			transport := mcp.NewStdioTransport(server, os.Stdin, os.Stdout, os.Stderr)
			return transport.Run(ctx)
		})

		return g.Wait()
	},
}

func init() {
	stdioCmd.Flags().StringVar(&canvasURL, "canvas-url", "", "Canvas instance base URL (e.g. https://canvas.example.edu)")
	stdioCmd.Flags().StringVar(&canvasToken, "canvas-token", "", "Canvas API bearer token, or an op:// secret reference")
}
