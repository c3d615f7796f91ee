package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "A Canvas LMS tool gateway for AI assistants",
	Long: `lectern exposes a set of student-focused Canvas LMS tools to AI assistants.

It can serve the tools two ways:
- serve: an HTTP API where each call carries its own Canvas URL and token
- stdio: a Model Context Protocol server bound to one Canvas instance`,
	SilenceUsage: true,
}

var (
	verbose    bool
	configPath string
	retries    int
	timeout    time.Duration
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (environment variables take precedence)")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", 0, "Maximum number of retries for failed Canvas requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Canvas request timeout (overrides REQUEST_TIMEOUT when set)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stdioCmd)
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// newCanvasHTTPClient builds the HTTP client shared by upstream Canvas
// calls. Retries are opt-in; by default a failed call surfaces immediately.
func newCanvasHTTPClient(logger *slog.Logger, requestTimeout time.Duration) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.HTTPClient.Timeout = requestTimeout
	retryClient.Logger = logger

	return retryClient.StandardClient()
}
