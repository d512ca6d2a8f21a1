package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ggriffiniii/httptest"
	"github.com/ggriffiniii/httptest/fixture"
	"github.com/ggriffiniii/httptest/logging"
)

var (
	serveFiles          []string
	serveGlobs          []string
	serveAddr           string
	serveLogLevel       string
	serveLogFormat      string
	serveLogFile        string
	serveAllowUnmatched bool
	serveDrainTimeout   time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server with expectations from fixture files",
	Long: `Start the mock server with expectations loaded from fixture files.

The bound base URL is the first line printed on stdout once the server is
listening, so scripts that background the process can read it from there.

The server runs until SIGINT or SIGTERM, then shuts down gracefully and
verifies every expectation. Unmet call counts and unmatched requests are
reported on stderr and the process exits non-zero.`,
	Example: `  # Serve one fixture file on an ephemeral port
  httptestd serve --file api.yaml

  # Serve everything under fixtures/ on a fixed port
  httptestd serve --glob 'fixtures/**/*.yaml' --addr 127.0.0.1:8475

  # Tolerate traffic no expectation covers
  httptestd serve --file api.yaml --allow-unmatched`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringArrayVar(&serveFiles, "file", nil, "Fixture file to load (repeatable)")
	serveCmd.Flags().StringArrayVar(&serveGlobs, "glob", nil, "Fixture glob pattern, ** matches directories (repeatable)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:0", "Listen address (port 0 picks a free port)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "text", "Log format (text, json)")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Also write logs to this file")
	serveCmd.Flags().BoolVar(&serveAllowUnmatched, "allow-unmatched", false, "Do not fail verification on unmatched requests")
	serveCmd.Flags().DurationVar(&serveDrainTimeout, "drain-timeout", 5*time.Second, "How long to wait for in-flight requests at shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	if len(serveFiles) == 0 && len(serveGlobs) == 0 {
		return errors.New("at least one --file or --glob is required")
	}

	log, closeLog, err := buildLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	es, err := loadFixtures(serveFiles, serveGlobs)
	if err != nil {
		return err
	}
	if len(es) == 0 {
		return errors.New("no expectations loaded (globs matched no files)")
	}

	opts := []httptest.Option{
		httptest.WithAddr(serveAddr),
		httptest.WithLogger(log),
		httptest.WithDrainTimeout(serveDrainTimeout),
	}
	if serveAllowUnmatched {
		opts = append(opts, httptest.WithAllowUnmatched())
	}
	s := httptest.New(opts...)
	fixture.Install(s, es...)

	if err := s.Start(); err != nil {
		return err
	}

	// The base URL goes to stdout for programmatic consumption.
	fmt.Fprintf(cmd.OutOrStdout(), "http://%s\n", s.Addr())
	log.Info("serving expectations", "count", len(es), "addr", s.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	if err := s.Stop(); err != nil {
		return err
	}

	if err := s.Verify(); err != nil {
		return err
	}
	log.Info("all expectations satisfied")
	return nil
}

// loadFixtures loads explicit files first, then glob matches, preserving a
// deterministic registration order.
func loadFixtures(files, globs []string) ([]*httptest.Expectation, error) {
	var es []*httptest.Expectation
	for _, f := range files {
		loaded, err := fixture.Load(f)
		if err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
		es = append(es, loaded...)
	}
	for _, g := range globs {
		loaded, err := fixture.LoadGlob(g)
		if err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
		es = append(es, loaded...)
	}
	return es, nil
}

// buildLogger assembles the serve logger: stderr in the configured format,
// teed into --log-file when given.
func buildLogger() (*slog.Logger, func(), error) {
	cfg := logging.Config{
		Level:  logging.ParseLevel(serveLogLevel),
		Format: logging.ParseFormat(serveLogFormat),
	}
	base := logging.NewHandler(cfg)
	if serveLogFile == "" {
		return slog.New(base), func() {}, nil
	}

	f, err := os.OpenFile(serveLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	fileCfg := cfg
	fileCfg.Output = f
	tee := logging.NewMultiHandler(base, logging.NewHandler(fileCfg))
	return slog.New(tee), func() { _ = f.Close() }, nil
}
