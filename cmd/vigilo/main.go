package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigilo/internal/app"
	"github.com/ternarybob/vigilo/internal/common"
	"github.com/ternarybob/vigilo/internal/export"
	"github.com/ternarybob/vigilo/internal/pipeline"
	"github.com/ternarybob/vigilo/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	serverPort   = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP  = flag.Int("p", 0, "Server port (shorthand, overrides config)")
	serverHost   = flag.String("host", "", "Server host (overrides config)")
	outputPath   = flag.String("out", "", "CSV output path for the collect command (default stdout)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Vigilo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Merge port flags (shorthand takes precedence)
	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("vigilo.toml"); err == nil {
			configFiles = append(configFiles, "vigilo.toml")
		} else if _, err := os.Stat("deployments/local/vigilo.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/vigilo.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, finalPort, *serverHost)

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Msg("Application configuration loaded")

	command := flag.Arg(0)
	if command == "" {
		command = "serve"
	}

	switch command {
	case "serve":
		runServe()
	case "collect":
		runCollect()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected serve or collect)\n", command)
		os.Exit(2)
	}
}

// runServe starts the HTTP server with background refresh.
func runServe() {
	application, err := app.New(context.Background(), config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if err := application.StartScheduler(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// First refresh happens in the background so the server is reachable
	// immediately; until it completes /api/trades serves an empty dataset.
	go application.Scheduler.RunNow(application.Context())

	srv := server.New(application)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Msg("Server goroutine panicked")
			}
		}()

		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("Interrupt signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}

// runCollect executes one pipeline run and writes the scored dataset as CSV.
// No storage is opened, so runs never interfere with a live server.
func runCollect() {
	pipe, err := pipeline.FromConfig(config, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	snapshot, err := pipe.Run(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("Collection failed")
	}

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *outputPath).Msg("Failed to create output file")
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteCSV(out, snapshot.Dataset); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write CSV")
	}

	logger.Info().
		Int("records", len(snapshot.Dataset.Records)).
		Str("output", *outputPath).
		Msg("Collection complete")
}
