package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/afterglow/app"
	"github.com/pthm-cable/afterglow/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	envFile := flag.String("env", ".env", "Optional .env file with AFTERGLOW_* overrides")
	backend := flag.String("backend", "window", "Render backend: window, terminal or headless")
	source := flag.String("source", "", "Pointer source for the window backend: window or hook (empty = use config)")
	recordPath := flag.String("record", "", "Record pointer input to this CSV file")
	replayPath := flag.String("replay", "", "Replay pointer input from this CSV file")
	outputDir := flag.String("output-dir", "", "Output directory for perf CSV and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output frame stats via slog")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	panel := flag.Bool("panel", false, "Show the settings panel (F1) on an interactive window")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(*envFile); err != nil {
		slog.Error("failed to load env file", "path", *envFile, "error", err)
		os.Exit(1)
	}

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	be, err := app.ParseBackend(*backend)
	if err != nil {
		slog.Error("invalid backend", "error", err)
		os.Exit(2)
	}

	opts := app.Options{
		Backend:    be,
		Source:     *source,
		RecordPath: *recordPath,
		ReplayPath: *replayPath,
		OutputDir:  *outputDir,
		LogStats:   *logStats,
		MaxFrames:  *maxFrames,
		Panel:      *panel,
	}

	a, err := app.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := a.Run(ctx)
	stop()

	if err := a.Close(); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	if runErr != nil {
		slog.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}
