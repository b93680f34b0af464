package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leengari/minidb/internal/config"
	"github.com/leengari/minidb/internal/engine"
	"github.com/leengari/minidb/internal/logging"
	"github.com/leengari/minidb/internal/network"
	"github.com/leengari/minidb/internal/repl"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	serverMode := flag.Bool("server", false, "Run in server mode")
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeFn, err := logging.SetupLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeFn()
	slog.SetDefault(logger)

	eng := engine.New(nil)
	eng.AddObserver(engine.NewLoggingObserver(logger))

	if *serverMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("Starting Server mode...", "port", cfg.Server.Port)
		if err := network.NewServer(eng, logger).ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			slog.Error("server stopped", "error", err)
			closeFn()
			os.Exit(1)
		}
		slog.Info("Shutting down")
		return
	}

	slog.Debug("Starting REPL mode...")
	if err := repl.Start(eng, cfg.REPL); err != nil {
		slog.Error("repl stopped", "error", err)
		closeFn()
		os.Exit(1)
	}
}
