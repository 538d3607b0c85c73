package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/tagsmith/pkg/api"
	"github.com/hazyhaar/tagsmith/pkg/chassis"
	"github.com/hazyhaar/tagsmith/pkg/engine"
	"github.com/hazyhaar/tagsmith/pkg/tagdict"
)

const version = "1.0.0"

type config struct {
	Addr     string `yaml:"addr"`
	DictsDir string `yaml:"dicts_dir"`
	LogLevel string `yaml:"log_level"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: tagsmith <command>\n\nCommands:\n  serve    Start the API server (HTTP + MCP)\n  import   Download and build tag dictionaries\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	stdio := fs.Bool("stdio", false, "serve MCP on stdin/stdout instead of the network chassis")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := loadConfig(*cfgPath, logger)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	// Load dictionaries.
	reg := tagdict.NewRegistry(cfg.DictsDir)
	if err := reg.Load(); err != nil {
		logger.Error("failed to load dictionaries", "error", err)
		os.Exit(1)
	}
	logger.Info("dictionaries loaded", "sources", len(reg.Sources()), "rules", reg.RuleCount())

	eng := engine.New(reg)

	mcpSrv := server.NewMCPServer("tagsmith", version)
	api.RegisterMCPTools(mcpSrv, eng, reg)

	// Stdio mode for editor/agent hosts that spawn the server as a child
	// process. No HTTP, no TLS, one session.
	if *stdio {
		if err := server.ServeStdio(mcpSrv); err != nil {
			logger.Error("stdio server error", "error", err)
			os.Exit(1)
		}
		return
	}

	// SIGHUP: hot reload dictionaries.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading dictionaries")
			if err := reg.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("dictionaries reloaded", "sources", len(reg.Sources()), "rules", reg.RuleCount())
			}
		}
	}()

	srv, err := chassis.New(chassis.Config{
		Addr:      cfg.Addr,
		CertFile:  cfg.CertFile,
		KeyFile:   cfg.KeyFile,
		Handler:   api.NewRouter(eng, reg, logger),
		MCPServer: mcpSrv,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("chassis setup failed", "error", err)
		os.Exit(1)
	}

	logger.Info("tagsmith listening", "addr", cfg.Addr)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutting down")
	srv.Stop(context.Background())
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:     ":8420",
		DictsDir: "dicts",
		LogLevel: "info",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
