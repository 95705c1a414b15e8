// Command proofwatch watches editable fields on a live page and offers
// asynchronous grammar and spelling corrections.
//
// Usage:
//
//	proofwatch -config proofwatch.yaml        # full configuration
//	proofwatch -url https://example.com       # quick start, offline rule provider
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/proofwatch/monitor"
)

func main() {
	configPath := flag.String("config", "", "path to proofwatch.yaml config file")
	singleURL := flag.String("url", "", "attach to a single URL with defaults")
	providerName := flag.String("provider", "", "correction provider (overrides config and store)")
	dbPath := flag.String("db", "", "settings database path")
	adminAddr := flag.String("admin", "", "admin HTTP listen address (e.g. 127.0.0.1:8743)")
	mcpServe := flag.Bool("mcp", false, "serve the proofwatch tools over MCP stdio")
	headful := flag.Bool("headful", false, "launch a visible browser")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *singleURL, *providerName, *dbPath, *adminAddr, *headful, *mcpServe); err != nil {
		logger.Error("proofwatch: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, singleURL, providerName, dbPath, adminAddr string, headful, mcpServe bool) error {
	var cfg *monitor.Config
	switch {
	case configPath != "":
		c, err := monitor.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	case singleURL != "":
		// Quick start: visible browser, offline provider, no key needed.
		cfg = &monitor.Config{
			PageURL:  singleURL,
			Provider: "rule",
			Browser:  monitor.BrowserConfig{Headful: true},
			EventLog: true,
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: proofwatch -config <file> | -url <url>")
		os.Exit(1)
	}

	if providerName != "" {
		cfg.Provider = providerName
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if adminAddr != "" {
		cfg.AdminAddr = adminAddr
	}
	if headful {
		cfg.Browser.Headful = true
	}

	m, err := monitor.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if cfg.AdminAddr != "" {
		go func() {
			if err := m.ServeAdmin(ctx, cfg.AdminAddr); err != nil {
				logger.Error("proofwatch: admin server", "error", err)
			}
		}()
	}

	// Logs go to stderr, so stdout stays clean for the MCP framing.
	if mcpServe {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "proofwatch",
			Version: "1.0.0",
		}, nil)
		m.RegisterMCP(srv)
		go func() {
			logger.Info("proofwatch: mcp stdio serving")
			if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				logger.Error("proofwatch: mcp server", "error", err)
			}
		}()
	}

	return m.Run(ctx)
}
