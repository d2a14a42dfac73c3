// neonfit-mcp serves the NeonFit MCP tools over stdio for local AI clients.
// In local mode it works directly against the configured store and program;
// with -server it proxies a remote NeonFit instance through its REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/neonfit/internal/config"
	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/mcp"
	"github.com/claude/neonfit/internal/program"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "remote NeonFit URL (e.g. https://neonfit.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for mutating calls in remote mode (defaults to NEONFIT_AUTH_API_KEY)")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP stream.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		key := *apiKey
		if key == "" {
			key = os.Getenv("NEONFIT_AUTH_API_KEY")
		}
		ds = mcp.NewHTTPClient(*serverURL, key)
		log.Info("remote mode", "server", *serverURL)
	} else {
		local, err := localSource(*configPath, log)
		if err != nil {
			log.Error("local mode setup failed", "error", err)
			os.Exit(1)
		}
		ds = local
	}

	srv := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

// localSource builds a DataSource over the configured file store and program.
func localSource(configPath string, log *slog.Logger) (mcp.DataSource, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Store.Backend != "file" {
		return nil, fmt.Errorf("local mode supports the file backend only; use -server for a %s-backed instance", cfg.Store.Backend)
	}

	store, err := history.NewFileStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening file store: %w", err)
	}

	ctx := context.Background()
	var opts []history.Option
	if cfg.Store.Capacity > 0 {
		opts = append(opts, history.WithCapacity(cfg.Store.Capacity))
	}
	setLog := history.New(ctx, store, log, opts...)

	plan, err := program.Load(cfg.Program.Path)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	log.Info("local mode", "store", cfg.Store.Path, "entries", setLog.Len(), "weeks", plan.WeekCount())
	return mcp.NewLocalSource(setLog, plan), nil
}
