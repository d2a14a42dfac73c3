package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/neonfit/internal/config"
	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/mcp"
	"github.com/claude/neonfit/internal/program"
	"github.com/claude/neonfit/internal/server"
	"github.com/claude/neonfit/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres backend only)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("NeonFit starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the set log store
	store, cleanup, err := openStore(ctx, cfg, *migrateOnly, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	if store == nil {
		return // migrate-only
	}
	defer cleanup()

	var opts []history.Option
	if cfg.Store.Capacity > 0 {
		opts = append(opts, history.WithCapacity(cfg.Store.Capacity))
	}
	setLog := history.New(ctx, store, log, opts...)
	log.Info("set log loaded", "backend", cfg.Store.Backend, "entries", setLog.Len())

	// Load the training program
	plan, err := program.Load(cfg.Program.Path)
	if err != nil {
		log.Error("failed to load program", "path", cfg.Program.Path, "error", err)
		os.Exit(1)
	}
	log.Info("program loaded", "weeks", plan.WeekCount())

	// Create server and mount the MCP endpoint
	srv := server.New(setLog, plan, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(mcp.NewLocalSource(setLog, plan), Version, log)
	srv.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	// tsnet listener when enabled, plain TCP otherwise
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openStore opens the configured history.Store. For the postgres backend it
// applies migrations first; with migrateOnly it returns a nil store after
// doing so. The returned cleanup closes the backing connection.
func openStore(ctx context.Context, cfg *config.Config, migrateOnly bool, log *slog.Logger) (history.Store, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
		if migrateOnly {
			log.Info("migrate-only: exiting")
			return nil, nil, nil
		}

		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting database: %w", err)
		}
		log.Info("database connected")
		return db, db.Close, nil

	default: // file
		if migrateOnly {
			return nil, nil, fmt.Errorf("migrate-only requires the postgres backend")
		}
		fs, err := history.NewFileStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file store: %w", err)
		}
		return fs, func() {}, nil
	}
}
