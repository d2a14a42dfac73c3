package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/neonfit/internal/config"
	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/importer"
	"github.com/claude/neonfit/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	backupPath := flag.String("backup", "", "path to SQLite backup file (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the set log")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *backupPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: neonfit-import -config config.yaml -backup /path/to/backup.db [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("dry run: no data will be written to the set log")
	}

	// Open the set log store
	var store history.Store
	switch cfg.Store.Backend {
	case "postgres":
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	default:
		fs, err := history.NewFileStore(cfg.Store.Path)
		if err != nil {
			log.Error("failed to open file store", "error", err)
			os.Exit(1)
		}
		store = fs
	}

	var opts []history.Option
	if cfg.Store.Capacity > 0 {
		opts = append(opts, history.WithCapacity(cfg.Store.Capacity))
	}
	setLog := history.New(ctx, store, log, opts...)
	log.Info("set log loaded", "backend", cfg.Store.Backend, "entries", setLog.Len())

	// Run import
	imp := importer.New(setLog, log, *dryRun)
	stats, err := imp.Import(ctx, *backupPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"rows_read", stats.RowsRead,
		"sets_imported", stats.SetsImported,
		"sets_duplicate", stats.SetsDuplicate,
		"rows_skipped", stats.RowsSkipped,
	)
}
