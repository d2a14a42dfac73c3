// Package importer merges set history from a phone backup into the set log.
// Backups are SQLite files exported by the mobile app, holding the same
// set_log rows the app records locally.
package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/models"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Stats tracks import progress.
type Stats struct {
	RowsRead      int
	SetsImported  int
	SetsDuplicate int
	RowsSkipped   int
}

// Importer reads set_log rows from a SQLite backup and merges them into the
// history log. Existing entries win: a backup row whose ID is already logged
// counts as a duplicate and is left untouched.
type Importer struct {
	setLog *history.Log
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. With dryRun set, Import reports what it would
// change without touching the log.
func New(setLog *history.Log, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{setLog: setLog, log: log, dryRun: dryRun}
}

// Import reads the backup at dbPath and merges its sets into the log.
func (imp *Importer) Import(ctx context.Context, dbPath string) (*Stats, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return &imp.stats, fmt.Errorf("backup file: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return &imp.stats, fmt.Errorf("opening backup: %w", err)
	}
	defer db.Close()

	entries, err := imp.readRows(ctx, db)
	if err != nil {
		return &imp.stats, err
	}

	merged, imported := imp.merge(entries)
	imp.stats.SetsImported = imported

	if imp.dryRun || imported == 0 {
		return &imp.stats, nil
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return &imp.stats, fmt.Errorf("encoding merged log: %w", err)
	}
	if err := imp.setLog.Import(ctx, data); err != nil {
		return &imp.stats, fmt.Errorf("replacing log: %w", err)
	}

	imp.log.Info("backup imported",
		"rows", imp.stats.RowsRead,
		"imported", imported,
		"duplicates", imp.stats.SetsDuplicate,
		"skipped", imp.stats.RowsSkipped)
	return &imp.stats, nil
}

// readRows scans the backup's set_log table into entries, skipping rows that
// would fail set validation.
func (imp *Importer) readRows(ctx context.Context, db *sql.DB) ([]models.SetLogEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, logged_at, week, day, exercise, exercise_id, set_number,
		       weight, reps, target_weight, target_reps, rpe, technique,
		       notes, completed
		FROM set_log
		ORDER BY logged_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying set_log: %w", err)
	}
	defer rows.Close()

	var entries []models.SetLogEntry
	for rows.Next() {
		var (
			e            models.SetLogEntry
			id, loggedAt sql.NullString
			exerciseID   sql.NullString
			targetWeight sql.NullFloat64
			targetReps   sql.NullInt64
			rpe          sql.NullInt64
			technique    sql.NullString
			notes        sql.NullString
			completed    sql.NullBool
		)
		err := rows.Scan(&id, &loggedAt, &e.Week, &e.Day, &e.Exercise,
			&exerciseID, &e.SetNumber, &e.Weight, &e.Reps, &targetWeight,
			&targetReps, &rpe, &technique, &notes, &completed)
		if err != nil {
			return nil, fmt.Errorf("scanning set_log row: %w", err)
		}
		imp.stats.RowsRead++

		if e.Week <= 0 || e.Day == "" || e.Exercise == "" || e.Weight <= 0 || e.Reps <= 0 {
			imp.log.Warn("skipping invalid backup row",
				"week", e.Week, "exercise", e.Exercise, "weight", e.Weight)
			imp.stats.RowsSkipped++
			continue
		}

		e.ID = id.String
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.Timestamp = parseBackupTime(loggedAt.String)
		e.ExerciseID = exerciseID.String
		e.TargetWeight = targetWeight.Float64
		if e.TargetWeight == 0 {
			e.TargetWeight = e.Weight
		}
		e.TargetReps = int(targetReps.Int64)
		if e.TargetReps == 0 {
			e.TargetReps = e.Reps
		}
		e.RPE = int(rpe.Int64)
		e.Technique = technique.String
		if e.Technique == "" {
			e.Technique = "STANDARD"
		}
		e.Notes = notes.String
		e.Completed = !completed.Valid || completed.Bool

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading set_log rows: %w", err)
	}
	return entries, nil
}

// merge appends backup entries not already present, keyed by ID. Returns the
// merged snapshot and the count of newly added sets.
func (imp *Importer) merge(entries []models.SetLogEntry) ([]models.SetLogEntry, int) {
	existing := imp.setLog.All()
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
	}

	merged := existing
	imported := 0
	for _, e := range entries {
		if seen[e.ID] {
			imp.stats.SetsDuplicate++
			continue
		}
		seen[e.ID] = true
		merged = append(merged, e)
		imported++
	}
	return merged, imported
}

// parseBackupTime accepts the timestamp formats the app has written over
// time. Unparseable values fall back to now so the entry is still imported.
func parseBackupTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
