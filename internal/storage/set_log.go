package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/neonfit/internal/models"
)

// Load reads the full set log in append order.
func (db *DB) Load(ctx context.Context) ([]models.SetLogEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, logged_at, week, day, exercise, exercise_id, set_number,
		 weight_kg, reps, target_weight_kg, target_reps, rpe, technique, notes, completed
		 FROM set_log
		 ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying set log: %w", err)
	}
	defer rows.Close()

	var result []models.SetLogEntry
	for rows.Next() {
		var e models.SetLogEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Week, &e.Day, &e.Exercise,
			&e.ExerciseID, &e.SetNumber, &e.Weight, &e.Reps, &e.TargetWeight,
			&e.TargetReps, &e.RPE, &e.Technique, &e.Notes, &e.Completed); err != nil {
			return nil, fmt.Errorf("scanning set log entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Save replaces the persisted log with the given snapshot inside one
// transaction, so a concurrent Load never observes a half-written log. The
// log is capacity-bounded upstream, so the full rewrite stays small.
func (db *DB) Save(ctx context.Context, entries []models.SetLogEntry) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM set_log`); err != nil {
		return fmt.Errorf("clearing set log: %w", err)
	}

	if len(entries) > 0 {
		query := `INSERT INTO set_log (position, id, logged_at, week, day, exercise,
			exercise_id, set_number, weight_kg, reps, target_weight_kg, target_reps,
			rpe, technique, notes, completed) VALUES `
		args := make([]any, 0, len(entries)*16)
		valueStrings := make([]string, 0, len(entries))

		for i, e := range entries {
			base := i * 16
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
				base+9, base+10, base+11, base+12, base+13, base+14, base+15, base+16,
			))
			args = append(args, i, e.ID, e.Timestamp, e.Week, e.Day, e.Exercise,
				e.ExerciseID, e.SetNumber, e.Weight, e.Reps, e.TargetWeight,
				e.TargetReps, e.RPE, e.Technique, e.Notes, e.Completed)
		}

		query += strings.Join(valueStrings, ",")
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting set log entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing set log: %w", err)
	}
	return nil
}
