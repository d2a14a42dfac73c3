package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/claude/neonfit/internal/models"
	"github.com/google/uuid"
)

// DefaultCapacity bounds the persisted log. Once exceeded, the oldest
// entries are evicted first.
const DefaultCapacity = 1000

// Log is the append-only record of completed sets. All mutation goes
// through the mutex so append, capacity trim and persist are atomic with
// respect to concurrent writers.
type Log struct {
	mu       sync.Mutex
	store    Store
	entries  []models.SetLogEntry
	capacity int
	log      *slog.Logger

	now   func() time.Time
	newID func() string
}

// Option configures a Log.
type Option func(*Log)

// WithCapacity overrides the eviction threshold.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New creates a Log backed by the given store, loading any persisted
// entries. A load failure degrades to an empty log with a warning; reads
// never fail.
func New(ctx context.Context, store Store, log *slog.Logger, opts ...Option) *Log {
	if log == nil {
		log = slog.Default()
	}
	l := &Log{
		store:    store,
		capacity: DefaultCapacity,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}

	entries, err := store.Load(ctx)
	if err != nil {
		log.Warn("loading set log failed, starting empty", "error", err)
		entries = nil
	}
	l.entries = entries
	return l
}

// LogSet validates a set completion, assigns its id and timestamp, appends
// it, trims to capacity and persists. Persistence failure rolls the append
// back and is reported via the returned error; nothing panics.
func (l *Log) LogSet(ctx context.Context, req models.SetLogRequest) (models.SetLogEntry, error) {
	if err := validate(req); err != nil {
		return models.SetLogEntry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := models.SetLogEntry{
		ID:           l.newID(),
		Timestamp:    l.now(),
		Week:         req.Week,
		Day:          req.Day,
		Exercise:     req.Exercise,
		ExerciseID:   req.ExerciseID,
		SetNumber:    req.SetNumber,
		Weight:       req.Weight,
		Reps:         req.Reps,
		TargetWeight: req.TargetWeight,
		TargetReps:   req.TargetReps,
		RPE:          req.RPE,
		Technique:    req.Technique,
		Notes:        req.Notes,
		Completed:    true,
	}
	if entry.TargetWeight == 0 {
		entry.TargetWeight = entry.Weight
	}
	if entry.TargetReps == 0 {
		entry.TargetReps = entry.Reps
	}
	if entry.Technique == "" {
		entry.Technique = "STANDARD"
	}

	prev := l.entries
	next := append(append([]models.SetLogEntry(nil), prev...), entry)
	if len(next) > l.capacity {
		next = next[len(next)-l.capacity:]
	}
	l.entries = next

	if err := l.store.Save(ctx, l.entries); err != nil {
		l.entries = prev
		return models.SetLogEntry{}, fmt.Errorf("persisting set log: %w", err)
	}
	return entry, nil
}

func validate(req models.SetLogRequest) error {
	switch {
	case req.Week <= 0:
		return fmt.Errorf("week is required")
	case req.Day == "":
		return fmt.Errorf("day is required")
	case req.Exercise == "":
		return fmt.Errorf("exercise is required")
	case req.SetNumber <= 0:
		return fmt.Errorf("set_number is required")
	case req.Weight <= 0:
		return fmt.Errorf("weight is required")
	case req.Reps <= 0:
		return fmt.Errorf("reps is required")
	case req.RPE != 0 && (req.RPE < 6 || req.RPE > 10):
		return fmt.Errorf("rpe must be between 6 and 10")
	}
	return nil
}

// All returns every entry in append order.
func (l *Log) All() []models.SetLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.SetLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of logged sets.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ByWeek returns entries for a week in append order.
func (l *Log) ByWeek(week int) []models.SetLogEntry {
	return l.filter(func(e models.SetLogEntry) bool { return e.Week == week })
}

// ByDay returns entries for a week and day key in append order.
func (l *Log) ByDay(week int, day string) []models.SetLogEntry {
	return l.filter(func(e models.SetLogEntry) bool { return e.Week == week && e.Day == day })
}

// ByExercise returns entries matching an exercise name or stable id, most
// recent first. A limit above zero truncates the result.
func (l *Log) ByExercise(nameOrID string, limit int) []models.SetLogEntry {
	out := l.filter(func(e models.SetLogEntry) bool {
		return e.Exercise == nameOrID || (e.ExerciseID != "" && e.ExerciseID == nameOrID)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LastSet returns the most recent entry for an exercise.
func (l *Log) LastSet(nameOrID string) (models.SetLogEntry, bool) {
	out := l.ByExercise(nameOrID, 1)
	if len(out) == 0 {
		return models.SetLogEntry{}, false
	}
	return out[0], true
}

// CompletedSets returns the completed sets for an exercise within one
// session, matched by stable id or name.
func (l *Log) CompletedSets(exerciseID string, week int, day string) []models.SetLogEntry {
	return l.filter(func(e models.SetLogEntry) bool {
		return (e.ExerciseID == exerciseID || e.Exercise == exerciseID) &&
			e.Week == week && e.Day == day && e.Completed
	})
}

func (l *Log) filter(keep func(models.SetLogEntry) bool) []models.SetLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.SetLogEntry
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Improvement holds the signed week-over-week differences in mean weight,
// mean reps and mean per-set volume.
type Improvement struct {
	WeightDiff float64 `json:"weight_diff"`
	RepsDiff   float64 `json:"reps_diff"`
	VolumeDiff float64 `json:"volume_diff"`
}

// Comparison partitions an exercise's sets into the current and previous
// week for the same day. Improvement is nil unless both sides are
// non-empty.
type Comparison struct {
	Current     []models.SetLogEntry `json:"current"`
	Previous    []models.SetLogEntry `json:"previous"`
	Improvement *Improvement         `json:"improvement,omitempty"`
}

// Comparison compares this week's sets against last week's for the same day
// and exercise.
func (l *Log) Comparison(week int, day, exercise string) Comparison {
	match := func(w int) []models.SetLogEntry {
		return l.filter(func(e models.SetLogEntry) bool {
			return e.Week == w && e.Day == day && e.Exercise == exercise
		})
	}
	cmp := Comparison{Current: match(week), Previous: match(week - 1)}

	if len(cmp.Current) == 0 || len(cmp.Previous) == 0 {
		return cmp
	}

	curW, curR := means(cmp.Current)
	prevW, prevR := means(cmp.Previous)
	cmp.Improvement = &Improvement{
		WeightDiff: curW - prevW,
		RepsDiff:   curR - prevR,
		VolumeDiff: curW*curR - prevW*prevR,
	}
	return cmp
}

func means(entries []models.SetLogEntry) (weight, reps float64) {
	for _, e := range entries {
		weight += e.Weight
		reps += float64(e.Reps)
	}
	n := float64(len(entries))
	return weight / n, reps / n
}

// Clear wipes the log. The caller must pass confirm=true; anything else is
// rejected without touching the store.
func (l *Log) Clear(ctx context.Context, confirm bool) error {
	if !confirm {
		return fmt.Errorf("clear requires confirmation")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.entries
	l.entries = nil
	if err := l.store.Save(ctx, nil); err != nil {
		l.entries = prev
		return fmt.Errorf("clearing set log: %w", err)
	}
	return nil
}

// Export serializes the full log to indented JSON.
func (l *Log) Export() ([]byte, error) {
	l.mu.Lock()
	entries := l.entries
	if entries == nil {
		entries = []models.SetLogEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("encoding set log: %w", err)
	}
	return data, nil
}

// Import replaces the entire log from a JSON array, preserving the imported
// ids and timestamps. Non-array payloads are rejected. The capacity bound
// still applies.
func (l *Log) Import(ctx context.Context, data []byte) error {
	var entries []models.SetLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("import payload must be a JSON array of set entries: %w", err)
	}
	// Unmarshal accepts the literal null into a nil slice; that is not an
	// array and must not wipe the log.
	if entries == nil && !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return fmt.Errorf("import payload must be a JSON array of set entries")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(entries) > l.capacity {
		entries = entries[len(entries)-l.capacity:]
	}

	prev := l.entries
	l.entries = entries
	if err := l.store.Save(ctx, l.entries); err != nil {
		l.entries = prev
		return fmt.Errorf("persisting imported log: %w", err)
	}
	return nil
}
