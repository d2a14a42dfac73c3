package mcp

import (
	"context"
	"errors"

	"github.com/claude/neonfit/internal/adapt"
	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/models"
	"github.com/claude/neonfit/internal/program"
	"github.com/claude/neonfit/internal/recovery"
)

var (
	// ErrNoProgram reports that no program plan is configured.
	ErrNoProgram = errors.New("no program configured")
	// ErrNoWorkout reports a week/day lookup miss in the configured plan.
	ErrNoWorkout = errors.New("no workout for that week and day")
)

// TrainingSummary is the dashboard-level aggregate exposed to MCP clients.
type TrainingSummary struct {
	TotalWorkouts int     `json:"total_workouts"`
	TotalSets     int     `json:"total_sets"`
	TotalVolume   float64 `json:"total_volume"`
	Streak        int     `json:"streak"`
}

// ExerciseRecords pairs an exercise's personal records with its average
// working weight.
type ExerciseRecords struct {
	Exercise      string                  `json:"exercise"`
	Records       history.PersonalRecords `json:"records"`
	AverageWeight float64                 `json:"average_weight"`
}

// DataSource abstracts the data layer for MCP tools. LocalSource (in-process)
// and HTTPClient (remote via REST API) both satisfy this interface.
type DataSource interface {
	ScoreRecovery(ctx context.Context, sample *models.HealthSample) (models.RecoveryResult, error)
	AdaptWorkout(ctx context.Context, w models.Workout, score int) (models.AdaptedWorkout, error)
	PlannedWorkout(ctx context.Context, week int, day string, score int) (models.AdaptedWorkout, error)
	LogSet(ctx context.Context, req models.SetLogRequest) (models.SetLogEntry, error)
	History(ctx context.Context, week int, day, exercise string, limit int) ([]models.SetLogEntry, error)
	CompareWeeks(ctx context.Context, week int, day, exercise string) (history.Comparison, error)
	Summary(ctx context.Context) (TrainingSummary, error)
	Records(ctx context.Context, exercise string) (ExerciseRecords, error)
	Weekly(ctx context.Context, week int) (history.WeeklySummary, error)
	CheckProgress(ctx context.Context, exercise string, week int) (*history.ProgressReport, error)
	ChartData(ctx context.Context, exercise string, limit int) ([]history.ChartSession, error)
	RecentSets(ctx context.Context, limit int) ([]models.SetLogEntry, error)
	Program(ctx context.Context) (*program.Plan, error)
}

// LocalSource implements DataSource against the in-process subsystems.
type LocalSource struct {
	setLog   *history.Log
	stats    *history.Stats
	progress *history.Progress
	plan     *program.Plan
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

// NewLocalSource creates a LocalSource. The plan may be nil when no program
// file is configured.
func NewLocalSource(setLog *history.Log, plan *program.Plan) *LocalSource {
	return &LocalSource{
		setLog:   setLog,
		stats:    history.NewStats(setLog),
		progress: history.NewProgress(setLog),
		plan:     plan,
	}
}

func (s *LocalSource) ScoreRecovery(ctx context.Context, sample *models.HealthSample) (models.RecoveryResult, error) {
	if sample == nil {
		return recovery.ScoreFrom(ctx, nil), nil
	}
	return recovery.ScoreFrom(ctx, recovery.StaticSource{S: *sample}), nil
}

func (s *LocalSource) AdaptWorkout(_ context.Context, w models.Workout, score int) (models.AdaptedWorkout, error) {
	return adapt.Workout(w, score), nil
}

func (s *LocalSource) PlannedWorkout(_ context.Context, week int, day string, score int) (models.AdaptedWorkout, error) {
	if s.plan == nil {
		return models.AdaptedWorkout{}, ErrNoProgram
	}
	w, ok := s.plan.Workout(week, day)
	if !ok {
		return models.AdaptedWorkout{}, ErrNoWorkout
	}
	if score <= 0 {
		score = 100
	}
	return adapt.Workout(w, score), nil
}

func (s *LocalSource) LogSet(ctx context.Context, req models.SetLogRequest) (models.SetLogEntry, error) {
	return s.setLog.LogSet(ctx, req)
}

func (s *LocalSource) History(_ context.Context, week int, day, exercise string, limit int) ([]models.SetLogEntry, error) {
	switch {
	case exercise != "" && week > 0 && day != "":
		return s.setLog.CompletedSets(exercise, week, day), nil
	case exercise != "":
		return s.setLog.ByExercise(exercise, limit), nil
	case week <= 0:
		return s.setLog.All(), nil
	case day != "":
		return s.setLog.ByDay(week, day), nil
	default:
		return s.setLog.ByWeek(week), nil
	}
}

func (s *LocalSource) CompareWeeks(_ context.Context, week int, day, exercise string) (history.Comparison, error) {
	return s.setLog.Comparison(week, day, exercise), nil
}

func (s *LocalSource) Summary(context.Context) (TrainingSummary, error) {
	return TrainingSummary{
		TotalWorkouts: s.stats.TotalWorkouts(),
		TotalSets:     s.stats.TotalSets(),
		TotalVolume:   s.stats.TotalVolume(),
		Streak:        s.stats.Streak(),
	}, nil
}

func (s *LocalSource) Records(_ context.Context, exercise string) (ExerciseRecords, error) {
	return ExerciseRecords{
		Exercise:      exercise,
		Records:       s.stats.Records(exercise),
		AverageWeight: s.stats.AverageWeight(exercise),
	}, nil
}

func (s *LocalSource) Weekly(_ context.Context, week int) (history.WeeklySummary, error) {
	return s.stats.Weekly(week), nil
}

func (s *LocalSource) CheckProgress(_ context.Context, exercise string, week int) (*history.ProgressReport, error) {
	return s.progress.Check(exercise, week), nil
}

func (s *LocalSource) ChartData(_ context.Context, exercise string, limit int) ([]history.ChartSession, error) {
	return s.progress.ChartData(exercise, limit), nil
}

func (s *LocalSource) RecentSets(_ context.Context, limit int) ([]models.SetLogEntry, error) {
	all := s.setLog.All()
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (s *LocalSource) Program(context.Context) (*program.Plan, error) {
	if s.plan == nil {
		return nil, ErrNoProgram
	}
	return s.plan, nil
}
