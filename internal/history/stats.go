package history

import (
	"math"
	"sort"
	"time"
)

// Stats computes read-only aggregates over the set log. All methods rescan
// the log, which is fine at the capacity bound; nothing here mutates state.
type Stats struct {
	log *Log
}

// NewStats creates a Stats view over a log.
func NewStats(l *Log) *Stats {
	return &Stats{log: l}
}

type sessionKey struct {
	week int
	day  string
}

// TotalWorkouts counts distinct (week, day) sessions with at least one set.
func (s *Stats) TotalWorkouts() int {
	seen := map[sessionKey]bool{}
	for _, e := range s.log.All() {
		seen[sessionKey{e.Week, e.Day}] = true
	}
	return len(seen)
}

// TotalSets counts every logged set.
func (s *Stats) TotalSets() int {
	return s.log.Len()
}

// TotalVolume sums weight x reps across the whole log.
func (s *Stats) TotalVolume() float64 {
	total := 0.0
	for _, e := range s.log.All() {
		total += e.Volume()
	}
	return total
}

// AverageWeight returns the mean weight for an exercise, rounded to one
// decimal. Zero when the exercise has no sets.
func (s *Stats) AverageWeight(exercise string) float64 {
	sets := s.log.ByExercise(exercise, 0)
	if len(sets) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range sets {
		total += e.Weight
	}
	return math.Round(total/float64(len(sets))*10) / 10
}

// PersonalRecords holds the independent maxima for one exercise. Each
// maximum may come from a different set.
type PersonalRecords struct {
	MaxWeight float64 `json:"max_weight"`
	MaxReps   int     `json:"max_reps"`
	MaxVolume float64 `json:"max_volume"`
}

// Records returns the personal records for an exercise. Zero-valued when
// the exercise has no sets.
func (s *Stats) Records(exercise string) PersonalRecords {
	var pr PersonalRecords
	for _, e := range s.log.ByExercise(exercise, 0) {
		pr.MaxWeight = math.Max(pr.MaxWeight, e.Weight)
		if e.Reps > pr.MaxReps {
			pr.MaxReps = e.Reps
		}
		pr.MaxVolume = math.Max(pr.MaxVolume, e.Volume())
	}
	return pr
}

// Streak returns the longest run of consecutive calendar days with at least
// one logged set. A gap of exactly one day continues the run; any other gap
// resets it.
func (s *Stats) Streak() int {
	daysSeen := map[string]bool{}
	for _, e := range s.log.All() {
		daysSeen[e.Date()] = true
	}
	if len(daysSeen) == 0 {
		return 0
	}

	dates := make([]string, 0, len(daysSeen))
	for d := range daysSeen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	best, run := 1, 1
	for i := 1; i < len(dates); i++ {
		prev, errA := time.Parse("2006-01-02", dates[i-1])
		curr, errB := time.Parse("2006-01-02", dates[i])
		if errA == nil && errB == nil && curr.Sub(prev) == 24*time.Hour {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	return best
}

// WeeklySummary aggregates one week of training.
type WeeklySummary struct {
	Week                int     `json:"week"`
	Workouts            int     `json:"workouts"`
	TotalSets           int     `json:"total_sets"`
	TotalVolume         float64 `json:"total_volume"`
	Exercises           int     `json:"exercises"`
	AvgVolumePerWorkout float64 `json:"avg_volume_per_workout"`
}

// Weekly summarizes a week: distinct workout days, set count, total volume,
// distinct exercises and average volume per workout. All divisions guard
// against a zero denominator.
func (s *Stats) Weekly(week int) WeeklySummary {
	sets := s.log.ByWeek(week)

	days := map[string]bool{}
	exercises := map[string]bool{}
	totalVolume := 0.0
	for _, e := range sets {
		days[e.Day] = true
		exercises[e.Exercise] = true
		totalVolume += e.Volume()
	}

	summary := WeeklySummary{
		Week:        week,
		Workouts:    len(days),
		TotalSets:   len(sets),
		TotalVolume: totalVolume,
		Exercises:   len(exercises),
	}
	if summary.Workouts > 0 {
		summary.AvgVolumePerWorkout = math.Round(totalVolume / float64(summary.Workouts))
	}
	return summary
}
