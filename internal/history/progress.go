package history

import (
	"fmt"
	"math"
	"sort"

	"github.com/claude/neonfit/internal/models"
)

// Progress compares an exercise's best sets across weeks and buckets its
// history into chartable sessions.
type Progress struct {
	log *Log
}

// NewProgress creates a Progress view over a log.
func NewProgress(l *Log) *Progress {
	return &Progress{log: l}
}

// ProgressReport describes the change in best per-set volume between the
// current week and the one before it.
type ProgressReport struct {
	Improved           bool    `json:"improved"`
	Improvement        float64 `json:"improvement"`
	ImprovementPercent float64 `json:"improvement_percent"`
	CurrentBest        float64 `json:"current_best"`
	PreviousBest       float64 `json:"previous_best"`
}

// Check compares the best single-set volume of the current week against the
// previous week for an exercise. Nil when either week has no sets for it.
func (p *Progress) Check(exercise string, currentWeek int) *ProgressReport {
	byWeek := func(week int) []models.SetLogEntry {
		return p.log.filter(func(e models.SetLogEntry) bool {
			return e.Week == week && e.Exercise == exercise
		})
	}

	current := byWeek(currentWeek)
	previous := byWeek(currentWeek - 1)
	if len(current) == 0 || len(previous) == 0 {
		return nil
	}

	currentBest := bestVolume(current)
	previousBest := bestVolume(previous)
	improvement := currentBest - previousBest

	report := &ProgressReport{
		Improved:     improvement > 0,
		Improvement:  improvement,
		CurrentBest:  currentBest,
		PreviousBest: previousBest,
	}
	if previousBest != 0 {
		report.ImprovementPercent = math.Round(improvement/previousBest*1000) / 10
	}
	return report
}

func bestVolume(entries []models.SetLogEntry) float64 {
	best := 0.0
	for _, e := range entries {
		best = math.Max(best, e.Volume())
	}
	return best
}

// ChartSession is one (week, day) bucket of an exercise's history.
type ChartSession struct {
	Label       string  `json:"label"`
	Week        int     `json:"week"`
	Day         string  `json:"day"`
	MaxWeight   float64 `json:"max_weight"`
	TotalVolume float64 `json:"total_volume"`
	Sets        int     `json:"sets"`
}

// ChartData groups an exercise's sets into sessions keyed by (week, day),
// sorted ascending by week and truncated to the most recent limit sessions.
// A limit of zero defaults to 10.
func (p *Progress) ChartData(exercise string, limit int) []ChartSession {
	if limit <= 0 {
		limit = 10
	}

	buckets := map[sessionKey]*ChartSession{}
	var order []sessionKey
	for _, e := range p.log.ByExercise(exercise, 0) {
		key := sessionKey{e.Week, e.Day}
		b, ok := buckets[key]
		if !ok {
			b = &ChartSession{
				Label: fmt.Sprintf("W%d-%s", e.Week, e.Day),
				Week:  e.Week,
				Day:   e.Day,
			}
			buckets[key] = b
			order = append(order, key)
		}
		b.MaxWeight = math.Max(b.MaxWeight, e.Weight)
		b.TotalVolume += e.Volume()
		b.Sets++
	}

	sessions := make([]ChartSession, 0, len(order))
	for _, key := range order {
		sessions = append(sessions, *buckets[key])
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Week < sessions[j].Week
	})

	if len(sessions) > limit {
		sessions = sessions[len(sessions)-limit:]
	}
	return sessions
}
