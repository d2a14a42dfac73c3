// Package recovery turns raw physiological readings into a 0-100 training
// readiness score with a categorical status.
package recovery

import (
	"math"

	"github.com/claude/neonfit/internal/models"
)

// Defaults applied when an individual metric is missing or not finite.
const (
	defaultHRVMs    = 50.0
	defaultSleepHrs = 7.0
	defaultHRBpm    = 70.0
)

// Combination weights for the component sub-scores.
const (
	hrvWeight   = 0.50
	sleepWeight = 0.35
	hrWeight    = 0.15
)

// Score converts a health sample into a recovery result. It is a pure
// function: malformed metrics are defaulted, and the final score is clamped
// into [0,100] for any finite input.
func Score(sample models.HealthSample) models.RecoveryResult {
	hrv := sanitize(sample.HRVMilliseconds, defaultHRVMs)
	sleep := sanitize(sample.SleepHours, defaultSleepHrs)
	hr := sanitize(sample.RestingHeartRateBpm, defaultHRBpm)

	components := models.ComponentScores{
		HRV:   hrvScore(hrv),
		Sleep: sleepScore(sleep),
		HR:    heartRateScore(hr),
	}

	weighted := components.HRV*hrvWeight + components.Sleep*sleepWeight + components.HR*hrWeight
	score := clamp(int(math.Round(weighted)), 0, 100)

	return models.RecoveryResult{
		Score:      score,
		Status:     models.StatusForScore(score),
		Components: components,
	}
}

// hrvScore maps heart rate variability (ms) onto [40,100]: 40 at <=20ms,
// 100 at >=80ms, linear in between.
func hrvScore(hrv float64) float64 {
	switch {
	case hrv <= 20:
		return 40
	case hrv >= 80:
		return 100
	default:
		return 40 + (hrv-20)/60*60
	}
}

// sleepScore maps sleep duration (hours) onto [50,100]. The optimal plateau
// is 7-9h; short sleep decays 15 points per hour under 6h, long sleep 10
// points per hour over 10h.
func sleepScore(hours float64) float64 {
	switch {
	case hours >= 7 && hours <= 9:
		return 100
	case hours >= 6 && hours < 7:
		return 85
	case hours > 9 && hours <= 10:
		return 90
	case hours < 6:
		return math.Max(50, 85-(6-hours)*15)
	default: // > 10
		return math.Max(60, 90-(hours-10)*10)
	}
}

// heartRateScore maps resting heart rate (bpm) onto [60,100], inverted:
// 100 at <=60bpm, 60 at >=90bpm, linear in between.
func heartRateScore(bpm float64) float64 {
	switch {
	case bpm <= 60:
		return 100
	case bpm >= 90:
		return 60
	default:
		return 100 - (bpm-60)/30*40
	}
}

// sanitize replaces zero, negative, NaN and infinite readings with the
// metric default. Readings of zero are indistinguishable from absent fields
// after JSON decoding, so they default too.
func sanitize(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
