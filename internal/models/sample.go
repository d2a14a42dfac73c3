package models

// HealthSample is a raw physiological snapshot consumed by the recovery
// scorer. Values of zero are treated as missing and defaulted during scoring.
type HealthSample struct {
	HRVMilliseconds     float64 `json:"hrv_ms"`
	SleepHours          float64 `json:"sleep_hours"`
	RestingHeartRateBpm float64 `json:"resting_heart_rate_bpm"`
}

// RecoveryStatus categorizes a recovery score.
type RecoveryStatus string

const (
	StatusOptimal    RecoveryStatus = "optimal"    // score >= 85
	StatusSuboptimal RecoveryStatus = "suboptimal" // 70 <= score < 85
	StatusFatigue    RecoveryStatus = "fatigue"    // score < 70
)

// StatusForScore returns the recovery status for a score. Breakpoints are
// fixed at 85 and 70.
func StatusForScore(score int) RecoveryStatus {
	switch {
	case score >= 85:
		return StatusOptimal
	case score >= 70:
		return StatusSuboptimal
	default:
		return StatusFatigue
	}
}

// ComponentScores holds the per-metric sub-scores that feed the final
// recovery score.
type ComponentScores struct {
	HRV   float64 `json:"hrv_score"`
	Sleep float64 `json:"sleep_score"`
	HR    float64 `json:"hr_score"`
}

// RecoveryResult is the output of the recovery scorer. Recomputed on each
// request, never persisted.
type RecoveryResult struct {
	Score      int             `json:"score"`
	Status     RecoveryStatus  `json:"status"`
	Components ComponentScores `json:"component_scores"`
	Simulated  bool            `json:"simulated"`
}
