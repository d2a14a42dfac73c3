package recovery

import (
	"context"
	"time"

	"github.com/claude/neonfit/internal/models"
)

// Source provides a health sample for scoring. The real acquisition path is
// an external collaborator; within this module a Source is either a static
// sample handed in by the caller or the simulated fallback.
type Source interface {
	Sample(ctx context.Context) (models.HealthSample, error)
}

// StaticSource wraps a caller-provided sample.
type StaticSource struct {
	S models.HealthSample
}

func (s StaticSource) Sample(context.Context) (models.HealthSample, error) {
	return s.S, nil
}

// SimulatedSource produces a deterministic time-of-day estimate, used when
// no physiological source is available. Results scored from it must be
// flagged as simulated so downstream consumers can tell them apart from
// real data.
type SimulatedSource struct {
	// Now is the clock used to derive the estimate. Defaults to time.Now.
	Now func() time.Time
}

// Sample derives a plausible sample from the hour of day: mornings read as
// well-recovered, afternoons as moderately fatigued. The minute of the hour
// supplies a small deterministic variation so repeated calls within a day
// are not all identical.
func (s SimulatedSource) Sample(context.Context) (models.HealthSample, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now()

	hrv := 65.0
	sleep := 7.5
	hr := 62.0
	if t.Hour() >= 12 {
		hrv = 45.0
		sleep = 6.5
		hr = 70.0
	}

	// +-5ms HRV swing across the hour.
	hrv += float64(t.Minute())/59.0*10 - 5

	return models.HealthSample{
		HRVMilliseconds:     hrv,
		SleepHours:          sleep,
		RestingHeartRateBpm: hr,
	}, nil
}

// ScoreFrom draws a sample from the source and scores it, flagging the
// result as simulated when the source is the simulated fallback. A source
// error falls back to the simulated estimate rather than failing.
func ScoreFrom(ctx context.Context, src Source) models.RecoveryResult {
	if src == nil {
		src = SimulatedSource{}
	}

	sample, err := src.Sample(ctx)
	_, simulated := src.(SimulatedSource)
	if err != nil {
		sample, _ = SimulatedSource{}.Sample(ctx)
		simulated = true
	}

	result := Score(sample)
	result.Simulated = simulated
	return result
}
