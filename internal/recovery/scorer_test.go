package recovery

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/claude/neonfit/internal/models"
)

// TestScoreReference verifies the full pipeline against hand-computed
// component scores: hrv=50 -> 70, sleep=7h -> 100, hr=70bpm -> 86.67,
// weighted 0.5/0.35/0.15 and rounded.
func TestScoreReference(t *testing.T) {
	got := Score(models.HealthSample{
		HRVMilliseconds:     50,
		SleepHours:          7,
		RestingHeartRateBpm: 70,
	})

	if got.Components.HRV != 70 {
		t.Errorf("hrv score = %v, want 70", got.Components.HRV)
	}
	if got.Components.Sleep != 100 {
		t.Errorf("sleep score = %v, want 100", got.Components.Sleep)
	}
	if math.Abs(got.Components.HR-86.666) > 0.01 {
		t.Errorf("hr score = %v, want ~86.67", got.Components.HR)
	}
	// 70*0.5 + 100*0.35 + 86.67*0.15 = 35 + 35 + 13 = 83
	if got.Score != 83 {
		t.Errorf("score = %d, want 83", got.Score)
	}
	if got.Status != models.StatusSuboptimal {
		t.Errorf("status = %q, want suboptimal", got.Status)
	}
}

// TestHRVCurve verifies the piecewise-linear HRV normalization: 40 at the
// low plateau, 100 at the high plateau, linear interpolation between.
func TestHRVCurve(t *testing.T) {
	tests := []struct {
		hrv  float64
		want float64
	}{
		{10, 40},
		{20, 40},
		{50, 70},
		{80, 100},
		{120, 100},
	}
	for _, tt := range tests {
		if got := hrvScore(tt.hrv); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("hrvScore(%v) = %v, want %v", tt.hrv, got, tt.want)
		}
	}
}

// TestSleepCurve verifies the sleep plateau and the decay floors on both
// sides: 15 points per hour short of 6h floored at 50, 10 points per hour
// over 10h floored at 60.
func TestSleepCurve(t *testing.T) {
	tests := []struct {
		hours float64
		want  float64
	}{
		{8, 100},
		{7, 100},
		{9, 100},
		{6.5, 85},
		{9.5, 90},
		{10, 90},
		{5, 70},
		{4, 55},
		{1, 50},
		{11, 80},
		{14, 60},
		{20, 60},
	}
	for _, tt := range tests {
		if got := sleepScore(tt.hours); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("sleepScore(%v) = %v, want %v", tt.hours, got, tt.want)
		}
	}
}

// TestHeartRateCurve verifies the inverted resting heart rate curve.
func TestHeartRateCurve(t *testing.T) {
	tests := []struct {
		bpm  float64
		want float64
	}{
		{50, 100},
		{60, 100},
		{75, 80},
		{90, 60},
		{120, 60},
	}
	for _, tt := range tests {
		if got := heartRateScore(tt.bpm); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("heartRateScore(%v) = %v, want %v", tt.bpm, got, tt.want)
		}
	}
}

// TestScoreBoundsArbitraryInput verifies the score stays an integer in
// [0,100] for hostile inputs: negatives, zeros, NaN, infinities, huge values.
func TestScoreBoundsArbitraryInput(t *testing.T) {
	samples := []models.HealthSample{
		{},
		{HRVMilliseconds: -500, SleepHours: -3, RestingHeartRateBpm: -1},
		{HRVMilliseconds: 1e12, SleepHours: 1e9, RestingHeartRateBpm: 1e9},
		{HRVMilliseconds: math.NaN(), SleepHours: math.Inf(1), RestingHeartRateBpm: math.Inf(-1)},
	}
	for _, s := range samples {
		got := Score(s)
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("Score(%+v) = %d, out of [0,100]", s, got.Score)
		}
	}
}

// TestScoreDefaultsMissingMetrics verifies that a zero-valued sample scores
// identically to the documented defaults (hrv 50ms, sleep 7h, hr 70bpm).
func TestScoreDefaultsMissingMetrics(t *testing.T) {
	zero := Score(models.HealthSample{})
	explicit := Score(models.HealthSample{
		HRVMilliseconds:     50,
		SleepHours:          7,
		RestingHeartRateBpm: 70,
	})
	if zero.Score != explicit.Score {
		t.Errorf("zero sample score = %d, defaulted sample score = %d", zero.Score, explicit.Score)
	}
}

// TestScoreHRVMonotonic verifies that raising HRV alone never lowers the
// final score.
func TestScoreHRVMonotonic(t *testing.T) {
	prev := -1
	for hrv := 5.0; hrv <= 120; hrv += 2.5 {
		got := Score(models.HealthSample{
			HRVMilliseconds:     hrv,
			SleepHours:          7,
			RestingHeartRateBpm: 65,
		})
		if got.Score < prev {
			t.Fatalf("score dropped from %d to %d when hrv rose to %v", prev, got.Score, hrv)
		}
		prev = got.Score
	}
}

// TestStatusBreakpoints verifies the fixed 85/70 status breakpoints.
func TestStatusBreakpoints(t *testing.T) {
	tests := []struct {
		score int
		want  models.RecoveryStatus
	}{
		{100, models.StatusOptimal},
		{85, models.StatusOptimal},
		{84, models.StatusSuboptimal},
		{70, models.StatusSuboptimal},
		{69, models.StatusFatigue},
		{0, models.StatusFatigue},
	}
	for _, tt := range tests {
		if got := models.StatusForScore(tt.score); got != tt.want {
			t.Errorf("StatusForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

// TestSimulatedSourceDeterministic verifies that the fallback source is a
// pure function of the clock and marks its results as simulated.
func TestSimulatedSourceDeterministic(t *testing.T) {
	at := func(hour, minute int) func() time.Time {
		return func() time.Time {
			return time.Date(2024, 3, 1, hour, minute, 0, 0, time.UTC)
		}
	}

	morning := SimulatedSource{Now: at(8, 0)}
	a, _ := morning.Sample(context.Background())
	b, _ := morning.Sample(context.Background())
	if a != b {
		t.Errorf("same clock produced different samples: %+v vs %+v", a, b)
	}

	afternoon := SimulatedSource{Now: at(16, 0)}
	c, _ := afternoon.Sample(context.Background())
	if c.HRVMilliseconds >= a.HRVMilliseconds {
		t.Errorf("afternoon hrv %v not below morning hrv %v", c.HRVMilliseconds, a.HRVMilliseconds)
	}

	result := ScoreFrom(context.Background(), morning)
	if !result.Simulated {
		t.Error("result from simulated source not flagged simulated")
	}
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("simulated score %d out of range", result.Score)
	}
}

// TestScoreFromStaticSource verifies the real-sample path is not flagged
// simulated.
func TestScoreFromStaticSource(t *testing.T) {
	src := StaticSource{S: models.HealthSample{HRVMilliseconds: 80, SleepHours: 8, RestingHeartRateBpm: 55}}
	result := ScoreFrom(context.Background(), src)
	if result.Simulated {
		t.Error("static source result flagged simulated")
	}
	if result.Status != models.StatusOptimal {
		t.Errorf("status = %q, want optimal for a fully recovered sample", result.Status)
	}
}

// TestRecommendBands verifies the train/adjust/rest recommendation bands.
func TestRecommendBands(t *testing.T) {
	if got := Recommend(90).Action; got != ActionTrain {
		t.Errorf("Recommend(90) = %q, want train", got)
	}
	if got := Recommend(75).Action; got != ActionAdjust {
		t.Errorf("Recommend(75) = %q, want adjust", got)
	}
	if got := Recommend(50).Action; got != ActionRest {
		t.Errorf("Recommend(50) = %q, want rest", got)
	}
}
