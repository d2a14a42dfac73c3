// Package adapt reshapes a prescribed workout's load and volume to match a
// recovery score.
package adapt

import (
	"fmt"
	"math"

	"github.com/claude/neonfit/internal/models"
)

// Recovery at or above this score leaves the workout untouched.
const noAdaptationThreshold = 85

// Sets are never reduced below this count.
const minSets = 2

// Weights are rounded to the nearest half plate.
const plateIncrementKg = 2.5

// Workout derives an adapted workout from a prescribed one and a recovery
// score. It is a pure function: the input workout is never mutated and the
// returned exercises are fresh copies.
func Workout(w models.Workout, score int) models.AdaptedWorkout {
	out := models.AdaptedWorkout{Workout: w}

	if score >= noAdaptationThreshold {
		out.Exercises = make([]models.AdaptedExercise, len(w.Exercises))
		for i, ex := range w.Exercises {
			out.Exercises[i] = models.AdaptedExercise{Exercise: ex}
		}
		return out
	}

	factor := Factor(score)

	out.Exercises = make([]models.AdaptedExercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		out.Exercises[i] = adaptExercise(ex, factor, score)
	}

	out.Adapted = true
	out.AdaptationReason = Reason(score)
	out.OriginalVolume = volume(w.Exercises)
	out.AdaptedVolume = adaptedVolume(out.Exercises)
	return out
}

// Factor returns the multiplicative load-reduction coefficient for a score.
// It is a non-increasing step function with a floor of 0.70.
func Factor(score int) float64 {
	switch {
	case score >= 85:
		return 1.0
	case score >= 80:
		return 0.95
	case score >= 75:
		return 0.90
	case score >= 70:
		return 0.85
	case score >= 65:
		return 0.80
	case score >= 60:
		return 0.75
	default:
		return 0.70
	}
}

func adaptExercise(ex models.Exercise, factor float64, score int) models.AdaptedExercise {
	originalWeight := ex.Weight
	newWeight := math.Round(originalWeight*factor/plateIncrementKg) * plateIncrementKg
	// Plate rounding must never prescribe more than the plan does. For
	// weights that are not plate multiples the nearest plate can land
	// above the original (e.g. 7.2kg * 0.95 rounds to 7.5kg).
	newWeight = math.Min(newWeight, originalWeight)

	newSets := ex.Sets
	if score < 65 {
		newSets = max(ex.Sets-1, minSets)
	}

	weightDiff := originalWeight - newWeight
	setsDiff := ex.Sets - newSets

	note := ""
	if weightDiff > 0 {
		note = fmt.Sprintf("Load: %gkg -> %gkg (-%gkg)", originalWeight, newWeight, weightDiff)
	}
	if setsDiff > 0 {
		if note != "" {
			note += " / "
		}
		note += fmt.Sprintf("Sets: %d -> %d", ex.Sets, newSets)
	}

	adapted := ex
	adapted.Weight = newWeight
	adapted.Sets = newSets

	tempoAdjusted := false
	if ex.Tempo != "" {
		if ts := SuggestTempo(ex.Tempo, score); ts.Adjusted {
			adapted.Tempo = ts.NewTempo
			tempoAdjusted = true
		}
	}
	restAdjusted := false
	if ex.Rest > 0 {
		if rs := SuggestRest(ex.Rest, score); rs.Adjusted {
			adapted.Rest = rs.NewRest
			restAdjusted = true
		}
	}

	return models.AdaptedExercise{
		Exercise:       adapted,
		OriginalWeight: originalWeight,
		Adapted:        weightDiff > 0 || setsDiff > 0 || tempoAdjusted || restAdjusted,
		AdaptationNote: note,
	}
}

// Reason returns the fixed band text describing why a workout was adapted.
func Reason(score int) string {
	switch {
	case score >= 80:
		return "Slight fatigue detected"
	case score >= 75:
		return "Moderate fatigue - volume reduced 10%"
	case score >= 70:
		return "Significant fatigue - volume reduced 15%"
	case score >= 65:
		return "Insufficient recovery - volume reduced 20%"
	default:
		return "Critical fatigue - volume reduced 25-30%"
	}
}

// volume sums weight x sets x average reps across exercises.
func volume(exercises []models.Exercise) float64 {
	total := 0.0
	for _, ex := range exercises {
		total += ex.Weight * float64(ex.Sets) * models.AverageReps(ex.Reps)
	}
	return total
}

func adaptedVolume(exercises []models.AdaptedExercise) float64 {
	total := 0.0
	for _, ex := range exercises {
		total += ex.Weight * float64(ex.Sets) * models.AverageReps(ex.Reps)
	}
	return total
}

// VolumeChangePercent returns the signed percentage change between the
// original and adapted volume, rounded to the nearest integer. Zero
// original volume yields zero.
func VolumeChangePercent(original, adapted float64) int {
	if original == 0 {
		return 0
	}
	return int(math.Round((adapted - original) / original * 100))
}

// FormatVolume renders a volume for display: tonnes above 1000kg,
// whole kilograms below.
func FormatVolume(volume float64) string {
	if volume >= 1000 {
		return fmt.Sprintf("%.1fT", volume/1000)
	}
	return fmt.Sprintf("%dkg", int(math.Round(volume)))
}
