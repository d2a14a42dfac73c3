package models

import (
	"strconv"
	"strings"
)

// Exercise is one prescribed unit within a workout. Name is the identity key
// within its workout. Reps is either a fixed integer ("8") or a min-max
// range ("8-12"). Weight is kilograms, Rest is seconds. Tempo is the
// optional four-phase cadence string "ecc-iso-con-iso".
type Exercise struct {
	Name      string  `json:"name" yaml:"name"`
	Sets      int     `json:"sets" yaml:"sets"`
	Reps      string  `json:"reps" yaml:"reps"`
	Weight    float64 `json:"weight" yaml:"weight"`
	Rest      int     `json:"rest" yaml:"rest"`
	Tempo     string  `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	Technique string  `json:"technique,omitempty" yaml:"technique,omitempty"`
}

// Workout is a prescribed session. Prescribed workouts are immutable inputs;
// the adapter only derives copies.
type Workout struct {
	Day       string     `json:"day,omitempty" yaml:"day,omitempty"`
	Muscle    string     `json:"muscle" yaml:"muscle"`
	Technique string     `json:"technique,omitempty" yaml:"technique,omitempty"`
	Duration  string     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
}

// AdaptedExercise is an exercise after load adaptation.
type AdaptedExercise struct {
	Exercise
	OriginalWeight float64 `json:"original_weight,omitempty"`
	Adapted        bool    `json:"adapted"`
	AdaptationNote string  `json:"adaptation_note,omitempty"`
}

// AdaptedWorkout is a workout after load adaptation. Derived value object,
// recomputed per request, never persisted.
type AdaptedWorkout struct {
	Workout
	Exercises        []AdaptedExercise `json:"exercises"`
	Adapted          bool              `json:"adapted"`
	AdaptationReason string            `json:"adaptation_reason,omitempty"`
	OriginalVolume   float64           `json:"original_volume,omitempty"`
	AdaptedVolume    float64           `json:"adapted_volume,omitempty"`
}

// AverageReps parses a reps string into its average rep count. A range
// "8-12" averages to 10; a plain integer parses as itself; anything else
// defaults to 10.
func AverageReps(reps string) float64 {
	if lo, hi, ok := strings.Cut(reps, "-"); ok {
		a, errA := strconv.Atoi(strings.TrimSpace(lo))
		b, errB := strconv.Atoi(strings.TrimSpace(hi))
		if errA == nil && errB == nil {
			return float64(a+b) / 2
		}
		return 10
	}
	if n, err := strconv.Atoi(strings.TrimSpace(reps)); err == nil {
		return float64(n)
	}
	return 10
}

// ParseTempo splits a "3-0-1-0" tempo string into its four phases.
// Returns ok=false for anything that is not exactly four integers.
func ParseTempo(tempo string) (phases [4]int, ok bool) {
	parts := strings.Split(tempo, "-")
	if len(parts) != 4 {
		return phases, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return phases, false
		}
		phases[i] = n
	}
	return phases, true
}
