package models

import "time"

// SetLogEntry is one completed set in the workout history log. Entries are
// append-only and owned exclusively by the history log; the id and timestamp
// are assigned at log time.
type SetLogEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Week         int       `json:"week"`
	Day          string    `json:"day"`
	Exercise     string    `json:"exercise"`
	ExerciseID   string    `json:"exercise_id,omitempty"`
	SetNumber    int       `json:"set_number"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	TargetWeight float64   `json:"target_weight"`
	TargetReps   int       `json:"target_reps"`
	RPE          int       `json:"rpe,omitempty"`
	Technique    string    `json:"technique"`
	Notes        string    `json:"notes,omitempty"`
	Completed    bool      `json:"completed"`
}

// Volume returns weight x reps for this set.
func (e SetLogEntry) Volume() float64 {
	return e.Weight * float64(e.Reps)
}

// Date returns the calendar date of the entry in its own location.
func (e SetLogEntry) Date() string {
	return e.Timestamp.Format("2006-01-02")
}

// SetLogRequest carries the caller-supplied fields of a set completion.
// ID, timestamp and the completed flag are filled in by the history log.
type SetLogRequest struct {
	Week         int     `json:"week"`
	Day          string  `json:"day"`
	Exercise     string  `json:"exercise"`
	ExerciseID   string  `json:"exercise_id,omitempty"`
	SetNumber    int     `json:"set_number"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
	TargetWeight float64 `json:"target_weight,omitempty"`
	TargetReps   int     `json:"target_reps,omitempty"`
	RPE          int     `json:"rpe,omitempty"`
	Technique    string  `json:"technique,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}
