package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/claude/neonfit/internal/adapt"
	"github.com/claude/neonfit/internal/models"
	"github.com/claude/neonfit/internal/recovery"
)

// handleRecoveryScore scores a posted health sample. An empty or absent
// body falls back to the simulated time-of-day source, flagged as such.
// A body that is present but not valid JSON is an error, not a fallback.
func (s *Server) handleRecoveryScore(w http.ResponseWriter, r *http.Request) {
	var sample models.HealthSample
	err := json.NewDecoder(r.Body).Decode(&sample)

	var src recovery.Source
	switch {
	case err == nil:
		src = recovery.StaticSource{S: sample}
	case errors.Is(err, io.EOF):
		// No sample supplied; use the simulated fallback.
		src = recovery.SimulatedSource{}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result := recovery.ScoreFrom(r.Context(), src)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(r.URL.Query().Get("score"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "score parameter required"})
		return
	}
	writeJSON(w, http.StatusOK, recovery.Recommend(score))
}

type adaptRequest struct {
	Workout models.Workout `json:"workout"`
	Score   int            `json:"score"`
}

func (s *Server) handleAdaptWorkout(w http.ResponseWriter, r *http.Request) {
	var req adaptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, adapt.Workout(req.Workout, req.Score))
}

// handlePlannedWorkout looks up a prescribed workout and adapts it to the
// given recovery score. Without a score parameter the workout is returned
// as prescribed.
func (s *Server) handlePlannedWorkout(w http.ResponseWriter, r *http.Request) {
	if s.plan == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no program configured"})
		return
	}

	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week parameter required"})
		return
	}
	day := r.URL.Query().Get("day")
	if day == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day parameter required"})
		return
	}

	workout, ok := s.plan.Workout(week, day)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no workout for that week and day"})
		return
	}

	scoreStr := r.URL.Query().Get("score")
	if scoreStr == "" {
		writeJSON(w, http.StatusOK, workout)
		return
	}
	score, err := strconv.Atoi(scoreStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid score parameter"})
		return
	}
	writeJSON(w, http.StatusOK, adapt.Workout(workout, score))
}

// handleProgram returns the full configured program plan.
func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	if s.plan == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no program configured"})
		return
	}
	writeJSON(w, http.StatusOK, s.plan)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
