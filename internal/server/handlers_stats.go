package server

import (
	"net/http"
	"strconv"
)

// statsSummary is the dashboard aggregate: totals plus the current streak.
type statsSummary struct {
	TotalWorkouts int     `json:"total_workouts"`
	TotalSets     int     `json:"total_sets"`
	TotalVolume   float64 `json:"total_volume"`
	Streak        int     `json:"streak"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsSummary{
		TotalWorkouts: s.stats.TotalWorkouts(),
		TotalSets:     s.stats.TotalSets(),
		TotalVolume:   s.stats.TotalVolume(),
		Streak:        s.stats.Streak(),
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exercise":       exercise,
		"records":        s.stats.Records(exercise),
		"average_weight": s.stats.AverageWeight(exercise),
	})
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week parameter required"})
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Weekly(week))
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exercise := q.Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	week, err := strconv.Atoi(q.Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week parameter required"})
		return
	}

	report := s.progress.Check(exercise, week)
	if report == nil {
		// Not enough data to compare; distinct from a zero improvement.
		writeJSON(w, http.StatusOK, map[string]any{"report": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exercise := q.Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	writeJSON(w, http.StatusOK, s.progress.ChartData(exercise, limit))
}
