package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/claude/neonfit/internal/models"
)

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req models.SetLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	entry, err := s.setLog.LogSet(r.Context(), req)
	if err != nil {
		s.log.Error("log set failed", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// handleHistory filters the set log by optional week, day and exercise
// parameters. Exercise queries return most-recent-first and honor limit.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if exercise := q.Get("exercise"); exercise != "" {
		// Exercise plus a full session key narrows to that session's
		// completed sets.
		if weekStr, day := q.Get("week"), q.Get("day"); weekStr != "" && day != "" {
			week, err := strconv.Atoi(weekStr)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week parameter"})
				return
			}
			writeJSON(w, http.StatusOK, s.setLog.CompletedSets(exercise, week, day))
			return
		}
		limit, _ := strconv.Atoi(q.Get("limit"))
		writeJSON(w, http.StatusOK, s.setLog.ByExercise(exercise, limit))
		return
	}

	weekStr := q.Get("week")
	if weekStr == "" {
		writeJSON(w, http.StatusOK, s.setLog.All())
		return
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week parameter"})
		return
	}

	if day := q.Get("day"); day != "" {
		writeJSON(w, http.StatusOK, s.setLog.ByDay(week, day))
		return
	}
	writeJSON(w, http.StatusOK, s.setLog.ByWeek(week))
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	week, err := strconv.Atoi(q.Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week parameter required"})
		return
	}
	day := q.Get("day")
	exercise := q.Get("exercise")
	if day == "" || exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day and exercise parameters required"})
		return
	}
	writeJSON(w, http.StatusOK, s.setLog.Comparison(week, day, exercise))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.setLog.Export()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="neonfit-history.json"`)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	if err := s.setLog.Import(r.Context(), data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": s.setLog.Len()})
}

type clearRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.setLog.Clear(r.Context(), req.Confirm); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
