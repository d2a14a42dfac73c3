package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/models"
	"github.com/claude/neonfit/internal/program"
)

const testAPIKey = "test-key"

func testServer(t *testing.T) (*Server, *history.Log) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	setLog := history.New(context.Background(), &history.MemStore{}, log)
	return New(setLog, testPlan(t), testAPIKey, log), setLog
}

func testPlan(t *testing.T) *program.Plan {
	t.Helper()
	planYAML := `
weeks:
  - week: 1
    days:
      push:
        muscle: chest
        exercises:
          - name: "Bench Press"
            sets: 4
            reps: "8-12"
            weight: 80
            rest: 120
`
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(planYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	plan, err := program.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return plan
}

func doJSON(t *testing.T, s *Server, method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestRecoveryScoreFromSample verifies a posted sample is scored as real
// data with the documented component weighting.
func TestRecoveryScoreFromSample(t *testing.T) {
	s, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/recovery/score", models.HealthSample{
		HRVMilliseconds: 80, SleepHours: 8, RestingHeartRateBpm: 55,
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result models.RecoveryResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Score != 100 {
		t.Errorf("score = %d, want 100", result.Score)
	}
	if result.Status != models.StatusOptimal {
		t.Errorf("status = %q, want optimal", result.Status)
	}
	if result.Simulated {
		t.Error("real sample flagged simulated")
	}
}

// TestRecoveryScoreEmptyBodySimulated verifies the fallback path is taken
// and flagged when no sample is posted.
func TestRecoveryScoreEmptyBodySimulated(t *testing.T) {
	s, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recovery/score", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var result models.RecoveryResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Simulated {
		t.Error("empty-body result not flagged simulated")
	}
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("score = %d, out of range", result.Score)
	}
}

// TestRecoveryScoreMalformedBodyRejected verifies broken JSON gets a 400
// rather than silently falling back to the simulated source.
func TestRecoveryScoreMalformedBodyRejected(t *testing.T) {
	s, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recovery/score",
		bytes.NewBufferString(`{"hrv_ms": not json`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// TestAdaptEndpoint verifies the adapt route applies the documented factor.
func TestAdaptEndpoint(t *testing.T) {
	s, _ := testServer(t)

	workout := models.Workout{Exercises: []models.Exercise{
		{Name: "Squat", Sets: 4, Reps: "5", Weight: 100, Rest: 180},
	}}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/workout/adapt",
		map[string]any{"workout": workout, "score": 77}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got models.AdaptedWorkout
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !got.Adapted {
		t.Error("workout not adapted at score 77")
	}
	// factor 0.90 -> 90kg
	if got.Exercises[0].Weight != 90 {
		t.Errorf("weight = %v, want 90", got.Exercises[0].Weight)
	}
}

// TestPlannedWorkoutAdapted verifies the program lookup plus adaptation
// pipeline behind GET /workout.
func TestPlannedWorkoutAdapted(t *testing.T) {
	s, _ := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/workout?week=1&day=push&score=60", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got models.AdaptedWorkout
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	// factor 0.75: 80 -> 60kg; score < 65 also drops a set.
	if got.Exercises[0].Weight != 60 {
		t.Errorf("weight = %v, want 60", got.Exercises[0].Weight)
	}
	if got.Exercises[0].Sets != 3 {
		t.Errorf("sets = %d, want 3", got.Exercises[0].Sets)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/workout?week=9&day=push", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown week status = %d, want 404", rec.Code)
	}
}

// TestLogSetRequiresAPIKey verifies mutating routes reject missing and
// wrong keys.
func TestLogSetRequiresAPIKey(t *testing.T) {
	s, _ := testServer(t)
	body := models.SetLogRequest{Week: 1, Day: "push", Exercise: "Bench Press", SetNumber: 1, Weight: 80, Reps: 8}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/history/sets", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/history/sets", body, "wrong")
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/history/sets", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Errorf("valid key status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
}

// TestLogSetValidationError verifies an invalid set reports 400 rather
// than panicking or logging a partial entry.
func TestLogSetValidationError(t *testing.T) {
	s, setLog := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/history/sets",
		models.SetLogRequest{Week: 1}, testAPIKey)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if setLog.Len() != 0 {
		t.Errorf("invalid set was logged: len = %d", setLog.Len())
	}
}

// TestHistoryFilters verifies the week/day/exercise query parameters.
func TestHistoryFilters(t *testing.T) {
	s, setLog := testServer(t)
	ctx := context.Background()

	seed := []models.SetLogRequest{
		{Week: 1, Day: "push", Exercise: "Bench Press", SetNumber: 1, Weight: 80, Reps: 8},
		{Week: 1, Day: "pull", Exercise: "Row", SetNumber: 1, Weight: 60, Reps: 10},
		{Week: 2, Day: "push", Exercise: "Bench Press", SetNumber: 1, Weight: 82.5, Reps: 8},
	}
	for _, r := range seed {
		if _, err := setLog.LogSet(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	decode := func(rec *httptest.ResponseRecorder) []models.SetLogEntry {
		t.Helper()
		var out []models.SetLogEntry
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		return out
	}

	if got := decode(doJSON(t, s, http.MethodGet, "/api/v1/history", nil, "")); len(got) != 3 {
		t.Errorf("all: len = %d, want 3", len(got))
	}
	if got := decode(doJSON(t, s, http.MethodGet, "/api/v1/history?week=1", nil, "")); len(got) != 2 {
		t.Errorf("week=1: len = %d, want 2", len(got))
	}
	if got := decode(doJSON(t, s, http.MethodGet, "/api/v1/history?week=1&day=pull", nil, "")); len(got) != 1 {
		t.Errorf("week=1 day=pull: len = %d, want 1", len(got))
	}
	got := decode(doJSON(t, s, http.MethodGet, "/api/v1/history?exercise=Bench+Press&limit=1", nil, ""))
	if len(got) != 1 || got[0].Week != 2 {
		t.Errorf("exercise limit=1: %+v", got)
	}
	session := decode(doJSON(t, s, http.MethodGet, "/api/v1/history?exercise=Bench+Press&week=1&day=push", nil, ""))
	if len(session) != 1 || session[0].Week != 1 || !session[0].Completed {
		t.Errorf("session completed sets: %+v", session)
	}
}

// TestStatsEndpoint verifies the dashboard summary totals.
func TestStatsEndpoint(t *testing.T) {
	s, setLog := testServer(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		r := models.SetLogRequest{Week: 1, Day: "push", Exercise: "Bench Press", SetNumber: i, Weight: 80, Reps: 10}
		if _, err := setLog.LogSet(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/stats", nil, "")
	var got statsSummary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.TotalWorkouts != 1 || got.TotalSets != 3 || got.TotalVolume != 2400 {
		t.Errorf("summary = %+v", got)
	}
	if got.Streak != 1 {
		t.Errorf("streak = %d, want 1", got.Streak)
	}
}

// TestExportImportClearFlow verifies the full maintenance cycle over HTTP:
// export, wipe with confirmation, reimport.
func TestExportImportClearFlow(t *testing.T) {
	s, setLog := testServer(t)
	ctx := context.Background()

	if _, err := setLog.LogSet(ctx, models.SetLogRequest{
		Week: 1, Day: "push", Exercise: "Bench Press", SetNumber: 1, Weight: 80, Reps: 8,
	}); err != nil {
		t.Fatal(err)
	}

	exported := doJSON(t, s, http.MethodGet, "/api/v1/history/export", nil, "")
	if exported.Code != http.StatusOK {
		t.Fatalf("export status = %d", exported.Code)
	}

	// Unconfirmed clear is rejected.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/history/clear", map[string]bool{"confirm": false}, testAPIKey)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unconfirmed clear status = %d, want 400", rec.Code)
	}
	if setLog.Len() != 1 {
		t.Error("unconfirmed clear wiped the log")
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/history/clear", map[string]bool{"confirm": true}, testAPIKey)
	if rec.Code != http.StatusOK {
		t.Errorf("confirmed clear status = %d", rec.Code)
	}
	if setLog.Len() != 0 {
		t.Error("confirmed clear left entries")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/history/import", bytes.NewReader(exported.Body.Bytes()))
	req.Header.Set("X-API-Key", testAPIKey)
	imp := httptest.NewRecorder()
	s.ServeHTTP(imp, req)
	if imp.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", imp.Code, imp.Body.String())
	}
	if setLog.Len() != 1 {
		t.Errorf("after import len = %d, want 1", setLog.Len())
	}

	// Non-array import is rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/history/import", bytes.NewReader([]byte(`{"no":"array"}`)))
	req.Header.Set("X-API-Key", testAPIKey)
	bad := httptest.NewRecorder()
	s.ServeHTTP(bad, req)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("non-array import status = %d, want 400", bad.Code)
	}
}

// TestRecommendationEndpoint verifies score parsing and banding.
func TestRecommendationEndpoint(t *testing.T) {
	s, _ := testServer(t)

	for score, want := range map[int]string{90: "train", 75: "adjust", 40: "rest"} {
		rec := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/recovery/recommendation?score=%d", score), nil, "")
		var got struct {
			Action string `json:"action"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got.Action != want {
			t.Errorf("score %d action = %q, want %q", score, got.Action, want)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/recovery/recommendation", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing score status = %d, want 400", rec.Code)
	}
}
