package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestScoreRecoveryRemote verifies the client posts the sample and parses
// the scored result.
func TestScoreRecoveryRemote(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/recovery/score": func(w http.ResponseWriter, r *http.Request) {
			var sample models.HealthSample
			if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
				t.Errorf("decoding sample: %v", err)
			}
			if sample.HRVMilliseconds != 50 {
				t.Errorf("hrv=%v, want 50", sample.HRVMilliseconds)
			}
			writeTestJSON(t, w, models.RecoveryResult{Score: 83, Status: models.StatusSuboptimal})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	result, err := client.ScoreRecovery(context.Background(), &models.HealthSample{
		HRVMilliseconds: 50, SleepHours: 7.5, RestingHeartRateBpm: 60,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Score != 83 {
		t.Errorf("score=%d, want 83", result.Score)
	}
}

// TestLogSetRemoteSendsAPIKey verifies mutating requests carry the API key
// and 201 responses parse cleanly.
func TestLogSetRemoteSendsAPIKey(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history/sets": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("X-API-Key"); got != "secret" {
				t.Errorf("X-API-Key=%q, want secret", got)
			}
			w.WriteHeader(http.StatusCreated)
			writeTestJSON(t, w, models.SetLogEntry{ID: "abc", Exercise: "Bench Press", Weight: 80})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "secret")
	entry, err := client.LogSet(context.Background(), models.SetLogRequest{
		Week: 1, Day: "push", Exercise: "Bench Press", SetNumber: 1, Weight: 80, Reps: 8,
	})
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != "abc" {
		t.Errorf("id=%q, want abc", entry.ID)
	}
}

// TestHistoryRemoteQueryParams verifies the filter-to-param mapping.
func TestHistoryRemoteQueryParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("exercise"); got != "Squat" {
				t.Errorf("exercise=%q, want Squat", got)
			}
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit=%q, want 5", got)
			}
			writeTestJSON(t, w, []models.SetLogEntry{{Exercise: "Squat"}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	entries, err := client.History(context.Background(), 0, "", "Squat", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

// TestHistoryRemoteSessionParams verifies exercise plus week and day is
// forwarded as a session query rather than an exercise-with-limit query.
func TestHistoryRemoteSessionParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("exercise") != "Squat" || q.Get("week") != "2" || q.Get("day") != "legs" {
				t.Errorf("query = %v, want exercise=Squat week=2 day=legs", q)
			}
			if q.Get("limit") != "" {
				t.Errorf("limit=%q sent on session query", q.Get("limit"))
			}
			writeTestJSON(t, w, []models.SetLogEntry{{Exercise: "Squat", Completed: true}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	entries, err := client.History(context.Background(), 2, "legs", "Squat", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

// TestPlannedWorkoutRemoteDefaultsScore verifies a non-positive score is
// sent as 100 so the response is always the adapted form.
func TestPlannedWorkoutRemoteDefaultsScore(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workout": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("score"); got != "100" {
				t.Errorf("score=%q, want 100", got)
			}
			writeTestJSON(t, w, models.AdaptedWorkout{Adapted: false})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	workout, err := client.PlannedWorkout(context.Background(), 1, "push", 0)
	if err != nil {
		t.Fatal(err)
	}
	if workout.Adapted {
		t.Error("workout adapted at full score")
	}
}

// TestCheckProgressRemoteNullReport verifies the null-report wrapper decodes
// to a nil pointer.
func TestCheckProgressRemoteNullReport(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, map[string]any{"report": nil})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	report, err := client.CheckProgress(context.Background(), "Bench Press", 3)
	if err != nil {
		t.Fatal(err)
	}
	if report != nil {
		t.Errorf("report = %+v, want nil", report)
	}
}

// TestSummaryRemote verifies the stats summary parsing.
func TestSummaryRemote(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, TrainingSummary{TotalWorkouts: 12, TotalSets: 96, TotalVolume: 45000, Streak: 4})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	summary, err := client.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalSets != 96 || summary.Streak != 4 {
		t.Errorf("summary = %+v", summary)
	}
}

// TestCompareWeeksRemote verifies comparison parsing including the optional
// improvement block.
func TestCompareWeeksRemote(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history/comparison": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("week"); got != "3" {
				t.Errorf("week=%q, want 3", got)
			}
			writeTestJSON(t, w, history.Comparison{
				Current:     []models.SetLogEntry{{Weight: 85}},
				Previous:    []models.SetLogEntry{{Weight: 80}},
				Improvement: &history.Improvement{WeightDiff: 5},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	cmp, err := client.CompareWeeks(context.Background(), 3, "push", "Bench Press")
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Improvement == nil || cmp.Improvement.WeightDiff != 5 {
		t.Errorf("improvement = %+v", cmp.Improvement)
	}
}

// TestHTTPClientServerError verifies the client returns an error on non-2xx
// responses.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"store unavailable"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	if _, err := client.Summary(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
