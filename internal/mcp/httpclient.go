package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/models"
	"github.com/claude/neonfit/internal/program"
)

// HTTPClient implements DataSource by calling the NeonFit REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is sent on mutating requests only.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	return c.do(req, path)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, withKey bool) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	return c.do(req, path)
}

func (c *HTTPClient) do(req *http.Request, path string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	return body, nil
}

func decode[T any](body []byte, what string) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return v, nil
}

func (c *HTTPClient) ScoreRecovery(ctx context.Context, sample *models.HealthSample) (models.RecoveryResult, error) {
	var payload any
	if sample != nil {
		payload = sample
	}
	body, err := c.post(ctx, "/api/v1/recovery/score", payload, false)
	if err != nil {
		return models.RecoveryResult{}, err
	}
	return decode[models.RecoveryResult](body, "recovery score")
}

func (c *HTTPClient) AdaptWorkout(ctx context.Context, w models.Workout, score int) (models.AdaptedWorkout, error) {
	body, err := c.post(ctx, "/api/v1/workout/adapt", map[string]any{
		"workout": w,
		"score":   score,
	}, false)
	if err != nil {
		return models.AdaptedWorkout{}, err
	}
	return decode[models.AdaptedWorkout](body, "adapted workout")
}

func (c *HTTPClient) PlannedWorkout(ctx context.Context, week int, day string, score int) (models.AdaptedWorkout, error) {
	// Always pass a score so the response shape is the adapted form.
	if score <= 0 {
		score = 100
	}
	params := url.Values{}
	params.Set("week", strconv.Itoa(week))
	params.Set("day", day)
	params.Set("score", strconv.Itoa(score))

	body, err := c.get(ctx, "/api/v1/workout", params)
	if err != nil {
		return models.AdaptedWorkout{}, err
	}
	return decode[models.AdaptedWorkout](body, "planned workout")
}

func (c *HTTPClient) LogSet(ctx context.Context, req models.SetLogRequest) (models.SetLogEntry, error) {
	body, err := c.post(ctx, "/api/v1/history/sets", req, true)
	if err != nil {
		return models.SetLogEntry{}, err
	}
	return decode[models.SetLogEntry](body, "set entry")
}

func (c *HTTPClient) History(ctx context.Context, week int, day, exercise string, limit int) ([]models.SetLogEntry, error) {
	params := url.Values{}
	if exercise != "" {
		params.Set("exercise", exercise)
		if week > 0 && day != "" {
			params.Set("week", strconv.Itoa(week))
			params.Set("day", day)
		} else if limit > 0 {
			params.Set("limit", strconv.Itoa(limit))
		}
	} else if week > 0 {
		params.Set("week", strconv.Itoa(week))
		if day != "" {
			params.Set("day", day)
		}
	}

	body, err := c.get(ctx, "/api/v1/history", params)
	if err != nil {
		return nil, err
	}
	return decode[[]models.SetLogEntry](body, "history")
}

func (c *HTTPClient) CompareWeeks(ctx context.Context, week int, day, exercise string) (history.Comparison, error) {
	params := url.Values{}
	params.Set("week", strconv.Itoa(week))
	params.Set("day", day)
	params.Set("exercise", exercise)

	body, err := c.get(ctx, "/api/v1/history/comparison", params)
	if err != nil {
		return history.Comparison{}, err
	}
	return decode[history.Comparison](body, "comparison")
}

func (c *HTTPClient) Summary(ctx context.Context) (TrainingSummary, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return TrainingSummary{}, err
	}
	return decode[TrainingSummary](body, "stats summary")
}

func (c *HTTPClient) Records(ctx context.Context, exercise string) (ExerciseRecords, error) {
	params := url.Values{}
	params.Set("exercise", exercise)

	body, err := c.get(ctx, "/api/v1/stats/records", params)
	if err != nil {
		return ExerciseRecords{}, err
	}
	return decode[ExerciseRecords](body, "records")
}

func (c *HTTPClient) Weekly(ctx context.Context, week int) (history.WeeklySummary, error) {
	params := url.Values{}
	params.Set("week", strconv.Itoa(week))

	body, err := c.get(ctx, "/api/v1/stats/weekly", params)
	if err != nil {
		return history.WeeklySummary{}, err
	}
	return decode[history.WeeklySummary](body, "weekly summary")
}

func (c *HTTPClient) CheckProgress(ctx context.Context, exercise string, week int) (*history.ProgressReport, error) {
	params := url.Values{}
	params.Set("exercise", exercise)
	params.Set("week", strconv.Itoa(week))

	body, err := c.get(ctx, "/api/v1/progress", params)
	if err != nil {
		return nil, err
	}

	wrapper, err := decode[struct {
		Report *history.ProgressReport `json:"report"`
	}](body, "progress report")
	if err != nil {
		return nil, err
	}
	return wrapper.Report, nil
}

func (c *HTTPClient) ChartData(ctx context.Context, exercise string, limit int) ([]history.ChartSession, error) {
	params := url.Values{}
	params.Set("exercise", exercise)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/progress/chart", params)
	if err != nil {
		return nil, err
	}
	return decode[[]history.ChartSession](body, "chart data")
}

func (c *HTTPClient) RecentSets(ctx context.Context, limit int) ([]models.SetLogEntry, error) {
	all, err := c.History(ctx, 0, "", "", 0)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (c *HTTPClient) Program(ctx context.Context) (*program.Plan, error) {
	body, err := c.get(ctx, "/api/v1/program", nil)
	if err != nil {
		return nil, err
	}
	plan, err := decode[program.Plan](body, "program")
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
