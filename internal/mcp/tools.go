package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/neonfit/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetRecoveryScore = mcp.NewTool("get_recovery_score",
	mcp.WithDescription("Compute a 0-100 recovery score from HRV, sleep duration and resting heart rate. Omit all three to get a simulated time-of-day estimate, flagged as such in the result."),
	mcp.WithNumber("hrv", mcp.Description("Heart rate variability in milliseconds")),
	mcp.WithNumber("sleep_hours", mcp.Description("Last night's sleep duration in hours")),
	mcp.WithNumber("resting_hr", mcp.Description("Resting heart rate in bpm")),
)

var toolAdaptWorkout = mcp.NewTool("adapt_workout",
	mcp.WithDescription("Adapt a workout's loads and sets to a recovery score. Weights scale by a score-dependent factor and round to 2.5kg plates; heavy fatigue also drops a set per exercise."),
	mcp.WithString("workout", mcp.Required(), mcp.Description(`Workout as JSON, e.g. {"muscle":"chest","exercises":[{"name":"Bench Press","sets":4,"reps":"8-12","weight":80,"rest":120}]}`)),
	mcp.WithNumber("score", mcp.Required(), mcp.Description("Recovery score (0-100)")),
)

var toolGetPlannedWorkout = mcp.NewTool("get_planned_workout",
	mcp.WithDescription("Look up a prescribed workout from the configured program and adapt it to a recovery score."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Program week number")),
	mcp.WithString("day", mcp.Required(), mcp.Description("Day key within the week (e.g. 'push', 'pull')")),
	mcp.WithNumber("score", mcp.Description("Recovery score (0-100). Omit to get the workout as prescribed.")),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Log one completed set to the training history."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Program week number")),
	mcp.WithString("day", mcp.Required(), mcp.Description("Day key within the week")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithNumber("set_number", mcp.Required(), mcp.Description("Set number within the session (1-based)")),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted in kg")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
	mcp.WithNumber("rpe", mcp.Description("Rating of perceived exertion (6-10)")),
	mcp.WithString("technique", mcp.Description("Technique used (defaults to STANDARD)")),
	mcp.WithString("notes", mcp.Description("Free-form notes")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Query logged sets. Filter by exercise (newest first, optional limit), by week, or by week and day. Exercise plus week and day narrows to that session's completed sets. No filters returns everything in log order."),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name or ID")),
	mcp.WithNumber("week", mcp.Description("Filter by program week")),
	mcp.WithString("day", mcp.Description("Filter by day within the week (requires week)")),
	mcp.WithNumber("limit", mcp.Description("Max entries for an exercise query")),
)

var toolCompareWeeks = mcp.NewTool("compare_weeks",
	mcp.WithDescription("Compare an exercise's sets between a week and the week before it for the same day. Includes mean weight/reps/volume differences when both weeks have sets."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Current week number")),
	mcp.WithString("day", mcp.Required(), mcp.Description("Day key within the week")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Overall training totals: workouts, sets, volume and the current consecutive-day streak."),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Personal records for an exercise: max weight, max reps and max single-set volume, each maximized independently, plus the average working weight."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
)

var toolGetWeeklySummary = mcp.NewTool("get_weekly_summary",
	mcp.WithDescription("Aggregate one week of training: workout days, sets, volume, distinct exercises and average volume per workout."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Program week number")),
)

var toolCheckProgress = mcp.NewTool("check_progress",
	mcp.WithDescription("Compare an exercise's best single-set volume between a week and the week before it. Returns null when either week has no sets for it."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Current week number")),
)

var toolGetChartData = mcp.NewTool("get_chart_data",
	mcp.WithDescription("Per-session chart points for an exercise: max weight, total volume and set count per (week, day) session."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithNumber("limit", mcp.Description("Max sessions to return. Defaults to 10.")),
)

// --- Tool handlers ---

func (h *handlers) getRecoveryScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hrv := req.GetFloat("hrv", 0)
	sleep := req.GetFloat("sleep_hours", 0)
	restingHR := req.GetFloat("resting_hr", 0)

	var sample *models.HealthSample
	if hrv != 0 || sleep != 0 || restingHR != 0 {
		sample = &models.HealthSample{
			HRVMilliseconds:     hrv,
			SleepHours:          sleep,
			RestingHeartRateBpm: restingHR,
		}
	}

	result, err := h.ds.ScoreRecovery(ctx, sample)
	if err != nil {
		h.log.Error("mcp get_recovery_score", "error", err)
		return mcp.NewToolResultError("scoring failed: " + err.Error()), nil
	}
	return toolJSON(result)
}

func (h *handlers) adaptWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutJSON, err := req.RequireString("workout")
	if err != nil {
		return mcp.NewToolResultError("workout parameter is required"), nil
	}
	score, err := req.RequireInt("score")
	if err != nil {
		return mcp.NewToolResultError("score parameter is required"), nil
	}

	var workout models.Workout
	if err := json.Unmarshal([]byte(workoutJSON), &workout); err != nil {
		return mcp.NewToolResultError("invalid workout JSON: " + err.Error()), nil
	}

	adapted, err := h.ds.AdaptWorkout(ctx, workout, score)
	if err != nil {
		h.log.Error("mcp adapt_workout", "error", err)
		return mcp.NewToolResultError("adaptation failed: " + err.Error()), nil
	}
	return toolJSON(adapted)
}

func (h *handlers) getPlannedWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	score := req.GetInt("score", 0)

	workout, err := h.ds.PlannedWorkout(ctx, week, day, score)
	if err != nil {
		return mcp.NewToolResultError("lookup failed: " + err.Error()), nil
	}
	return toolJSON(workout)
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	setNumber, err := req.RequireInt("set_number")
	if err != nil {
		return mcp.NewToolResultError("set_number parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}

	entry, err := h.ds.LogSet(ctx, models.SetLogRequest{
		Week:      week,
		Day:       day,
		Exercise:  exercise,
		SetNumber: setNumber,
		Weight:    weight,
		Reps:      reps,
		RPE:       req.GetInt("rpe", 0),
		Technique: req.GetString("technique", ""),
		Notes:     req.GetString("notes", ""),
	})
	if err != nil {
		h.log.Error("mcp log_set", "error", err)
		return mcp.NewToolResultError("logging failed: " + err.Error()), nil
	}
	return toolJSON(entry)
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.ds.History(ctx,
		req.GetInt("week", 0),
		req.GetString("day", ""),
		req.GetString("exercise", ""),
		req.GetInt("limit", 0),
	)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(entries)
}

func (h *handlers) compareWeeks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	cmp, err := h.ds.CompareWeeks(ctx, week, day, exercise)
	if err != nil {
		h.log.Error("mcp compare_weeks", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(cmp)
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.ds.Summary(ctx)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(summary)
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	records, err := h.ds.Records(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(records)
}

func (h *handlers) getWeeklySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}

	summary, err := h.ds.Weekly(ctx, week)
	if err != nil {
		h.log.Error("mcp get_weekly_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(summary)
}

func (h *handlers) checkProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}

	report, err := h.ds.CheckProgress(ctx, exercise, week)
	if err != nil {
		h.log.Error("mcp check_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(map[string]any{"report": report})
}

func (h *handlers) getChartData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	sessions, err := h.ds.ChartData(ctx, exercise, req.GetInt("limit", 0))
	if err != nil {
		h.log.Error("mcp get_chart_data", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(sessions)
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
