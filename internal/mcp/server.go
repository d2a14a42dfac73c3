// Package mcp exposes the recovery, adaptation and history subsystems to
// MCP clients. Tools run against a DataSource, which is either the
// in-process subsystems or a remote server reached over its REST API.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("NeonFit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("NeonFit training assistant. Score recovery from HRV, sleep and resting heart rate, adapt prescribed workouts to the score, log sets, and analyze training history."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetRecoveryScore, Handler: h.getRecoveryScore},
		server.ServerTool{Tool: toolAdaptWorkout, Handler: h.adaptWorkout},
		server.ServerTool{Tool: toolGetPlannedWorkout, Handler: h.getPlannedWorkout},
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolCompareWeeks, Handler: h.compareWeeks},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetWeeklySummary, Handler: h.getWeeklySummary},
		server.ServerTool{Tool: toolCheckProgress, Handler: h.checkProgress},
		server.ServerTool{Tool: toolGetChartData, Handler: h.getChartData},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resStatsSummary, Handler: h.statsSummary},
		server.ServerResource{Resource: resRecentSets, Handler: h.recentSets},
		server.ServerResource{Resource: resProgram, Handler: h.programPlan},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resStatsSummary = mcp.NewResource(
	"neonfit://stats_summary",
	"Training Summary",
	mcp.WithResourceDescription("Total workouts, sets, volume and current training streak"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSets = mcp.NewResource(
	"neonfit://recent_sets",
	"Recent Sets",
	mcp.WithResourceDescription("The most recently logged sets"),
	mcp.WithMIMEType("application/json"),
)

var resProgram = mcp.NewResource(
	"neonfit://program",
	"Training Program",
	mcp.WithResourceDescription("The full configured training program, week by week"),
	mcp.WithMIMEType("application/json"),
)
