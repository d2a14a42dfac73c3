package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const recentSetCount = 20

func (h *handlers) statsSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summary, err := h.ds.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, summary)
}

func (h *handlers) recentSets(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sets, err := h.ds.RecentSets(ctx, recentSetCount)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, sets)
}

func (h *handlers) programPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plan, err := h.ds.Program(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, plan)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
