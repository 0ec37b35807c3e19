// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/CentauroTech/centaurus-sub001/internal/adapters/server/httpapi"
	"github.com/CentauroTech/centaurus-sub001/internal/app"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the routing tools.
func NewHandler(cfg Config, service httpapi.ProgressionService) (*Handler, error) {
	if service == nil {
		return nil, fmt.Errorf("progression service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerAdvanceTool(mcpSrv, service)
	registerRouteTool(mcpSrv, service)
	registerActivityTool(mcpSrv, service)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "centaurus"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerAdvanceTool registers the `centaurus.advance_task` tool.
func registerAdvanceTool(srv *mcpserver.MCPServer, service httpapi.ProgressionService) {
	srv.AddTool(
		mcp.NewTool(
			"centaurus.advance_task",
			mcp.WithDescription("Move one task to the next stage in the production pipeline."),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithString("actor_id", mcp.Description("Acting user identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireString("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			outcome, err := service.Advance(ctx, taskID, req.GetString("actor_id", ""))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"task_id":     outcome.TaskID,
				"moved":       outcome.Moved,
				"from_label":  outcome.FromLabel,
				"stage_label": outcome.StageLabel,
				"board_id":    outcome.BoardID,
				"lane_id":     outcome.LaneID,
			})
			if err != nil {
				return nil, fmt.Errorf("encode advance_task result: %w", err)
			}
			return result, nil
		},
	)
}

// registerRouteTool registers the `centaurus.route_tasks` tool.
func registerRouteTool(srv *mcpserver.MCPServer, service httpapi.ProgressionService) {
	srv.AddTool(
		mcp.NewTool(
			"centaurus.route_tasks",
			mcp.WithDescription("Move one or many tasks onto an explicitly chosen stage."),
			mcp.WithString("task_ids", mcp.Required(), mcp.Description("Comma-separated task identifiers")),
			mcp.WithString("stage", mcp.Required(), mcp.Description("Destination stage label")),
			mcp.WithString("actor_id", mcp.Description("Acting user identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawIDs, err := req.RequireString("task_ids")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			stage, err := req.RequireString("stage")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			outcome, err := service.RouteToStage(ctx, splitTaskIDs(rawIDs), stage, req.GetString("actor_id", ""))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"stage_label": outcome.StageLabel,
				"board_id":    outcome.BoardID,
				"moved":       outcome.Moved,
			})
			if err != nil {
				return nil, fmt.Errorf("encode route_tasks result: %w", err)
			}
			return result, nil
		},
	)
}

// registerActivityTool registers the `centaurus.task_activity` tool.
func registerActivityTool(srv *mcpserver.MCPServer, service httpapi.ProgressionService) {
	srv.AddTool(
		mcp.NewTool(
			"centaurus.task_activity",
			mcp.WithDescription("Return one task's audit trail, newest first."),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithNumber("limit", mcp.Description("Maximum records to return (0 for all)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireString("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			limit := req.GetInt("limit", 0)
			if limit < 0 {
				return mcp.NewToolResultError("limit must be non-negative"), nil
			}
			records, err := service.TaskActivity(ctx, taskID, limit)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"task_id": taskID,
				"records": records,
			})
			if err != nil {
				return nil, fmt.Errorf("encode task_activity result: %w", err)
			}
			return result, nil
		},
	)
}

// splitTaskIDs parses one comma-separated id list, dropping empty entries.
func splitTaskIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// toolResultFromError maps application errors into MCP tool error results.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, app.ErrNoBoardForStage):
		return mcp.NewToolResultError("no board configured for stage: " + err.Error())
	case errors.Is(err, app.ErrNotFound):
		return mcp.NewToolResultError("not found: " + err.Error())
	case errors.Is(err, app.ErrUnknownStage), errors.Is(err, app.ErrNoTasks):
		return mcp.NewToolResultError("invalid request: " + err.Error())
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
