// Package mcpserver exposes scouting analytics as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/domain/projection"
	"github.com/reefscout/reefscout/internal/domain/ranking"
	"github.com/reefscout/reefscout/internal/domain/summary"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// Backend is the part of the service the tools call.
type Backend interface {
	Defaults() types.Query
	Rankings(ctx context.Context, q types.Query, limit int) (ranking.Board, error)
	TeamReport(ctx context.Context, team int, q types.Query) (service.TeamReport, error)
	ProjectTeams(ctx context.Context, red, blue []int, q types.Query) (projection.Result, error)
	MatchSummary(ctx context.Context, match int, level string, source types.Source) (summary.Match, error)
}

// RankingsArgs are the team_rankings arguments.
type RankingsArgs struct {
	Source string `json:"source,omitempty" jsonschema:"Record source: live or prescout (default live)"`
	Mode   string `json:"mode,omitempty" jsonschema:"Aggregation: average, top50 or best (default average)"`
	Zero   string `json:"zero,omitempty" jsonschema:"Zero handling: include or exclude (default include)"`
	Metric string `json:"metric,omitempty" jsonschema:"Ranking metric: epa (points) or count (game pieces)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max teams per ranking (0 = server maximum)"`
}

// TeamReportArgs are the team_report arguments.
type TeamReportArgs struct {
	Team   int    `json:"team" jsonschema:"FRC team number, e.g. 254"`
	Source string `json:"source,omitempty" jsonschema:"Record source: live or prescout (default live)"`
	Mode   string `json:"mode,omitempty" jsonschema:"Aggregation: average, top50 or best (default average)"`
	Zero   string `json:"zero,omitempty" jsonschema:"Zero handling: include or exclude (default include)"`
}

// ProjectArgs are the project_alliances arguments.
type ProjectArgs struct {
	Red    []int  `json:"red" jsonschema:"Red alliance team numbers (1 to 3)"`
	Blue   []int  `json:"blue" jsonschema:"Blue alliance team numbers (1 to 3)"`
	Source string `json:"source,omitempty" jsonschema:"Record source: live or prescout (default live)"`
	Mode   string `json:"mode,omitempty" jsonschema:"Aggregation: average, top50 or best (default average)"`
	Zero   string `json:"zero,omitempty" jsonschema:"Zero handling: include or exclude (default include)"`
}

// MatchSummaryArgs are the match_summary arguments.
type MatchSummaryArgs struct {
	Match  int    `json:"match" jsonschema:"Match number"`
	Level  string `json:"level,omitempty" jsonschema:"Competition level: qm, sf or f (default qm)"`
	Source string `json:"source,omitempty" jsonschema:"Record source: live or prescout (default live)"`
}

// NewServer registers every tool on a new MCP server.
func NewServer(b Backend, version string, log logger.Logger) *mcp.Server {
	if log == nil {
		log = logger.Nop()
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "reefscout", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_rankings",
		Description: "Ranks scouted teams overall and by auton, teleop and defense",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args RankingsArgs) (*mcp.CallToolResult, any, error) {
		q, err := types.ParseQuery(b.Defaults(), args.Source, args.Mode, args.Zero, args.Metric)
		if err != nil {
			return toolError(ctx, log, "team_rankings", err), nil, nil
		}
		board, err := b.Rankings(ctx, q, args.Limit)
		if err != nil {
			return toolError(ctx, log, "team_rankings", err), nil, nil
		}
		return toolJSON(board), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_report",
		Description: "Aggregated statistics, abilities and match list for one team",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args TeamReportArgs) (*mcp.CallToolResult, any, error) {
		if args.Team <= 0 {
			return toolError(ctx, log, "team_report", errors.New("team is required")), nil, nil
		}
		q, err := types.ParseQuery(b.Defaults(), args.Source, args.Mode, args.Zero, "")
		if err != nil {
			return toolError(ctx, log, "team_report", err), nil, nil
		}
		rep, err := b.TeamReport(ctx, args.Team, q)
		if err != nil {
			return toolError(ctx, log, "team_report", err), nil, nil
		}
		return toolJSON(rep), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "project_alliances",
		Description: "Win probability and expected scores for a red vs blue line-up",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, any, error) {
		q, err := types.ParseQuery(b.Defaults(), args.Source, args.Mode, args.Zero, "")
		if err != nil {
			return toolError(ctx, log, "project_alliances", err), nil, nil
		}
		res, err := b.ProjectTeams(ctx, args.Red, args.Blue, q)
		if err != nil {
			return toolError(ctx, log, "project_alliances", err), nil, nil
		}
		return toolJSON(res), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "match_summary",
		Description: "Ability brief for every team in a scheduled match",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args MatchSummaryArgs) (*mcp.CallToolResult, any, error) {
		if args.Match <= 0 {
			return toolError(ctx, log, "match_summary", errors.New("match is required")), nil, nil
		}
		src := b.Defaults().Source
		if args.Source != "" {
			var err error
			if src, err = types.ParseSource(args.Source); err != nil {
				return toolError(ctx, log, "match_summary", err), nil, nil
			}
		}
		level := args.Level
		if level == "" {
			level = "qm"
		}
		res, err := b.MatchSummary(ctx, args.Match, level, src)
		if err != nil {
			return toolError(ctx, log, "match_summary", err), nil, nil
		}
		return toolJSON(res), nil, nil
	})

	return server
}

// Handler serves server over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func toolJSON(v any) *mcp.CallToolResult {
	b, _ := json.MarshalIndent(v, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

func toolError(ctx context.Context, log logger.Logger, tool string, err error) *mcp.CallToolResult {
	metrics.RecordErrorByComponent("mcp", tool)
	log.Warn(ctx, "tool failed", logger.String("tool", tool), logger.Error(err))
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
