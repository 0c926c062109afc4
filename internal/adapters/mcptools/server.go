// Package mcptools exposes the update analyses as MCP tools.
//
// Each tool follows the same shape: a struct holding the Service,
// Definition() returning the tool schema and Handle() answering a call with
// a Markdown summary. Caller mistakes come back as tool errors, not Go errors.
package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	service "github.com/okian/pragati/internal/app"
	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/internal/domain/types"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Service is the part of the analysis service the tools call.
type Service interface {
	Submit(ctx context.Context, req types.SubmitRequest) (types.SubmitResponse, error)
	Ratings(ctx context.Context, period string) (model.PerformanceReport, error)
	ProductivityTrends(ctx context.Context, timeRange, department string) ([]model.TrendPoint, error)
	Departments(ctx context.Context) ([]string, error)
	RepeatedKeywords(ctx context.Context, days int) (types.KeywordReport, error)
	Stalls(ctx context.Context, days int, threshold *float64) (model.StallReport, error)
}

// New builds an MCP server with every tool registered.
func New(svc Service) *server.MCPServer {
	s := server.NewMCPServer(
		"pragati",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	ratings := NewRatingsTool(svc)
	s.AddTool(ratings.Definition(), ratings.Handle)

	trends := NewTrendsTool(svc)
	s.AddTool(trends.Definition(), trends.Handle)

	departments := NewDepartmentsTool(svc)
	s.AddTool(departments.Definition(), departments.Handle)

	keywords := NewKeywordsTool(svc)
	s.AddTool(keywords.Definition(), keywords.Handle)

	stalls := NewStallsTool(svc)
	s.AddTool(stalls.Definition(), stalls.Handle)

	submit := NewSubmitTool(svc)
	s.AddTool(submit.Definition(), submit.Handle)

	return s
}

const instructions = `Pragati analyzes weekly status updates written by team members.
Use pragati_ratings for tiered member scores, pragati_trends for daily
productivity, pragati_keywords and pragati_stalls to spot members who keep
reporting the same work, and pragati_submit to record a new update.`

// failure turns a service error into a tool result. Invalid input is shown
// verbatim; anything else is reported without internals.
func failure(what string, err error) *mcp.CallToolResult {
	if errors.Is(err, service.ErrInvalidRequest) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed", what))
}

// intArg extracts an integer argument, returning def when it is missing or
// not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, def int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return def
	}
	return int(v)
}

// floatArg extracts an optional number argument.
func floatArg(req mcp.CallToolRequest, key string) *float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	return &v
}
