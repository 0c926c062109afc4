package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// TrendsTool handles the pragati_trends tool.
type TrendsTool struct {
	svc Service
}

// NewTrendsTool creates a TrendsTool.
func NewTrendsTool(svc Service) *TrendsTool {
	return &TrendsTool{svc: svc}
}

// Definition returns the MCP tool definition for pragati_trends.
func (t *TrendsTool) Definition() mcp.Tool {
	return mcp.NewTool("pragati_trends",
		mcp.WithDescription("Daily average productivity per department."),
		mcp.WithString("time_range",
			mcp.Description("week, month (default), quarter or year"),
			mcp.Enum("week", "month", "quarter", "year"),
		),
		mcp.WithString("department",
			mcp.Description("Department name, or all (default)"),
		),
	)
}

// Handle processes the pragati_trends tool call.
func (t *TrendsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeRange := req.GetString("time_range", "month")
	points, err := t.svc.ProductivityTrends(ctx, timeRange, req.GetString("department", "all"))
	if err != nil {
		return failure("trends", err), nil
	}
	if len(points) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No updates in the last %s.", timeRange)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Productivity (%s)\n\n", timeRange)
	sb.WriteString("| Date | Department | Productivity | Updates |\n|---|---|---|---|\n")
	for _, p := range points {
		fmt.Fprintf(&sb, "| %s | %s | %.2f | %d |\n", p.Date, p.Department, p.Productivity, p.Updates)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// DepartmentsTool handles the pragati_departments tool.
type DepartmentsTool struct {
	svc Service
}

// NewDepartmentsTool creates a DepartmentsTool.
func NewDepartmentsTool(svc Service) *DepartmentsTool {
	return &DepartmentsTool{svc: svc}
}

// Definition returns the MCP tool definition for pragati_departments.
func (t *DepartmentsTool) Definition() mcp.Tool {
	return mcp.NewTool("pragati_departments",
		mcp.WithDescription("List the departments that have members."),
	)
}

// Handle processes the pragati_departments tool call.
func (t *DepartmentsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := t.svc.Departments(ctx)
	if err != nil {
		return failure("departments", err), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("No departments yet."), nil
	}
	return mcp.NewToolResultText("Departments: " + strings.Join(names, ", ")), nil
}
