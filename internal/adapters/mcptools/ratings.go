package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/okian/pragati/internal/domain/model"
)

// RatingsTool handles the pragati_ratings tool.
type RatingsTool struct {
	svc Service
}

// NewRatingsTool creates a RatingsTool.
func NewRatingsTool(svc Service) *RatingsTool {
	return &RatingsTool{svc: svc}
}

// Definition returns the MCP tool definition for pragati_ratings.
func (t *RatingsTool) Definition() mcp.Tool {
	return mcp.NewTool("pragati_ratings",
		mcp.WithDescription("Score and tier every member with updates in the period."),
		mcp.WithString("period",
			mcp.Description("Evaluation period: 30d (default), 90d, 180d or 365d"),
			mcp.Enum("30d", "90d", "180d", "365d"),
		),
	)
}

// Handle processes the pragati_ratings tool call.
func (t *RatingsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.svc.Ratings(ctx, req.GetString("period", "30d"))
	if err != nil {
		return failure("ratings", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Ratings (%s)\n\n", report.EvaluationPeriod)
	if report.TotalEmployees == 0 {
		sb.WriteString("No member posted updates in this period.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	fmt.Fprintf(&sb, "%d members rated.\n", report.TotalEmployees)
	writeTier(&sb, model.TierTop, report.TopPerformers)
	writeTier(&sb, model.TierStrong, report.StrongPerformers)
	writeTier(&sb, model.TierRest, report.OtherPerformers)
	return mcp.NewToolResultText(sb.String()), nil
}

func writeTier(sb *strings.Builder, tier model.Tier, members []model.EmployeePerformance) {
	if len(members) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n### %s\n", tier)
	for _, m := range members {
		fmt.Fprintf(sb, "%d. **%s** (%s, %s): %.3f\n", m.Ranking, m.Name, m.Role, m.Department, m.OverallScore)
	}
}
