package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// KeywordsTool handles the pragati_keywords tool.
type KeywordsTool struct {
	svc Service
}

// NewKeywordsTool creates a KeywordsTool.
func NewKeywordsTool(svc Service) *KeywordsTool {
	return &KeywordsTool{svc: svc}
}

// Definition returns the MCP tool definition for pragati_keywords.
func (t *KeywordsTool) Definition() mcp.Tool {
	return mcp.NewTool("pragati_keywords",
		mcp.WithDescription("Find members whose consecutive updates keep repeating the same keywords."),
		mcp.WithNumber("days",
			mcp.Description("Lookback in days, 1 to 365 (default: configured lookback)"),
		),
	)
}

// Handle processes the pragati_keywords tool call.
func (t *KeywordsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.svc.RepeatedKeywords(ctx, intArg(req, "days", 0))
	if err != nil {
		return failure("keyword analysis", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Repeated keywords (%s, min %d)\n\n", report.AnalysisPeriod, report.MinOccurrences)
	if report.Degraded {
		sb.WriteString("_Lemmatizer unavailable; keywords were not reduced to their base form._\n\n")
	}
	if len(report.Results) == 0 {
		sb.WriteString("No repeated keywords.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	for _, r := range report.Results {
		words := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			words = append(words, fmt.Sprintf("%s (%d/%d)", k.Keyword, k.RepeatCount, k.TotalUpdates))
		}
		fmt.Fprintf(&sb, "- **%s**: %s\n", r.Member, strings.Join(words, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// StallsTool handles the pragati_stalls tool.
type StallsTool struct {
	svc Service
}

// NewStallsTool creates a StallsTool.
func NewStallsTool(svc Service) *StallsTool {
	return &StallsTool{svc: svc}
}

// Definition returns the MCP tool definition for pragati_stalls.
func (t *StallsTool) Definition() mcp.Tool {
	return mcp.NewTool("pragati_stalls",
		mcp.WithDescription("Find consecutive updates that say nearly the same thing while productivity does not improve."),
		mcp.WithNumber("days",
			mcp.Description("Lookback in days, 1 to 365 (default: configured lookback)"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Cosine similarity threshold in [-1, 1] (default: configured threshold)"),
		),
	)
}

// Handle processes the pragati_stalls tool call.
func (t *StallsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.svc.Stalls(ctx, intArg(req, "days", 0), floatArg(req, "threshold"))
	if err != nil {
		return failure("stall detection", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Stalls (%s, threshold %.2f)\n\n", report.AnalysisPeriod, report.Threshold)
	stalled := 0
	for _, r := range report.Results {
		if len(r.StalledPeriods) == 0 {
			continue
		}
		stalled++
		fmt.Fprintf(&sb, "- **%s**: %d stalled of %d comparisons, mean similarity %.2f\n",
			r.Member, len(r.StalledPeriods), r.Comparisons, r.MeanSimilarity)
		for _, p := range r.StalledPeriods {
			fmt.Fprintf(&sb, "  - %s → %s: similarity %.2f, productivity %.2f → %.2f\n",
				p.FirstTimestamp.Format("2006-01-02"), p.SecondTimestamp.Format("2006-01-02"),
				p.Similarity, p.FirstScore, p.SecondScore)
		}
	}
	if stalled == 0 {
		sb.WriteString("No stalled periods.\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
