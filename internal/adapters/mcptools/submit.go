package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/okian/pragati/internal/domain/types"
)

// SubmitTool handles the pragati_submit tool.
type SubmitTool struct {
	svc Service
}

// NewSubmitTool creates a SubmitTool.
func NewSubmitTool(svc Service) *SubmitTool {
	return &SubmitTool{svc: svc}
}

// Definition returns the MCP tool definition for pragati_submit.
func (t *SubmitTool) Definition() mcp.Tool {
	return mcp.NewTool("pragati_submit",
		mcp.WithDescription("Queue a status update for analysis."),
		mcp.WithString("team_member",
			mcp.Required(),
			mcp.Description(`Author as "Name - Role", e.g. "Sarah Chen - Developer"`),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Update text, 10 to 2000 characters"),
		),
		mcp.WithString("submission_id",
			mcp.Description("Idempotency key; resubmitting the same id is a no-op"),
		),
	)
}

// Handle processes the pragati_submit tool call.
func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	member, err := req.RequireString("team_member")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := t.svc.Submit(ctx, types.SubmitRequest{
		SubmissionID: req.GetString("submission_id", ""),
		TeamMember:   member,
		Text:         text,
	})
	if err != nil {
		return failure("submission", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Submission %s %s.", resp.SubmissionID, resp.Status)), nil
}
