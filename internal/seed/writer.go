package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/pkg/logger"
)

// Recorder stores an analyzed submission. *service.Service implements it.
type Recorder interface {
	Record(ctx context.Context, sub model.Submission, a model.Analysis) error
}

// Write records updates directly, skipping the queue and the analyzer.
// It returns how many were written before the first error.
func Write(ctx context.Context, r Recorder, updates []Update) (int, error) {
	for i, u := range updates {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		sub := model.Submission{
			SubmissionID: uuid.NewString(),
			TeamMember:   u.Member.TeamMember(),
			Text:         u.Text,
			ReceivedAt:   u.Timestamp,
		}
		if err := r.Record(ctx, sub, u.Analysis); err != nil {
			return i, fmt.Errorf("record update %d for %s: %w", i, sub.TeamMember, err)
		}
	}
	logger.Get().Named("seed").Info(ctx, "seeded updates", logger.Int("count", len(updates)))
	return len(updates), nil
}
