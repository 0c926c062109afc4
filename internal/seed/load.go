package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pragati/internal/domain/types"
	"github.com/okian/pragati/pkg/logger"
)

// LoadConfig configures a submission run against a live service.
type LoadConfig struct {
	BaseURL string        // Base URL of the service
	Workers int           // Number of concurrent submitters
	Timeout time.Duration // HTTP request timeout
}

// LoadStats counts submission outcomes.
type LoadStats struct {
	Submitted    int
	Accepted     int
	Duplicate    int
	Backpressure int
	Failed       int
	Duration     time.Duration
}

// submission outcomes
const (
	outcomeAccepted     = "accepted"
	outcomeDuplicate    = "duplicate"
	outcomeBackpressure = "backpressure"
	outcomeFailed       = "failed"
)

// Load submits updates to POST /updates concurrently. The service stamps
// each update with its arrival time, so Timestamp is not sent.
func Load(ctx context.Context, cfg LoadConfig, updates []Update) (LoadStats, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log := logger.Get().Named("seed")
	log.Info(ctx, "submitting updates", logger.Int("count", len(updates)), logger.Int("workers", cfg.Workers),
		logger.String("baseURL", cfg.BaseURL))

	client := &http.Client{Timeout: cfg.Timeout}
	url := strings.TrimRight(cfg.BaseURL, "/") + "/updates"
	start := time.Now()

	var accepted, duplicate, backpressure, failed, submitted int64
	work := make(chan Update, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range work {
				atomic.AddInt64(&submitted, 1)
				switch submitOne(ctx, client, url, u) {
				case outcomeAccepted:
					atomic.AddInt64(&accepted, 1)
				case outcomeDuplicate:
					atomic.AddInt64(&duplicate, 1)
				case outcomeBackpressure:
					atomic.AddInt64(&backpressure, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

feed:
	for _, u := range updates {
		select {
		case <-ctx.Done():
			break feed
		case work <- u:
		}
	}
	close(work)
	wg.Wait()

	stats := LoadStats{
		Submitted:    int(submitted),
		Accepted:     int(accepted),
		Duplicate:    int(duplicate),
		Backpressure: int(backpressure),
		Failed:       int(failed),
		Duration:     time.Since(start),
	}
	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("backpressure", stats.Backpressure),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration))
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load interrupted: %w", err)
	}
	return stats, nil
}

func submitOne(ctx context.Context, client *http.Client, url string, u Update) string {
	body, err := json.Marshal(types.SubmitRequest{
		SubmissionID: uuid.NewString(),
		TeamMember:   u.Member.TeamMember(),
		Text:         u.Text,
	})
	if err != nil {
		return outcomeFailed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return outcomeFailed
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return outcomeFailed
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		var ack types.SubmitResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &ack) == nil && ack.Duplicate {
			return outcomeDuplicate
		}
		return outcomeAccepted
	case http.StatusTooManyRequests:
		return outcomeBackpressure
	default:
		return outcomeFailed
	}
}
