package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"b2gmatch/internal/logger"
	"b2gmatch/internal/model"

	"go.uber.org/zap"
)

// FileRepository serves opportunities from a JSON export
type FileRepository struct {
	opportunities []model.Opportunity
}

// NewFileRepository reads a JSON array of opportunities from path.
// Records that fail to decode are logged and skipped.
func NewFileRepository(path string, log *zap.Logger) (*FileRepository, error) {
	log = logger.OrNop(log)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read opportunities file '%s': %w", path, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse opportunities file '%s': %w", path, err)
	}

	opportunities := make([]model.Opportunity, 0, len(records))
	for i, record := range records {
		var opp model.Opportunity
		if err := json.Unmarshal(record, &opp); err != nil {
			log.Warn("skipping malformed opportunity",
				zap.String("file", path),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		opportunities = append(opportunities, opp)
	}

	return NewMemoryRepository(opportunities), nil
}

// NewMemoryRepository serves the given opportunities
func NewMemoryRepository(opportunities []model.Opportunity) *FileRepository {
	return &FileRepository{opportunities: opportunities}
}

// ListOpen returns up to limit opportunities with deadline >= now,
// soonest deadline first. Records sharing a deadline keep file order.
func (r *FileRepository) ListOpen(ctx context.Context, now time.Time, limit int) ([]model.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	open := make([]model.Opportunity, 0, len(r.opportunities))
	for _, opp := range r.opportunities {
		if opp.Deadline.Before(now) {
			continue
		}
		open = append(open, opp)
	}

	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Deadline.Before(open[j].Deadline)
	})

	if limit > 0 && len(open) > limit {
		open = open[:limit]
	}
	return open, nil
}
