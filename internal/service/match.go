package service

import (
	"context"
	"fmt"
	"time"

	"b2gmatch/internal/logger"
	"b2gmatch/internal/model"

	"go.uber.org/zap"
)

// DefaultPoolSize caps how many open opportunities are scored per request
const DefaultPoolSize = 100

// OpportunitySource supplies the pool of open opportunities
type OpportunitySource interface {
	ListOpen(ctx context.Context, now time.Time, limit int) ([]model.Opportunity, error)
}

// MatchService handles opportunity matching business logic
type MatchService struct {
	source   OpportunitySource
	engine   *Engine
	poolSize int
	logger   *zap.Logger
	now      func() time.Time
}

// NewMatchService creates a new match service
func NewMatchService(
	source OpportunitySource,
	engine *Engine,
	poolSize int,
	log *zap.Logger,
) *MatchService {
	if engine == nil {
		engine = NewEngine(DefaultMinScore, DefaultMaxResults)
	}
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &MatchService{
		source:   source,
		engine:   engine,
		poolSize: poolSize,
		logger:   logger.OrNop(log),
		now:      time.Now,
	}
}

// WithClock overrides the time used to decide which opportunities are open
func (s *MatchService) WithClock(now func() time.Time) *MatchService {
	s.now = now
	return s
}

// Match validates the profile, fetches the open pool and ranks it
func (s *MatchService) Match(ctx context.Context, profile *model.ContractorProfile) (*model.MatchResponse, error) {
	startTime := time.Now()

	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}

	pool, err := s.source.ListOpen(ctx, s.now(), s.poolSize)
	if err != nil {
		s.logger.Error("fetching opportunities failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetchOpportunities, err)
	}

	matches, err := s.engine.ScoreAndRank(profile, pool)
	if err != nil {
		return nil, err
	}

	took := time.Since(startTime)
	s.logger.Info("opportunities matched",
		zap.String("primary_naics", profile.PrimaryNAICS),
		zap.Int("pool_size", len(pool)),
		zap.Int("matches", len(matches)),
		zap.Duration("took", took),
	)

	return &model.MatchResponse{
		Matches:     matches,
		TotalScored: len(pool),
		Took:        took.Milliseconds(),
	}, nil
}
