package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"b2gmatch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	opportunities []model.Opportunity
	err           error

	calls     int
	lastNow   time.Time
	lastLimit int
}

func (f *fakeSource) ListOpen(_ context.Context, now time.Time, limit int) ([]model.Opportunity, error) {
	f.calls++
	f.lastNow = now
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.opportunities, nil
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestMatchService_Match(t *testing.T) {
	source := &fakeSource{opportunities: []model.Opportunity{
		{ID: "match", NAICS: model.NAICSList("541512"), State: strPtr("DC"), Deadline: fixedNow.Add(time.Hour)},
		{ID: "miss", NAICS: model.NAICSList("236220"), Deadline: fixedNow.Add(2 * time.Hour)},
	}}
	core, observed := observer.New(zapcore.InfoLevel)

	svc := NewMatchService(source, NewEngine(DefaultMinScore, DefaultMaxResults), 0, zap.New(core)).WithClock(func() time.Time { return fixedNow })

	resp, err := svc.Match(context.Background(), baseContractor())
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "match", resp.Matches[0].ID)
	assert.Equal(t, model.DefaultAgency, resp.Matches[0].Agency)
	assert.Equal(t, 2, resp.TotalScored)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, fixedNow, source.lastNow)
	assert.Equal(t, DefaultPoolSize, source.lastLimit)

	entries := observed.FilterMessage("opportunities matched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["matches"])
}

func TestMatchService_EmptyPoolIsNotAnError(t *testing.T) {
	svc := NewMatchService(&fakeSource{}, nil, 25, nil)

	resp, err := svc.Match(context.Background(), baseContractor())
	require.NoError(t, err)

	assert.NotNil(t, resp.Matches)
	assert.Empty(t, resp.Matches)
	assert.Equal(t, 0, resp.TotalScored)
}

func TestMatchService_FetchFailure(t *testing.T) {
	upstream := errors.New("connection refused")
	svc := NewMatchService(&fakeSource{err: upstream}, nil, 0, nil)

	_, err := svc.Match(context.Background(), baseContractor())

	assert.ErrorIs(t, err, ErrFetchOpportunities)
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrInvalidProfile)
}

func TestMatchService_InvalidProfileSkipsFetch(t *testing.T) {
	source := &fakeSource{}
	svc := NewMatchService(source, nil, 0, nil)

	_, err := svc.Match(context.Background(), &model.ContractorProfile{})

	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.Equal(t, 0, source.calls)
}

func TestMatchService_PassesPoolSize(t *testing.T) {
	source := &fakeSource{}
	svc := NewMatchService(source, nil, 40, nil)

	_, err := svc.Match(context.Background(), baseContractor())
	require.NoError(t, err)
	assert.Equal(t, 40, source.lastLimit)
}
