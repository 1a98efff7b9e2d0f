package gamesession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/internal/app/service/accessgate"
	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/metrics"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

type sessionBackendStub struct {
	subsapi.ClientAPI

	canPlay   bool
	accessErr error

	deductErr   error
	deductCalls int
	deductHours float64
}

func (s *sessionBackendStub) CheckAccess(ctx context.Context, userID string) (*types.AccessResult, error) {
	if s.accessErr != nil {
		return nil, s.accessErr
	}
	return &types.AccessResult{CanPlay: s.canPlay}, nil
}

func (s *sessionBackendStub) DeductHours(ctx context.Context, userID string, hours float64) error {
	s.deductCalls++
	s.deductHours = hours
	return s.deductErr
}

func newTestRegistry(stub *sessionBackendStub) *Registry {
	log := zap.NewNop().Sugar()
	gate := accessgate.NewService(stub, log, metrics.NewGateway(log))
	cfg := &config.Config{Session: config.SessionConfig{BillingGranularityMinutes: 15}}
	return NewRegistry(stub, gate, cfg, log)
}

func TestBegin(t *testing.T) {
	r := newTestRegistry(&sessionBackendStub{canPlay: true})

	s, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "user-1/valorant", s.IdempotencyKey)
	assert.Equal(t, 1, r.Live())
}

func TestBegin_AccessDenied(t *testing.T) {
	tests := []struct {
		name string
		stub *sessionBackendStub
	}{
		{"backend denies", &sessionBackendStub{canPlay: false}},
		{"check fails", &sessionBackendStub{accessErr: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(tt.stub)
			_, err := r.Begin(context.Background(), "user-1", "valorant")
			require.ErrorIs(t, err, ErrAccessDenied)
			assert.Zero(t, r.Live())
		})
	}
}

func TestBegin_Idempotent(t *testing.T) {
	r := newTestRegistry(&sessionBackendStub{canPlay: true})

	first, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)
	second, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, r.Live())

	// A different game is a different slot.
	other, err := r.Begin(context.Background(), "user-1", "fortnite")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 2, r.Live())
}

func TestEnd_DeductsRoundedHours(t *testing.T) {
	stub := &sessionBackendStub{canPlay: true}
	r := newTestRegistry(stub)

	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	r.nowFn = func() time.Time { return start }
	s, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)

	// 50 minutes of play bills as a full hour at 15-minute granularity.
	r.nowFn = func() time.Time { return start.Add(50 * time.Minute) }
	report, err := r.End(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, 50, report.PlayedMinutes)
	assert.Equal(t, 1.0, report.BilledHours)
	assert.True(t, report.HoursDeducted)
	assert.Equal(t, 1.0, stub.deductHours)
	assert.Zero(t, r.Live())
	assert.Empty(t, r.Unbilled())
}

func TestEnd_ClearsIdempotencyKey(t *testing.T) {
	r := newTestRegistry(&sessionBackendStub{canPlay: true})

	first, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)
	_, err = r.End(context.Background(), first.ID)
	require.NoError(t, err)

	// The slot is free again; a new start creates a fresh session.
	second, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEnd_DeductionFailureStillTearsDown(t *testing.T) {
	stub := &sessionBackendStub{canPlay: true, deductErr: errors.New("connection refused")}
	r := newTestRegistry(stub)

	start := time.Now()
	r.nowFn = func() time.Time { return start }
	s, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)

	r.nowFn = func() time.Time { return start.Add(20 * time.Minute) }
	report, err := r.End(context.Background(), s.ID)
	require.Error(t, err)
	require.NotNil(t, report)
	assert.False(t, report.HoursDeducted)
	assert.Zero(t, r.Live())

	// The unbilled play time stays on record for reconciliation.
	unbilled := r.Unbilled()
	require.Len(t, unbilled, 1)
	assert.Equal(t, "user-1", unbilled[0].UserID)
	assert.Equal(t, 0.5, unbilled[0].BilledHours)
}

func TestEnd_UnknownSession(t *testing.T) {
	r := newTestRegistry(&sessionBackendStub{canPlay: true})
	_, err := r.End(context.Background(), "no-such-session")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEnd_InstantSessionBillsNothing(t *testing.T) {
	stub := &sessionBackendStub{canPlay: true}
	r := newTestRegistry(stub)

	now := time.Now()
	r.nowFn = func() time.Time { return now }
	s, err := r.Begin(context.Background(), "user-1", "valorant")
	require.NoError(t, err)

	report, err := r.End(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Zero(t, report.BilledHours)
	assert.Zero(t, stub.deductCalls)
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, 0},
		{1 * time.Minute, 15 * time.Minute},
		{15 * time.Minute, 15 * time.Minute},
		{16 * time.Minute, 30 * time.Minute},
		{50 * time.Minute, 60 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundUp(tt.in, 15*time.Minute), "roundUp(%v)", tt.in)
	}
}
