package paymentreturn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/metrics"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

// statusStub serves a scripted sequence of payment statuses. Calls past the
// end of the script keep returning the last entry.
type statusStub struct {
	subsapi.ClientAPI

	statuses  []types.PaymentTransactionStatus
	err       error
	nilResult bool
	calls     int
}

func (s *statusStub) GetPaymentStatus(ctx context.Context, orderID string) (*types.PaymentStatusResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.nilResult {
		return nil, nil
	}
	i := s.calls - 1
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	return &types.PaymentStatusResult{
		Transaction: types.PaymentTransaction{Status: s.statuses[i]},
	}, nil
}

func newTestPoller(api subsapi.ClientAPI, maxAttempts int) *Poller {
	cfg := &config.Config{
		PaymentReturn: config.PaymentReturnConfig{
			GraceDelaySeconds:   0,
			PollIntervalSeconds: 0,
			MaxAttempts:         maxAttempts,
		},
	}
	log := zap.NewNop().Sugar()
	return NewPoller(api, cfg, log, metrics.NewGateway(log))
}

func TestAwait_SuccessAfterPending(t *testing.T) {
	stub := &statusStub{statuses: []types.PaymentTransactionStatus{
		types.PaymentTransactionStatusPending,
		types.PaymentTransactionStatusPending,
		types.PaymentTransactionStatusSuccess,
	}}
	p := newTestPoller(stub, 20)

	res := p.Await(context.Background(), "order-1")
	assert.Equal(t, StatusSucceeded, res.Status)
	assert.Equal(t, "order-1", res.OrderID)
	assert.Equal(t, 3, res.Attempts)
	// No further requests once the status is terminal.
	assert.Equal(t, 3, stub.calls)
}

func TestAwait_FailedIsTerminal(t *testing.T) {
	stub := &statusStub{statuses: []types.PaymentTransactionStatus{
		types.PaymentTransactionStatusFailed,
	}}
	p := newTestPoller(stub, 20)

	res := p.Await(context.Background(), "order-1")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 1, stub.calls)
}

func TestAwait_MissingOrderID(t *testing.T) {
	stub := &statusStub{}
	p := newTestPoller(stub, 20)

	res := p.Await(context.Background(), "")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "Order ID not found", res.Message)
	assert.Zero(t, stub.calls)
}

func TestAwait_StatusCheckError(t *testing.T) {
	stub := &statusStub{err: errors.New("connection refused")}
	p := newTestPoller(stub, 20)

	res := p.Await(context.Background(), "order-1")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, stub.calls)
}

func TestAwait_EmptyStatusPayload(t *testing.T) {
	stub := &statusStub{nilResult: true}
	p := newTestPoller(stub, 20)

	res := p.Await(context.Background(), "order-1")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "Unable to verify payment status. Please contact support.", res.Message)
	assert.Equal(t, 1, stub.calls)
}

func TestAwait_BudgetExhausted(t *testing.T) {
	stub := &statusStub{statuses: []types.PaymentTransactionStatus{
		types.PaymentTransactionStatusPending,
	}}
	p := newTestPoller(stub, 4)

	res := p.Await(context.Background(), "order-1")
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, 4, stub.calls)
}

func TestAwait_ContextCancelled(t *testing.T) {
	stub := &statusStub{statuses: []types.PaymentTransactionStatus{
		types.PaymentTransactionStatusPending,
	}}
	p := newTestPoller(stub, 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.Await(ctx, "order-1")
	require.Equal(t, StatusUnknown, res.Status)
	assert.Zero(t, stub.calls)
}

func TestAwait_DefaultAttemptBudget(t *testing.T) {
	stub := &statusStub{statuses: []types.PaymentTransactionStatus{
		types.PaymentTransactionStatusPending,
	}}
	p := newTestPoller(stub, 0)

	res := p.Await(context.Background(), "order-1")
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Equal(t, 20, stub.calls)
}
