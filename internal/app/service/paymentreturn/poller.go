package paymentreturn

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/logctx"
	"github.com/rekoonads/sweven-games-gateway/pkg/metrics"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "success"
	StatusFailed     Status = "failed"
	// StatusUnknown means the poll budget ran out (or the caller went away)
	// before the backend settled. The payment may still complete; the user is
	// told to check the subscription page.
	StatusUnknown Status = "unknown"
)

const (
	successMessage     = "Payment successful! Your subscription is now active."
	failedMessage      = "Payment failed. Please try again."
	missingIDMessage   = "Order ID not found"
	unverifiedMessage  = "Unable to verify payment status. Please contact support."
	stillPendingNotice = "We could not confirm your payment yet. It may still complete - please check your subscription page in a few minutes."
)

// Result is the terminal outcome of one payment-return poll.
type Result struct {
	Status   Status `json:"status"`
	OrderID  string `json:"orderId,omitempty"`
	Message  string `json:"message"`
	Attempts int    `json:"attempts"`
}

// Poller resolves the payment outcome after the browser returns from the
// external payment page. The webhook that settles backend state races the
// redirect, so the first check waits out a grace period, then status is
// polled on a fixed interval up to a bounded number of attempts.
type Poller struct {
	api          subsapi.ClientAPI
	log          *zap.SugaredLogger
	metrics      *metrics.Gateway
	graceDelay   time.Duration
	pollInterval time.Duration
	maxAttempts  int
}

func NewPoller(api subsapi.ClientAPI, cfg *config.Config, log *zap.SugaredLogger, m *metrics.Gateway) *Poller {
	p := &Poller{
		api:          api,
		log:          log,
		metrics:      m,
		graceDelay:   time.Duration(cfg.PaymentReturn.GraceDelaySeconds) * time.Second,
		pollInterval: time.Duration(cfg.PaymentReturn.PollIntervalSeconds) * time.Second,
		maxAttempts:  cfg.PaymentReturn.MaxAttempts,
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = 20
	}
	return p
}

// Await blocks until the payment reaches a terminal state, the attempt budget
// is spent, or ctx is cancelled. Exactly one status request is in flight at a
// time, and no requests are issued after a terminal result.
func (p *Poller) Await(ctx context.Context, orderID string) Result {
	if orderID == "" {
		return p.finish(Result{Status: StatusFailed, Message: missingIDMessage})
	}

	log := logctx.FromCtx(ctx, p.log).With("order_id", orderID)

	if !sleepCtx(ctx, p.graceDelay) {
		return p.finish(Result{Status: StatusUnknown, OrderID: orderID, Message: stillPendingNotice})
	}

	attempts := 0
	for attempts < p.maxAttempts {
		attempts++

		st, err := p.api.GetPaymentStatus(ctx, orderID)
		if err != nil || st == nil {
			log.Warnw("payment status check failed", "attempt", attempts, "err", err)
			return p.finish(Result{Status: StatusFailed, OrderID: orderID, Message: unverifiedMessage, Attempts: attempts})
		}

		switch st.Transaction.Status {
		case types.PaymentTransactionStatusSuccess:
			log.Infow("payment confirmed", "attempts", attempts)
			return p.finish(Result{Status: StatusSucceeded, OrderID: orderID, Message: successMessage, Attempts: attempts})
		case types.PaymentTransactionStatusFailed:
			log.Infow("payment failed", "attempts", attempts)
			return p.finish(Result{Status: StatusFailed, OrderID: orderID, Message: failedMessage, Attempts: attempts})
		}

		if attempts == p.maxAttempts {
			break
		}
		if !sleepCtx(ctx, p.pollInterval) {
			return p.finish(Result{Status: StatusUnknown, OrderID: orderID, Message: stillPendingNotice, Attempts: attempts})
		}
	}

	log.Warnw("payment status still pending after poll budget", "attempts", attempts)
	return p.finish(Result{Status: StatusUnknown, OrderID: orderID, Message: stillPendingNotice, Attempts: attempts})
}

func (p *Poller) finish(r Result) Result {
	p.metrics.ObservePaymentPoll(string(r.Status))
	return r
}

// sleepCtx waits for d, returning false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
