package accessgate

import (
	"context"

	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/logctx"
	"github.com/rekoonads/sweven-games-gateway/pkg/metrics"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

type State string

const (
	StateChecking State = "checking"
	StateGranted  State = "granted"
	StateDenied   State = "denied"
)

// FallbackDeniedMessage is shown when the access check itself fails and no
// backend-supplied reason exists.
const FallbackDeniedMessage = "Unable to verify subscription. Please try again."

// Decision is the outcome of one access check.
type Decision struct {
	State        State                   `json:"state"`
	Message      string                  `json:"message,omitempty"`
	Subscription *types.UserSubscription `json:"subscription,omitempty"`
}

func (d Decision) Granted() bool { return d.State == StateGranted }

// Service answers "can this user play". Every protected view re-verifies:
// decisions are never cached across checks.
type Service struct {
	api     subsapi.ClientAPI
	log     *zap.SugaredLogger
	metrics *metrics.Gateway
}

func NewService(api subsapi.ClientAPI, log *zap.SugaredLogger, m *metrics.Gateway) *Service {
	return &Service{api: api, log: log, metrics: m}
}

// Check runs a single access verification. Access is granted only on a clean
// backend answer with canPlay true; every failure path denies (fail-closed)
// with a human-readable reason.
func (s *Service) Check(ctx context.Context, userID string) Decision {
	res, err := s.api.CheckAccess(ctx, userID)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("access check failed, denying",
			"user_id", userID, "err", err)
		s.metrics.ObserveAccessCheck("denied")
		return Decision{State: StateDenied, Message: FallbackDeniedMessage}
	}

	if !res.CanPlay {
		msg := res.Message
		if msg == "" {
			msg = FallbackDeniedMessage
		}
		s.metrics.ObserveAccessCheck("denied")
		return Decision{State: StateDenied, Message: msg, Subscription: res.Subscription}
	}

	s.metrics.ObserveAccessCheck("granted")
	return Decision{State: StateGranted, Message: res.Message, Subscription: res.Subscription}
}

// Gate is a per-view instance of the three-state machine
// checking -> granted | denied. Denied is terminal for the instance; a fresh
// verification requires Reset or a new Gate.
type Gate struct {
	svc      *Service
	userID   string
	state    State
	decision Decision
}

func (s *Service) NewGate(userID string) *Gate {
	return &Gate{svc: s, userID: userID, state: StateChecking}
}

// Check resolves the gate if it is still in the checking state and returns
// the decision. Subsequent calls return the settled decision without
// re-querying.
func (g *Gate) Check(ctx context.Context) Decision {
	if g.state != StateChecking {
		return g.decision
	}
	g.decision = g.svc.Check(ctx, g.userID)
	g.state = g.decision.State
	return g.decision
}

func (g *Gate) State() State { return g.state }

// Reset re-arms the gate for a new verification, e.g. after the user changes
// or the caller explicitly refreshes.
func (g *Gate) Reset(userID string) {
	g.userID = userID
	g.state = StateChecking
	g.decision = Decision{}
}
