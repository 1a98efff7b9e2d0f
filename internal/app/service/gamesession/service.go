package gamesession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/internal/app/service/accessgate"
	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/logctx"
	"github.com/rekoonads/sweven-games-gateway/pkg/tool"
)

var (
	// ErrAccessDenied means the access gate refused the session.
	ErrAccessDenied = errors.New("access denied")
	// ErrSessionNotFound means no live session exists for the given id.
	ErrSessionNotFound = errors.New("session not found")
)

// Session is one live streaming session. IdempotencyKey identifies the
// (user, game) slot: it is set when the session is created and cleared on
// teardown, so repeated start requests for the same game reuse the session
// instead of creating duplicates.
type Session struct {
	ID             string    `json:"sessionId"`
	IdempotencyKey string    `json:"idempotencyKey"`
	UserID         string    `json:"userId"`
	GameID         string    `json:"gameId"`
	StartedAt      time.Time `json:"startedAt"`
}

// EndReport summarizes a finished session.
type EndReport struct {
	SessionID     string  `json:"sessionId"`
	UserID        string  `json:"userId"`
	PlayedMinutes int     `json:"playedMinutes"`
	BilledHours   float64 `json:"billedHours"`
	HoursDeducted bool    `json:"hoursDeducted"`
}

// Registry owns session lifecycle: access-gated creation with idempotency
// keys, and teardown with play-time deduction. The media transport itself is
// external; the registry only brokers sessions for it.
type Registry struct {
	api         subsapi.ClientAPI
	gate        *accessgate.Service
	log         *zap.SugaredLogger
	granularity time.Duration

	mu       sync.Mutex
	byKey    map[string]*Session
	byID     map[string]*Session
	unbilled []*EndReport
	nowFn    func() time.Time
}

func NewRegistry(api subsapi.ClientAPI, gate *accessgate.Service, cfg *config.Config, log *zap.SugaredLogger) *Registry {
	gran := time.Duration(cfg.Session.BillingGranularityMinutes) * time.Minute
	if gran <= 0 {
		gran = 15 * time.Minute
	}
	return &Registry{
		api:         api,
		gate:        gate,
		log:         log,
		granularity: gran,
		byKey:       make(map[string]*Session),
		byID:        make(map[string]*Session),
		nowFn:       time.Now,
	}
}

func sessionKey(userID, gameID string) string {
	return userID + "/" + gameID
}

// Begin re-verifies access and returns a session for (userID, gameID). A
// second Begin for the same pair while the first session is live returns the
// existing session unchanged.
func (r *Registry) Begin(ctx context.Context, userID, gameID string) (*Session, error) {
	if userID == "" || gameID == "" {
		return nil, fmt.Errorf("invalid params: userID and gameID required")
	}

	decision := r.gate.Check(ctx, userID)
	if !decision.Granted() {
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, decision.Message)
	}

	key := sessionKey(userID, gameID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byKey[key]; ok {
		logctx.FromCtx(ctx, r.log).Infow("reusing live session",
			"session_id", existing.ID, "user_id", userID, "game_id", gameID)
		return existing, nil
	}

	s := &Session{
		ID:             tool.GenerateUUIDV7(),
		IdempotencyKey: key,
		UserID:         userID,
		GameID:         gameID,
		StartedAt:      r.nowFn(),
	}
	r.byKey[key] = s
	r.byID[s.ID] = s

	logctx.FromCtx(ctx, r.log).Infow("session started",
		"session_id", s.ID, "user_id", userID, "game_id", gameID)
	return s, nil
}

// End tears down a session: play time is rounded up to the billing
// granularity and deducted from the subscription. The session and its
// idempotency key are removed even when the deduction fails, so a stuck
// backend never leaks a session slot; the unbilled report is retained and
// exposed through Unbilled for reconciliation.
func (r *Registry) End(ctx context.Context, sessionID string) (*EndReport, error) {
	r.mu.Lock()
	s, ok := r.byID[sessionID]
	if ok {
		delete(r.byID, sessionID)
		delete(r.byKey, s.IdempotencyKey)
	}
	r.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	played := r.nowFn().Sub(s.StartedAt)
	if played < 0 {
		played = 0
	}
	billed := roundUp(played, r.granularity)
	report := &EndReport{
		SessionID:     s.ID,
		UserID:        s.UserID,
		PlayedMinutes: int(played.Minutes()),
		BilledHours:   billed.Hours(),
	}

	if billed <= 0 {
		return report, nil
	}

	if err := r.api.DeductHours(ctx, s.UserID, billed.Hours()); err != nil {
		r.mu.Lock()
		r.unbilled = append(r.unbilled, report)
		r.mu.Unlock()
		logctx.FromCtx(ctx, r.log).Errorw("hour deduction failed, report queued for reconciliation",
			"session_id", s.ID, "user_id", s.UserID, "hours", billed.Hours(), "err", err)
		return report, fmt.Errorf("deduct hours: %w", err)
	}
	report.HoursDeducted = true

	logctx.FromCtx(ctx, r.log).Infow("session ended",
		"session_id", s.ID, "user_id", s.UserID, "billed_hours", billed.Hours())
	return report, nil
}

// Live returns the number of live sessions.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Unbilled returns the reports whose hour deduction failed, so an operator
// or a retry job can reconcile them against the backend.
func (r *Registry) Unbilled() []*EndReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*EndReport, len(r.unbilled))
	copy(out, r.unbilled)
	return out
}

func roundUp(d, unit time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	rounded := d.Round(unit)
	if rounded < d {
		rounded += unit
	}
	return rounded
}
