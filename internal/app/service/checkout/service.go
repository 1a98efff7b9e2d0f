package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/logctx"
	"github.com/rekoonads/sweven-games-gateway/pkg/metrics"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

var (
	// ErrSignInRequired means a purchase was attempted without an identity;
	// the caller should send the browser to the sign-in redirect URL.
	ErrSignInRequired = errors.New("sign-in required")
	// ErrNoPlanSelected means the purchase request carried no plan id.
	ErrNoPlanSelected = errors.New("no plan selected")
	// ErrCancellationNotConfirmed means the user did not confirm the
	// cancellation; the backend is not called.
	ErrCancellationNotConfirmed = errors.New("cancellation not confirmed")
	// ErrPaymentSystemUnavailable wraps connectivity failures during purchase.
	ErrPaymentSystemUnavailable = errors.New("payment system unavailable")
	// ErrCancelSystemUnavailable wraps connectivity failures during cancel.
	ErrCancelSystemUnavailable = errors.New("subscription management system unavailable")
)

const (
	paymentUnavailableMessage = "Payment system is currently unavailable. Please try again later or contact support."
	cancelUnavailableMessage  = "Subscription management system is currently unavailable. Please contact support to cancel your subscription."
	defaultCancelReason       = "User requested cancellation"
)

// PageData is everything the subscription page renders from.
type PageData struct {
	Plans               []*types.SubscriptionPlan `json:"plans"`
	CurrentSubscription *types.UserSubscription   `json:"currentSubscription"`
	CurrentPlan         *types.SubscriptionPlan   `json:"currentPlan,omitempty"`
	BillingHistory      []*types.BillingRecord    `json:"billingHistory"`
	UsingFallbackPlans  bool                      `json:"usingFallbackPlans"`
	UserDataUnavailable bool                      `json:"userDataUnavailable"`
}

type PurchaseRequest struct {
	Identity types.Identity
	PlanID   string
	// ReturnTo is where the sign-in flow should send the browser back to.
	ReturnTo string
}

// PurchaseResult carries the backend truth plus the one URL the browser must
// navigate to for payment.
type PurchaseResult struct {
	Subscription *types.UserSubscription `json:"subscription"`
	Payment      *types.PaymentResponse  `json:"payment"`
	RedirectURL  string                  `json:"redirectUrl"`
}

type CancelRequest struct {
	UserID         string
	SubscriptionID string
	Reason         string
	Confirmed      bool
}

// CancelResult reports the cancellation plus the re-fetched subscription
// state, so the caller renders backend truth rather than an assumed result.
type CancelResult struct {
	Cancelled    bool                    `json:"cancelled"`
	Subscription *types.UserSubscription `json:"subscription"`
}

// Service orchestrates plan browsing, purchase initiation and cancellation.
type Service struct {
	api     subsapi.ClientAPI
	cfg     *config.Config
	log     *zap.SugaredLogger
	metrics *metrics.Gateway
}

func NewService(api subsapi.ClientAPI, cfg *config.Config, log *zap.SugaredLogger, m *metrics.Gateway) *Service {
	return &Service{api: api, cfg: cfg, log: log, metrics: m}
}

// LoadPage assembles the subscription page. Plan fetch failures fall back to
// the built-in catalog; user-data failures degrade to an empty subscription
// view. The page itself never fails to load.
func (s *Service) LoadPage(ctx context.Context, userID string) *PageData {
	log := logctx.FromCtx(ctx, s.log)
	page := &PageData{Plans: FallbackPlans(), UsingFallbackPlans: true}

	plans, err := s.api.ListPlans(ctx)
	if err != nil {
		log.Warnw("plan list unavailable, serving fallback catalog", "err", err)
	} else if len(plans) > 0 {
		page.Plans = plans
		page.UsingFallbackPlans = false
	}

	if userID == "" {
		return page
	}

	sub, err := s.api.GetUserSubscription(ctx, userID)
	if err != nil {
		log.Warnw("could not load user subscription", "user_id", userID, "err", err)
		page.UserDataUnavailable = true
		return page
	}
	page.CurrentSubscription = sub
	if sub != nil {
		page.CurrentPlan, _ = lo.Find(page.Plans, func(p *types.SubscriptionPlan) bool {
			return p.PlanID == sub.PlanID
		})
	}

	billing, err := s.api.GetUserBillingHistory(ctx, userID)
	if err != nil {
		log.Warnw("could not load billing history", "user_id", userID, "err", err)
		page.UserDataUnavailable = true
		return page
	}
	page.BillingHistory = billing

	return page
}

// History returns past subscriptions, most recent first (backend order).
func (s *Service) History(ctx context.Context, userID string) ([]*types.UserSubscription, error) {
	return s.api.GetUserSubscriptionHistory(ctx, userID)
}

// SignInRedirectURL computes the sign-in URL carrying the page to return to.
func (s *Service) SignInRedirectURL(returnTo string) string {
	if returnTo == "" {
		returnTo = "/profile/subscription"
	}
	return s.cfg.Auth.SignInURL + "?redirect_url=" + url.QueryEscape(returnTo)
}

// Purchase creates a subscription and hands back the external payment page
// URL. The browser must be navigated to exactly that URL and nowhere else.
func (s *Service) Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResult, error) {
	if !req.Identity.SignedIn() {
		return nil, ErrSignInRequired
	}
	if req.PlanID == "" {
		return nil, ErrNoPlanSelected
	}

	res, err := s.api.CreateSubscription(ctx, &subsapi.CreateSubscriptionRequest{
		UserID:    req.Identity.UserID,
		UserName:  req.Identity.UserName,
		UserEmail: req.Identity.UserEmail,
		UserPhone: req.Identity.UserPhone,
		PlanID:    req.PlanID,
	})
	if err != nil {
		if subsapi.IsNetworkError(err) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentSystemUnavailable, paymentUnavailableMessage)
		}
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("subscription created, redirecting to payment",
		"user_id", req.Identity.UserID, "plan_id", req.PlanID, "order_id", res.Payment.OrderID)
	s.metrics.ObservePurchaseStart()

	return &PurchaseResult{
		Subscription: res.Subscription,
		Payment:      res.Payment,
		RedirectURL:  res.Payment.PaymentLink,
	}, nil
}

// Cancel cancels the subscription after explicit confirmation, then re-fetches
// state from the backend regardless of what the cancel response claimed.
func (s *Service) Cancel(ctx context.Context, req *CancelRequest) (*CancelResult, error) {
	if !req.Confirmed {
		return nil, ErrCancellationNotConfirmed
	}

	reason := req.Reason
	if reason == "" {
		reason = defaultCancelReason
	}

	err := s.api.CancelSubscription(ctx, &subsapi.CancelSubscriptionRequest{
		UserID:         req.UserID,
		SubscriptionID: req.SubscriptionID,
		Reason:         reason,
	})
	if err != nil {
		if subsapi.IsNetworkError(err) {
			return nil, fmt.Errorf("%w: %s", ErrCancelSystemUnavailable, cancelUnavailableMessage)
		}
		return nil, err
	}

	res := &CancelResult{Cancelled: true}
	sub, err := s.api.GetUserSubscription(ctx, req.UserID)
	if err != nil {
		// The cancellation itself succeeded; a failed resync only costs the
		// fresh view.
		logctx.FromCtx(ctx, s.log).Warnw("post-cancel resync failed",
			"user_id", req.UserID, "err", err)
		return res, nil
	}
	res.Subscription = sub
	return res, nil
}

// UserMessage maps a checkout error to the string shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPaymentSystemUnavailable):
		return paymentUnavailableMessage
	case errors.Is(err, ErrCancelSystemUnavailable):
		return cancelUnavailableMessage
	case errors.Is(err, ErrNoPlanSelected):
		return "Please select a plan first"
	case errors.Is(err, ErrCancellationNotConfirmed):
		return "Cancellation requires confirmation"
	case errors.Is(err, ErrSignInRequired):
		return "Please sign in to continue"
	default:
		return subsapi.UserMessage(err, "Something went wrong. Please try again.")
	}
}
