package subsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

// ClientAPI is the typed surface of the external subscription backend. The
// gateway's services depend on this interface; tests stub it.
type ClientAPI interface {
	// ListPlans returns all available plans in backend order.
	ListPlans(ctx context.Context) ([]*types.SubscriptionPlan, error)
	// GetPlan returns a single plan.
	GetPlan(ctx context.Context, planID string) (*types.SubscriptionPlan, error)
	// CreateSubscription creates a subscription and initiates a payment order.
	CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*CreateSubscriptionResult, error)
	// GetUserSubscription returns the user's current subscription, or nil when
	// the user has none (not an error).
	GetUserSubscription(ctx context.Context, userID string) (*types.UserSubscription, error)
	// GetUserSubscriptionHistory returns past subscriptions, most recent first.
	GetUserSubscriptionHistory(ctx context.Context, userID string) ([]*types.UserSubscription, error)
	// GetUserBillingHistory returns the billing audit trail.
	GetUserBillingHistory(ctx context.Context, userID string) ([]*types.BillingRecord, error)
	// CancelSubscription marks the subscription cancelled on the backend.
	CancelSubscription(ctx context.Context, req *CancelSubscriptionRequest) error
	// CheckAccess asks whether the user may start a streaming session.
	CheckAccess(ctx context.Context, userID string) (*types.AccessResult, error)
	// DeductHours decrements the user's remaining hours.
	DeductHours(ctx context.Context, userID string, hours float64) error
	// GetPaymentStatus returns the payment/transaction status for an order.
	GetPaymentStatus(ctx context.Context, orderID string) (*types.PaymentStatusResult, error)
}

type CreateSubscriptionRequest struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`
	PlanID    string `json:"planId"`
}

type CreateSubscriptionResult struct {
	Subscription *types.UserSubscription `json:"subscription"`
	Payment      *types.PaymentResponse  `json:"payment"`
}

type CancelSubscriptionRequest struct {
	UserID         string `json:"userId"`
	SubscriptionID string `json:"subscriptionId"`
	Reason         string `json:"reason,omitempty"`
}

// envelope is the backend's uniform response wrapper. success:false is the
// single error signal; HTTP status codes are not load-bearing upstream.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Client talks to the external subscription backend over its JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(cfg *config.Config, log *zap.SugaredLogger) ClientAPI {
	timeout := time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.Backend.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) ListPlans(ctx context.Context) ([]*types.SubscriptionPlan, error) {
	return doGet[[]*types.SubscriptionPlan](ctx, c, "list plans", "/subscription/plans")
}

func (c *Client) GetPlan(ctx context.Context, planID string) (*types.SubscriptionPlan, error) {
	return doGet[*types.SubscriptionPlan](ctx, c, "get plan", "/subscription/plans/"+url.PathEscape(planID))
}

func (c *Client) CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*CreateSubscriptionResult, error) {
	const op = "create subscription"
	res, err := doPost[*CreateSubscriptionResult](ctx, c, op, "/subscription/create", req)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Payment == nil || res.Payment.PaymentLink == "" {
		// A subscription without a payment link cannot be paid for; treat it
		// as a backend rejection rather than handing the UI a dead end.
		return nil, &APIError{Op: op, Message: "payment link missing from backend response"}
	}
	return res, nil
}

func (c *Client) GetUserSubscription(ctx context.Context, userID string) (*types.UserSubscription, error) {
	// Backend sends data:null when the user has no active subscription; the
	// nil result propagates as a valid answer.
	return doGet[*types.UserSubscription](ctx, c, "get user subscription", "/subscription/user/"+url.PathEscape(userID))
}

func (c *Client) GetUserSubscriptionHistory(ctx context.Context, userID string) ([]*types.UserSubscription, error) {
	return doGet[[]*types.UserSubscription](ctx, c, "get subscription history", "/subscription/user/"+url.PathEscape(userID)+"/history")
}

func (c *Client) GetUserBillingHistory(ctx context.Context, userID string) ([]*types.BillingRecord, error) {
	return doGet[[]*types.BillingRecord](ctx, c, "get billing history", "/subscription/user/"+url.PathEscape(userID)+"/billing")
}

func (c *Client) CancelSubscription(ctx context.Context, req *CancelSubscriptionRequest) error {
	_, err := doPost[json.RawMessage](ctx, c, "cancel subscription", "/subscription/cancel", req)
	return err
}

func (c *Client) CheckAccess(ctx context.Context, userID string) (*types.AccessResult, error) {
	res, err := doGet[*types.AccessResult](ctx, c, "check access", "/subscription/check-access/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NetworkError{Op: "check access", Err: fmt.Errorf("empty access payload")}
	}
	return res, nil
}

func (c *Client) DeductHours(ctx context.Context, userID string, hours float64) error {
	body := map[string]any{"userId": userID, "hours": hours}
	_, err := doPost[json.RawMessage](ctx, c, "deduct hours", "/subscription/deduct-hours", body)
	return err
}

func (c *Client) GetPaymentStatus(ctx context.Context, orderID string) (*types.PaymentStatusResult, error) {
	const op = "get payment status"
	res, err := doGet[*types.PaymentStatusResult](ctx, c, op, "/subscription/payment-status/"+url.PathEscape(orderID))
	if err != nil {
		return nil, err
	}
	if res == nil {
		// success with a null payload; the status cannot be read from it.
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("empty payment status payload")}
	}
	return res, nil
}

func doGet[T any](ctx context.Context, c *Client, op, path string) (T, error) {
	var zero T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return zero, fmt.Errorf("%s: build request: %w", op, err)
	}
	return do[T](c, op, req)
}

func doPost[T any](ctx context.Context, c *Client, op, path string, body any) (T, error) {
	var zero T
	payload, err := json.Marshal(body)
	if err != nil {
		return zero, fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return zero, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do[T](c, op, req)
}

func do[T any](c *Client, op string, req *http.Request) (T, error) {
	var zero T

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// A body that is not the expected envelope is indistinguishable from
		// a broken transport as far as the caller is concerned.
		return zero, &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "failed to " + op
		}
		return zero, &APIError{Op: op, Message: msg}
	}
	return env.Data, nil
}
