package checkout

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

type backendStub struct {
	subsapi.ClientAPI

	plans    []*types.SubscriptionPlan
	plansErr error

	sub    *types.UserSubscription
	subErr error

	billing    []*types.BillingRecord
	billingErr error

	createRes   *subsapi.CreateSubscriptionResult
	createErr   error
	createCalls int

	cancelErr   error
	cancelCalls int
	cancelReq   *subsapi.CancelSubscriptionRequest
}

func (s *backendStub) ListPlans(ctx context.Context) ([]*types.SubscriptionPlan, error) {
	return s.plans, s.plansErr
}

func (s *backendStub) GetUserSubscription(ctx context.Context, userID string) (*types.UserSubscription, error) {
	return s.sub, s.subErr
}

func (s *backendStub) GetUserBillingHistory(ctx context.Context, userID string) ([]*types.BillingRecord, error) {
	return s.billing, s.billingErr
}

func (s *backendStub) CreateSubscription(ctx context.Context, req *subsapi.CreateSubscriptionRequest) (*subsapi.CreateSubscriptionResult, error) {
	s.createCalls++
	return s.createRes, s.createErr
}

func (s *backendStub) CancelSubscription(ctx context.Context, req *subsapi.CancelSubscriptionRequest) error {
	s.cancelCalls++
	s.cancelReq = req
	return s.cancelErr
}

func newTestService(stub *backendStub) *Service {
	log := zap.NewNop().Sugar()
	cfg := &config.Config{Auth: config.AuthConfig{SignInURL: "/sign-in"}}
	return NewService(stub, cfg, log, metrics.NewGateway(log))
}

func signedIn() types.Identity {
	return types.Identity{UserID: "user-1", UserName: "Test", UserEmail: "t@example.com"}
}

func TestLoadPage_BackendPlans(t *testing.T) {
	stub := &backendStub{plans: []*types.SubscriptionPlan{{PlanID: "pro-plus", Name: "Pro"}}}
	page := newTestService(stub).LoadPage(context.Background(), "")

	require.Len(t, page.Plans, 1)
	assert.Equal(t, "pro-plus", page.Plans[0].PlanID)
	assert.False(t, page.UsingFallbackPlans)
}

func TestLoadPage_FallbackCatalog(t *testing.T) {
	tests := []struct {
		name string
		stub *backendStub
	}{
		{"fetch failure", &backendStub{plansErr: errors.New("connection refused")}},
		{"empty catalog", &backendStub{plans: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newTestService(tt.stub).LoadPage(context.Background(), "")
			assert.True(t, page.UsingFallbackPlans)
			require.Len(t, page.Plans, 5)
			assert.Equal(t, "starter-trial", page.Plans[0].PlanID)
		})
	}
}

func TestLoadPage_ResolvesCurrentPlan(t *testing.T) {
	stub := &backendStub{
		plans: []*types.SubscriptionPlan{
			{PlanID: "starter-plan", Name: "Starter"},
			{PlanID: "pro-plus", Name: "Pro"},
		},
		sub:     &types.UserSubscription{SubscriptionID: "sub-1", PlanID: "pro-plus", Status: types.SubscriptionStatusActive},
		billing: []*types.BillingRecord{{BillingID: "bill-1"}},
	}
	page := newTestService(stub).LoadPage(context.Background(), "user-1")

	require.NotNil(t, page.CurrentPlan)
	assert.Equal(t, "pro-plus", page.CurrentPlan.PlanID)
	assert.Len(t, page.BillingHistory, 1)
	assert.False(t, page.UserDataUnavailable)
}

func TestLoadPage_UserDataDegrades(t *testing.T) {
	stub := &backendStub{
		plans:  []*types.SubscriptionPlan{{PlanID: "pro-plus"}},
		subErr: errors.New("connection refused"),
	}
	page := newTestService(stub).LoadPage(context.Background(), "user-1")

	assert.True(t, page.UserDataUnavailable)
	assert.Nil(t, page.CurrentSubscription)
	// The catalog still renders.
	assert.Len(t, page.Plans, 1)
}

func TestLoadPage_ZeroHoursStillCurrent(t *testing.T) {
	sub := &types.UserSubscription{
		SubscriptionID: "sub-1",
		PlanID:         "starter-plan",
		Status:         types.SubscriptionStatusActive,
		HoursRemaining: 0,
		HoursTotal:     100,
	}
	stub := &backendStub{plans: []*types.SubscriptionPlan{{PlanID: "starter-plan"}}, sub: sub}
	page := newTestService(stub).LoadPage(context.Background(), "user-1")

	require.NotNil(t, page.CurrentSubscription)
	assert.True(t, page.CurrentSubscription.Active())
}

func TestPurchase_RedirectsToPaymentLink(t *testing.T) {
	stub := &backendStub{createRes: &subsapi.CreateSubscriptionResult{
		Subscription: &types.UserSubscription{SubscriptionID: "sub-1"},
		Payment:      &types.PaymentResponse{OrderID: "order-1", PaymentLink: "https://pay.example.com/order-1"},
	}}

	res, err := newTestService(stub).Purchase(context.Background(), &PurchaseRequest{
		Identity: signedIn(), PlanID: "pro-plus",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/order-1", res.RedirectURL)
	assert.Equal(t, res.Payment.PaymentLink, res.RedirectURL)
}

func TestPurchase_SignInRequired(t *testing.T) {
	stub := &backendStub{}
	_, err := newTestService(stub).Purchase(context.Background(), &PurchaseRequest{PlanID: "pro-plus"})
	require.ErrorIs(t, err, ErrSignInRequired)
	assert.Zero(t, stub.createCalls)
}

func TestPurchase_NoPlanSelected(t *testing.T) {
	stub := &backendStub{}
	_, err := newTestService(stub).Purchase(context.Background(), &PurchaseRequest{Identity: signedIn()})
	require.ErrorIs(t, err, ErrNoPlanSelected)
	assert.Zero(t, stub.createCalls)
}

func TestPurchase_NetworkFailure(t *testing.T) {
	stub := &backendStub{createErr: &subsapi.NetworkError{Op: "create subscription", Err: errors.New("connection refused")}}
	_, err := newTestService(stub).Purchase(context.Background(), &PurchaseRequest{Identity: signedIn(), PlanID: "pro-plus"})
	require.ErrorIs(t, err, ErrPaymentSystemUnavailable)
	assert.Equal(t, "Payment system is currently unavailable. Please try again later or contact support.", UserMessage(err))
}

func TestPurchase_BackendRejection(t *testing.T) {
	stub := &backendStub{createErr: &subsapi.APIError{Op: "create subscription", Message: "plan is no longer available"}}
	_, err := newTestService(stub).Purchase(context.Background(), &PurchaseRequest{Identity: signedIn(), PlanID: "gone"})
	require.Error(t, err)
	assert.Equal(t, "plan is no longer available", UserMessage(err))
}

func TestCancel_RequiresConfirmation(t *testing.T) {
	stub := &backendStub{}
	_, err := newTestService(stub).Cancel(context.Background(), &CancelRequest{
		UserID: "user-1", SubscriptionID: "sub-1",
	})
	require.ErrorIs(t, err, ErrCancellationNotConfirmed)
	assert.Zero(t, stub.cancelCalls)
}

func TestCancel_RefetchesSubscription(t *testing.T) {
	stub := &backendStub{
		sub: &types.UserSubscription{SubscriptionID: "sub-1", Status: types.SubscriptionStatusCancelled},
	}
	res, err := newTestService(stub).Cancel(context.Background(), &CancelRequest{
		UserID: "user-1", SubscriptionID: "sub-1", Confirmed: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	require.NotNil(t, res.Subscription)
	assert.Equal(t, types.SubscriptionStatusCancelled, res.Subscription.Status)
	assert.Equal(t, "User requested cancellation", stub.cancelReq.Reason)
}

func TestCancel_ResyncFailureDegrades(t *testing.T) {
	stub := &backendStub{subErr: errors.New("connection refused")}
	res, err := newTestService(stub).Cancel(context.Background(), &CancelRequest{
		UserID: "user-1", SubscriptionID: "sub-1", Confirmed: true, Reason: "too expensive",
	})
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Nil(t, res.Subscription)
	assert.Equal(t, "too expensive", stub.cancelReq.Reason)
}

func TestCancel_NetworkFailure(t *testing.T) {
	stub := &backendStub{cancelErr: &subsapi.NetworkError{Op: "cancel subscription", Err: errors.New("connection refused")}}
	_, err := newTestService(stub).Cancel(context.Background(), &CancelRequest{
		UserID: "user-1", SubscriptionID: "sub-1", Confirmed: true,
	})
	require.ErrorIs(t, err, ErrCancelSystemUnavailable)
}

func TestSignInRedirectURL(t *testing.T) {
	svc := newTestService(&backendStub{})
	assert.Equal(t, "/sign-in?redirect_url=%2Fprofile%2Fsubscription", svc.SignInRedirectURL(""))
	assert.Equal(t, "/sign-in?redirect_url=%2Fgames%2Fvalorant", svc.SignInRedirectURL("/games/valorant"))
}

func TestFallbackPlans_Copies(t *testing.T) {
	a := FallbackPlans()
	a[0] = nil
	b := FallbackPlans()
	require.NotNil(t, b[0])
}
