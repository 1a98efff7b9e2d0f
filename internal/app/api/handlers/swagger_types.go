package handlers

import (
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/accessgate"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/checkout"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/gamesession"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/paymentreturn"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PurchaseBody documents the purchase request body.
type PurchaseBody struct {
	PlanID   string `json:"planId"`
	ReturnTo string `json:"returnTo"`
}

// CancelBody documents the cancel request body.
type CancelBody struct {
	SubscriptionID string `json:"subscriptionId"`
	Reason         string `json:"reason"`
	Confirmed      bool   `json:"confirmed"`
}

// SessionStartBody documents the session start request body.
type SessionStartBody struct {
	GameID string `json:"gameId"`
}

// SessionStopBody documents the session stop request body.
type SessionStopBody struct {
	SessionID string `json:"sessionId"`
}

// RespSubscriptionPage wraps the subscription page payload in the standard envelope.
type RespSubscriptionPage struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    checkout.PageData `json:"data"`
}

// RespPlans wraps the plan list in the standard envelope.
type RespPlans struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Data    []*types.SubscriptionPlan `json:"data"`
}

// RespPlan wraps a single plan in the standard envelope.
type RespPlan struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    types.SubscriptionPlan `json:"data"`
}

// RespPurchase wraps the purchase result in the standard envelope.
type RespPurchase struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    checkout.PurchaseResult `json:"data"`
}

// RespCancel wraps the cancel result in the standard envelope.
type RespCancel struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    checkout.CancelResult `json:"data"`
}

// RespSubscriptionHistory wraps past subscriptions in the standard envelope.
type RespSubscriptionHistory struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Data    []*types.UserSubscription `json:"data"`
}

// RespBillingHistory wraps the billing audit trail in the standard envelope.
type RespBillingHistory struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    []*types.BillingRecord `json:"data"`
}

// RespPaymentReturn wraps the payment poll result in the standard envelope.
type RespPaymentReturn struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    paymentreturn.Result `json:"data"`
}

// RespAccess wraps the access decision in the standard envelope.
type RespAccess struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    accessgate.Decision `json:"data"`
}

// RespSession wraps a streaming session in the standard envelope.
type RespSession struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    gamesession.Session `json:"data"`
}

// RespSessionEnd wraps the session end report in the standard envelope.
type RespSessionEnd struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    gamesession.EndReport `json:"data"`
}
