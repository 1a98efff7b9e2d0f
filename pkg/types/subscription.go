package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusInactive  SubscriptionStatus = "inactive"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// SubscriptionPlan is a purchasable plan. Plans are owned by the backend and
// read-only here.
type SubscriptionPlan struct {
	PlanID      string   `json:"planId"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Hours       int      `json:"hours"`
	Validity    int      `json:"validity"` // days
	TimeWindow  string   `json:"timeWindow,omitempty"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	IsActive    bool     `json:"isActive"`
}

// UserSubscription is the backend's record of a user's subscription. The
// gateway holds ephemeral copies only; state-changing calls are always
// followed by a re-fetch.
//
// Invariants (enforced by the backend): HoursRemaining <= HoursTotal,
// EndDate >= StartDate.
type UserSubscription struct {
	SubscriptionID string             `json:"subscriptionId"`
	UserID         string             `json:"userId"`
	UserName       string             `json:"userName,omitempty"`
	PlanID         string             `json:"planId"`
	Status         SubscriptionStatus `json:"status"`
	StartDate      time.Time          `json:"startDate"`
	EndDate        time.Time          `json:"endDate"`
	HoursRemaining float64            `json:"hoursRemaining"`
	HoursTotal     float64            `json:"hoursTotal"`
	AutoRenew      bool               `json:"autoRenew"`
	AmountPaid     int64              `json:"amountPaid"`
	Currency       string             `json:"currency"`
}

// Active reports whether the subscription status is active. Expiration is
// date-driven on the backend; zero remaining hours alone does not make a
// subscription inactive.
func (s *UserSubscription) Active() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}

// BillingRecord is one row of the append-only billing audit trail.
type BillingRecord struct {
	BillingID     string    `json:"billingId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	BillingDate   time.Time `json:"billingDate"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
}

// PaymentResponse is the short-lived payment capability returned once at
// subscription-creation time. It is used for the redirect to the external
// payment page and not persisted afterwards.
type PaymentResponse struct {
	OrderID          string `json:"orderId"`
	OrderToken       string `json:"orderToken"`
	PaymentSessionID string `json:"paymentSessionId"`
	PaymentLink      string `json:"paymentLink"`
}

// AccessResult is the backend's answer to "can this user play".
type AccessResult struct {
	CanPlay      bool              `json:"canPlay"`
	Subscription *UserSubscription `json:"subscription"`
	Message      string            `json:"message"`
}

type PaymentTransactionStatus string

const (
	PaymentTransactionStatusSuccess PaymentTransactionStatus = "success"
	PaymentTransactionStatusFailed  PaymentTransactionStatus = "failed"
	PaymentTransactionStatusPending PaymentTransactionStatus = "pending"
)

// Terminal reports whether the status is final. Anything other than
// success/failed is treated as still in flight.
func (t PaymentTransactionStatus) Terminal() bool {
	return t == PaymentTransactionStatusSuccess || t == PaymentTransactionStatusFailed
}

// PaymentTransaction is the transaction sub-object of a payment-status
// response.
type PaymentTransaction struct {
	Status    PaymentTransactionStatus `json:"status"`
	OrderID   string                   `json:"orderId,omitempty"`
	Amount    int64                    `json:"amount,omitempty"`
	Currency  string                   `json:"currency,omitempty"`
	UpdatedAt *time.Time               `json:"updatedAt,omitempty"`
}

// PaymentStatusResult wraps the payment-status endpoint payload.
type PaymentStatusResult struct {
	Transaction PaymentTransaction `json:"transaction"`
}
