package models

import "time"

// PaymentIntent is one checkout attempt for an order, scoped to a gateway
// order. It persists the checkout state machine:
// created -> processing -> paid | failed, cancelled when the payer
// dismisses the gateway. A failed or cancelled intent keeps its gateway
// order id so a retry does not create a duplicate gateway order.
type PaymentIntent struct {
	BaseModel
	OrderID          string       `gorm:"not null;index" json:"order_id"`
	UserID           string       `gorm:"not null;index" json:"user_id"`
	GatewayOrderID   string       `gorm:"uniqueIndex;not null" json:"gateway_order_id"`
	AmountPaise      int64        `gorm:"not null" json:"amount_paise"`
	Currency         string       `gorm:"not null" json:"currency"`
	FeePaise         int64        `gorm:"not null" json:"fee_paise"`
	Status           IntentStatus `gorm:"default:'created';index" json:"status"`
	FailureReason    string       `json:"failure_reason,omitempty"`
	GatewayPaymentID string       `json:"gateway_payment_id,omitempty"`
	PaidAt           *time.Time   `json:"paid_at,omitempty"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// Live reports whether the intent can still complete; a live intent is
// returned as-is by CreateCheckout instead of opening a new gateway order.
func (p *PaymentIntent) Live() bool {
	return p.Status == IntentStatusCreated || p.Status == IntentStatusProcessing
}
