package dto

// ---------------- Requests ----------------

type CreateCheckoutRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
}

// VerifyPaymentRequest carries the three fields the gateway hands back to
// the payer after a successful checkout. Nothing in it is trusted until
// the signature checks out.
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature        string `json:"razorpay_signature" validate:"required"`
}

type DismissCheckoutRequest struct {
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
}

// ---------------- Responses ----------------

// CheckoutResponse is everything the payer needs to open the gateway
// checkout: the gateway order, the publishable key and display prefills.
type CheckoutResponse struct {
	Success      bool          `json:"success"`
	Order        CheckoutOrder `json:"order"`
	KeyID        string        `json:"keyId"`
	Prefill      Prefill       `json:"prefill"`
	FeeBreakdown FeeBreakdown  `json:"feeBreakdown"`
}

type CheckoutOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
}

type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type FeeBreakdown struct {
	OrderPaise    int64 `json:"order_paise"`
	FeePaise      int64 `json:"fee_paise"`
	TotalPaise    int64 `json:"total_paise"`
	FeePercentage int   `json:"fee_percentage"`
}

type VerifyPaymentResponse struct {
	Success bool           `json:"success"`
	Order   *OrderResponse `json:"order"`
}

type DismissCheckoutResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}
