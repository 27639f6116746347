package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"suvix_backend/internal/logger"
)

var (
	ErrMalformedResponse = errors.New("malformed gateway response")
	ErrGatewayRejected   = errors.New("gateway rejected the request")
)

type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string // e.g. https://api.razorpay.com/v1
	Currency      string
}

// Client talks to the Razorpay Orders API and verifies callback
// signatures. The underlying HTTP client is initialized lazily exactly
// once; every caller shares the same instance.
type Client struct {
	cfg Config

	httpOnce sync.Once
	http     *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// KeyID is the publishable key the checkout frontend embeds.
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

func (c *Client) Currency() string {
	return c.cfg.Currency
}

func (c *Client) ensureHTTPClient() *http.Client {
	c.httpOnce.Do(func() {
		c.http = &http.Client{Timeout: 15 * time.Second}
	})
	return c.http
}

// OrderRequest is the body of POST /orders. Amount is in paise.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// GatewayOrder is the subset of the gateway's order object this service
// relies on. Decoded responses are shape-checked before use.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type gatewayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens a gateway order for the given amount. The returned
// order id is what the checkout frontend hands to the gateway SDK.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.ensureHTTPClient().Do(httpReq)
	logger.GatewayLog("create_order", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var gwErr gatewayErrorBody
		if json.Unmarshal(raw, &gwErr) == nil && gwErr.Error.Description != "" {
			return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, gwErr.Error.Description)
		}
		return nil, fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	// Fail fast on shape mismatch instead of propagating zero values.
	if order.ID == "" || order.Amount <= 0 || order.Currency == "" {
		return nil, ErrMalformedResponse
	}

	return &order, nil
}

// VerifyPaymentSignature checks the signature the gateway hands to its
// browser callback: HMAC-SHA256 of "order_id|payment_id" under the key
// secret. The callback alone is never trusted as proof of payment; this
// check is the proof.
func (c *Client) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	payload := gatewayOrderID + "|" + gatewayPaymentID
	return verifyHMAC([]byte(payload), signature, c.cfg.KeySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against
// the raw webhook body.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(body, signature, c.cfg.WebhookSecret)
}

func verifyHMAC(payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
