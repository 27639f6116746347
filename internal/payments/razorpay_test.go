package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := NewClient(Config{KeySecret: "secret-key"})

	valid := sign("order_abc|pay_xyz", "secret-key")
	assert.True(t, client.VerifyPaymentSignature("order_abc", "pay_xyz", valid))

	// Wrong secret.
	assert.False(t, client.VerifyPaymentSignature("order_abc", "pay_xyz", sign("order_abc|pay_xyz", "other")))
	// Signature for different ids.
	assert.False(t, client.VerifyPaymentSignature("order_abc", "pay_other", valid))
	// Empty signature never verifies.
	assert.False(t, client.VerifyPaymentSignature("order_abc", "pay_xyz", ""))
}

func TestVerifyPaymentSignatureNoSecretConfigured(t *testing.T) {
	client := NewClient(Config{})
	assert.False(t, client.VerifyPaymentSignature("order_abc", "pay_xyz", sign("order_abc|pay_xyz", "")))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient(Config{WebhookSecret: "hook-secret"})
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, client.VerifyWebhookSignature(body, sign(string(body), "hook-secret")))
	assert.False(t, client.VerifyWebhookSignature(body, sign(string(body), "wrong")))
	assert.False(t, client.VerifyWebhookSignature([]byte(`tampered`), sign(string(body), "hook-secret")))
}

func TestCreateOrder(t *testing.T) {
	var gotAuthUser, gotAuthPass string
	var gotBody OrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_live123",
			Amount:   gotBody.Amount,
			Currency: gotBody.Currency,
			Receipt:  gotBody.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   srv.URL,
		Currency:  "INR",
	})

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:   105000,
		Currency: "INR",
		Receipt:  "order_42",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_live123", order.ID)
	assert.Equal(t, int64(105000), order.Amount)
	assert.Equal(t, "rzp_test_key", gotAuthUser)
	assert.Equal(t, "rzp_test_secret", gotAuthPass)
}

func TestCreateOrderGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayRejected)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestCreateOrderMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"missing id":   `{"amount":1000,"currency":"INR"}`,
		"zero amount":  `{"id":"order_x","amount":0,"currency":"INR"}`,
		"not json":     `<html>gateway down</html>`,
		"empty object": `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			client := NewClient(Config{BaseURL: srv.URL})
			_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 1000, Currency: "INR"})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}
