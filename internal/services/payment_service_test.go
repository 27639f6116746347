package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

type paymentFixture struct {
	svc     PaymentService
	orders  *memOrderRepo
	intents *memPaymentRepo
	notes   *memNotificationRepo
	gateway *fakeGateway
	mailer  *memMailer
	tx      *memTransactor
	order   *models.Order
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	client := &models.User{
		BaseModel: models.BaseModel{ID: "client-1"},
		Email:     "asha@example.com",
		Name:      "Asha",
		Role:      models.UserRoleClient,
	}
	editor := &models.User{
		BaseModel: models.BaseModel{ID: "editor-1"},
		Email:     "ravi@example.com",
		Name:      "Ravi",
		Role:      models.UserRoleEditor,
	}
	order := &models.Order{
		BaseModel:     models.BaseModel{ID: "order-1"},
		Title:         "Wedding highlight reel",
		Amount:        1000,
		Currency:      "INR",
		Status:        models.OrderStatusAccepted,
		PaymentStatus: models.PaymentStatusUnpaid,
		ClientID:      client.ID,
		EditorID:      editor.ID,
	}

	f := &paymentFixture{
		orders:  newMemOrderRepo(order),
		intents: &memPaymentRepo{},
		notes:   &memNotificationRepo{},
		gateway: &fakeGateway{validSig: "good-sig", validHook: "good-hook"},
		mailer:  &memMailer{},
		order:   order,
	}
	f.tx = &memTransactor{orders: f.orders, payments: f.intents}
	users := newMemUserRepo(client, editor)
	notifier := NewNotificationService(f.notes, nil)
	f.svc = NewPaymentService(f.intents, f.orders, users, f.tx, f.gateway, notifier, f.mailer)
	return f
}

func capturedWebhook(gatewayOrderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q}}}}`,
		paymentID, gatewayOrderID))
}

func TestCreateCheckoutComputesFeeBreakdown(t *testing.T) {
	f := newPaymentFixture(t)

	resp, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "order_gw1", resp.Order.ID)
	// 1000 INR order plus the 5% platform fee, in paise.
	assert.Equal(t, int64(105000), resp.Order.Amount)
	assert.Equal(t, "INR", resp.Order.Currency)
	assert.Equal(t, "rzp_test_key", resp.KeyID)
	assert.Equal(t, "Asha", resp.Prefill.Name)
	assert.Equal(t, "asha@example.com", resp.Prefill.Email)
	assert.Equal(t, dto.FeeBreakdown{
		OrderPaise:    100000,
		FeePaise:      5000,
		TotalPaise:    105000,
		FeePercentage: 5,
	}, resp.FeeBreakdown)

	intent, err := f.intents.FindByGatewayOrderID("order_gw1")
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusCreated, intent.Status)
	assert.Equal(t, int64(5000), intent.FeePaise)
}

func TestCreateCheckoutIsIdempotentWhileLive(t *testing.T) {
	f := newPaymentFixture(t)

	first, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)
	second, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, 1, f.gateway.createCalls, "a live checkout must not open a second gateway order")
}

func TestCreateCheckoutReusesGatewayOrderAfterDismiss(t *testing.T) {
	f := newPaymentFixture(t)

	first, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)
	_, err = f.svc.DismissCheckout("client-1", &dto.DismissCheckoutRequest{GatewayOrderID: first.Order.ID})
	require.NoError(t, err)

	retry, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	assert.Equal(t, first.Order.ID, retry.Order.ID)
	assert.Equal(t, 1, f.gateway.createCalls)

	intent, err := f.intents.FindByGatewayOrderID(first.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusCreated, intent.Status)
	assert.Empty(t, intent.FailureReason)
}

func TestCreateCheckoutRejectsNonPayableOrder(t *testing.T) {
	f := newPaymentFixture(t)
	f.order.PaymentStatus = models.PaymentStatusEscrow

	_, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	assert.ErrorIs(t, err, apperrors.ErrOrderNotPayable)
}

func TestCreateCheckoutHidesOtherClientsOrder(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.CreateCheckout(context.Background(), "client-2", "order-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode, "outsiders see a 404, not a 403")
}

func TestCreateCheckoutGatewayDown(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.failCreate = true

	_, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	assert.ErrorIs(t, err, apperrors.ErrGatewayUnavailable)
	_, err = f.intents.FindLatestByOrder("order-1")
	assert.ErrorIs(t, err, repositories.ErrPaymentIntentNotFound)
}

func TestVerifyPaymentSettlesEscrow(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	resp, err := f.svc.VerifyPayment("client-1", &dto.VerifyPaymentRequest{
		GatewayOrderID:   checkout.Order.ID,
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	assert.Equal(t, models.PaymentStatusEscrow, f.order.PaymentStatus)
	intent, err := f.intents.FindByGatewayOrderID(checkout.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusPaid, intent.Status)
	assert.Equal(t, "pay_1", intent.GatewayPaymentID)
	require.NotNil(t, intent.PaidAt)

	// The editor is told the money is in escrow and the client gets a
	// receipt.
	assert.Len(t, f.notes.byType("editor-1", repositories.NotificationTypePaymentReceived), 1)
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0], "asha@example.com")
}

func TestVerifyPaymentSignatureMismatch(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment("client-1", &dto.VerifyPaymentRequest{
		GatewayOrderID:   checkout.Order.ID,
		GatewayPaymentID: "pay_1",
		Signature:        "forged",
	})
	assert.ErrorIs(t, err, apperrors.ErrSignatureMismatch)

	intent, err := f.intents.FindByGatewayOrderID(checkout.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusFailed, intent.Status)
	assert.Equal(t, "Signature mismatch", intent.FailureReason)
	assert.Equal(t, models.PaymentStatusUnpaid, f.order.PaymentStatus, "money must not move on a bad signature")
}

func TestVerifyPaymentReplayIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	req := &dto.VerifyPaymentRequest{
		GatewayOrderID:   checkout.Order.ID,
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	}
	_, err = f.svc.VerifyPayment("client-1", req)
	require.NoError(t, err)

	resp, err := f.svc.VerifyPayment("client-1", req)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// Settlement side effects ran once.
	assert.Len(t, f.notes.byType("editor-1", repositories.NotificationTypePaymentReceived), 1)
	assert.Len(t, f.mailer.sent, 1)
}

func TestVerifyPaymentMarksIntentProcessing(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment("client-1", &dto.VerifyPaymentRequest{
		GatewayOrderID:   checkout.Order.ID,
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	})
	require.NoError(t, err)

	// The intent passes through processing before it is settled.
	assert.Equal(t,
		[]models.IntentStatus{models.IntentStatusProcessing, models.IntentStatusPaid},
		f.intents.statusLog)
}

func TestVerifyPaymentMarksProcessingBeforeSignatureCheck(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment("client-1", &dto.VerifyPaymentRequest{
		GatewayOrderID:   checkout.Order.ID,
		GatewayPaymentID: "pay_1",
		Signature:        "forged",
	})
	assert.ErrorIs(t, err, apperrors.ErrSignatureMismatch)

	assert.Equal(t,
		[]models.IntentStatus{models.IntentStatusProcessing, models.IntentStatusFailed},
		f.intents.statusLog)
}

func TestSettleIsAtomicWhenCommitFails(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	f.tx.commitErr = fmt.Errorf("connection reset during commit")
	req := &dto.VerifyPaymentRequest{
		GatewayOrderID:   checkout.Order.ID,
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	}
	_, err = f.svc.VerifyPayment("client-1", req)
	require.Error(t, err)

	// The failed commit rolled back both sides: the order is still
	// unpaid and the intent never became paid.
	assert.Equal(t, models.PaymentStatusUnpaid, f.order.PaymentStatus)
	intent, err := f.intents.FindByGatewayOrderID(checkout.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusProcessing, intent.Status)
	assert.Nil(t, intent.PaidAt)

	// The intent is still live, so a retried checkout reuses the same
	// gateway order instead of opening a second charge.
	retry, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, checkout.Order.ID, retry.Order.ID)
	assert.Equal(t, 1, f.gateway.createCalls)

	// No settlement side effects leaked past the rollback.
	assert.Empty(t, f.notes.byType("editor-1", repositories.NotificationTypePaymentReceived))
	assert.Empty(t, f.mailer.sent)

	// Once the database recovers, replaying the callback settles.
	f.tx.commitErr = nil
	resp, err := f.svc.VerifyPayment("client-1", req)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, models.PaymentStatusEscrow, f.order.PaymentStatus)
	intent, err = f.intents.FindByGatewayOrderID(checkout.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusPaid, intent.Status)
}

func TestDismissCheckoutCancelsWithoutSignature(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	resp, err := f.svc.DismissCheckout("client-1", &dto.DismissCheckoutRequest{GatewayOrderID: checkout.Order.ID})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, string(models.IntentStatusCancelled), resp.Status)
	assert.Equal(t, 0, f.gateway.verifyCalls, "dismissal involves no signature")

	// Dismissing again is a no-op.
	resp, err = f.svc.DismissCheckout("client-1", &dto.DismissCheckoutRequest{GatewayOrderID: checkout.Order.ID})
	require.NoError(t, err)
	assert.Equal(t, string(models.IntentStatusCancelled), resp.Status)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.HandleWebhook(capturedWebhook("order_gw1", "pay_1"), "forged")
	assert.ErrorIs(t, err, apperrors.ErrSignatureMismatch)
}

func TestHandleWebhookCapturedSettles(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	err = f.svc.HandleWebhook(capturedWebhook(checkout.Order.ID, "pay_hook"), "good-hook")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusEscrow, f.order.PaymentStatus)
	intent, err := f.intents.FindByGatewayOrderID(checkout.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusPaid, intent.Status)
	assert.Equal(t, "pay_hook", intent.GatewayPaymentID)

	// A redelivered webhook settles nothing twice.
	err = f.svc.HandleWebhook(capturedWebhook(checkout.Order.ID, "pay_hook"), "good-hook")
	require.NoError(t, err)
	assert.Len(t, f.notes.byType("editor-1", repositories.NotificationTypePaymentReceived), 1)
}

func TestHandleWebhookFailedMarksIntent(t *testing.T) {
	f := newPaymentFixture(t)

	checkout, err := f.svc.CreateCheckout(context.Background(), "client-1", "order-1")
	require.NoError(t, err)

	body := []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":%q,"error_description":"Card declined"}}}}`,
		checkout.Order.ID))
	require.NoError(t, f.svc.HandleWebhook(body, "good-hook"))

	intent, err := f.intents.FindByGatewayOrderID(checkout.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusFailed, intent.Status)
	assert.Equal(t, "Card declined", intent.FailureReason)
	assert.Equal(t, models.PaymentStatusUnpaid, f.order.PaymentStatus)
}

func TestHandleWebhookUnknownOrderIsAcknowledged(t *testing.T) {
	f := newPaymentFixture(t)

	// Acknowledge so the gateway stops retrying a webhook that is not ours.
	err := f.svc.HandleWebhook(capturedWebhook("order_gw_unknown", "pay_1"), "good-hook")
	assert.NoError(t, err)
}
