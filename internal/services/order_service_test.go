package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

type orderFixture struct {
	svc    OrderService
	orders *memOrderRepo
	kyc    *memKYCRepo
	notes  *memNotificationRepo
	mailer *memMailer
	order  *models.Order
}

func newOrderFixture(t *testing.T, status models.OrderStatus, payment models.PaymentStatus) *orderFixture {
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
		Title:         "Podcast episode edit",
		Amount:        300,
		Currency:      "INR",
		Status:        status,
		PaymentStatus: payment,
		ClientID:      client.ID,
		EditorID:      editor.ID,
	}
	if status == models.OrderStatusSubmitted {
		order.DeliveryKey = "deliveries/order-1/cut.mp4"
		order.DeliveryName = "cut.mp4"
	}

	f := &orderFixture{
		orders: newMemOrderRepo(order),
		kyc:    newMemKYCRepo(),
		notes:  &memNotificationRepo{},
		mailer: &memMailer{},
		order:  order,
	}
	f.svc = NewOrderService(f.orders, newMemUserRepo(client, editor), f.kyc,
		&fakeStorage{}, NewNotificationService(f.notes, nil), f.mailer)
	return f
}

func (f *orderFixture) verifyEditorKYC() {
	f.kyc.records["editor-1"] = &models.KYCRecord{
		BaseModel: models.BaseModel{ID: "kyc-1"},
		UserID:    "editor-1",
		LegalName: "Ravi Kumar",
		Status:    models.KYCStatusVerified,
	}
}

func TestCreateOrderNotifiesEditor(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusNew, models.PaymentStatusUnpaid)

	resp, err := f.svc.CreateOrder("client-1", &dto.CreateOrderRequest{
		Title:        "Reaction video cut",
		Requirements: "Trim to 10 minutes",
		Amount:       450,
		EditorID:     "editor-1",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusNew, resp.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, resp.PaymentStatus)
	assert.Len(t, f.notes.byType("editor-1", repositories.NotificationTypeOrderPlaced), 1)
}

func TestCreateOrderRejectsSelfAndNonEditors(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusNew, models.PaymentStatusUnpaid)

	_, err := f.svc.CreateOrder("client-1", &dto.CreateOrderRequest{
		Title: "Self order", Amount: 100, EditorID: "client-1",
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)

	// The target must hold the editor role.
	_, err = f.svc.CreateOrder("editor-1", &dto.CreateOrderRequest{
		Title: "Reverse order", Amount: 100, EditorID: "client-1",
	})
	require.Error(t, err)
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestDeliveryLifecycleHappyPath(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusNew, models.PaymentStatusUnpaid)

	resp, err := f.svc.AcceptOrder("editor-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, resp.Status)
	assert.Len(t, f.notes.byType("client-1", repositories.NotificationTypeOrderAccepted), 1)

	resp, err = f.svc.StartOrder("editor-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, resp.Status)

	resp, err = f.svc.DeliverOrder(context.Background(), "editor-1", "order-1",
		"final.mp4", "video/mp4", strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSubmitted, resp.Status)
	assert.NotEmpty(t, f.order.DeliveryKey)
	assert.Equal(t, "final.mp4", f.order.DeliveryName)
	require.NotNil(t, f.order.DeliveredAt)
	assert.Len(t, f.notes.byType("client-1", repositories.NotificationTypeOrderDelivered), 1)
}

func TestAcceptOrderOnlyFromNew(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusInProgress, models.PaymentStatusEscrow)

	_, err := f.svc.AcceptOrder("editor-1", "order-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestLifecycleTransitionsAreEditorOnly(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusNew, models.PaymentStatusUnpaid)

	// The client is a participant but may not run editor transitions.
	_, err := f.svc.AcceptOrder("client-1", "order-1")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// An outsider cannot even see the order.
	_, err = f.svc.AcceptOrder("editor-2", "order-1")
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestApproveOrderReleasesEscrow(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusSubmitted, models.PaymentStatusEscrow)
	f.verifyEditorKYC()

	resp, err := f.svc.ApproveOrder("client-1", "order-1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCompleted, resp.Status)
	assert.Equal(t, models.PaymentStatusReleased, resp.PaymentStatus)
	require.NotNil(t, f.order.CompletedAt)
	assert.Len(t, f.notes.byType("editor-1", repositories.NotificationTypeEscrowReleased), 1)
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0], "ravi@example.com")
}

func TestApproveOrderRequiresEscrowedPayment(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusSubmitted, models.PaymentStatusUnpaid)
	f.verifyEditorKYC()

	_, err := f.svc.ApproveOrder("client-1", "order-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
	assert.Equal(t, models.OrderStatusSubmitted, f.order.Status)
}

func TestApproveOrderRequiresVerifiedKYC(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusSubmitted, models.PaymentStatusEscrow)

	// No KYC record at all.
	_, err := f.svc.ApproveOrder("client-1", "order-1")
	assert.ErrorIs(t, err, apperrors.ErrKYCNotVerified)

	// A pending record is not enough.
	f.kyc.records["editor-1"] = &models.KYCRecord{
		BaseModel: models.BaseModel{ID: "kyc-1"},
		UserID:    "editor-1",
		Status:    models.KYCStatusPending,
	}
	_, err = f.svc.ApproveOrder("client-1", "order-1")
	assert.ErrorIs(t, err, apperrors.ErrKYCNotVerified)

	assert.Equal(t, models.PaymentStatusEscrow, f.order.PaymentStatus, "escrow must stay put until KYC clears")
}

func TestCancelOrderRefundsEscrow(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusAccepted, models.PaymentStatusEscrow)

	resp, err := f.svc.CancelOrder("client-1", "order-1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, resp.Status)
	assert.Equal(t, models.PaymentStatusRefunded, resp.PaymentStatus)
	assert.Len(t, f.notes.byType("client-1", repositories.NotificationTypeOrderRefunded), 1)
}

func TestCancelOrderRefusedAfterDelivery(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusSubmitted, models.PaymentStatusEscrow)

	_, err := f.svc.CancelOrder("client-1", "order-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestCancelOrderIdempotentGuard(t *testing.T) {
	f := newOrderFixture(t, models.OrderStatusAccepted, models.PaymentStatusUnpaid)

	_, err := f.svc.CancelOrder("client-1", "order-1")
	require.NoError(t, err)

	_, err = f.svc.CancelOrder("client-1", "order-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}
