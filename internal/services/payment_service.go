package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"suvix_backend/internal/config"
	"suvix_backend/internal/email"
	"suvix_backend/internal/logger"
	"suvix_backend/internal/models"
	"suvix_backend/internal/payments"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

// Gateway is the slice of the payment gateway client the service needs.
// Tests substitute a fake; production wires *payments.Client.
type Gateway interface {
	CreateOrder(ctx context.Context, req payments.OrderRequest) (*payments.GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
	KeyID() string
	Currency() string
}

type PaymentService interface {
	// CreateCheckout opens (or re-serves) the checkout for an order. It
	// is idempotent: while a live intent exists, repeated calls return
	// the same gateway order instead of opening a new one.
	CreateCheckout(ctx context.Context, clientID, orderID string) (*dto.CheckoutResponse, error)

	// VerifyPayment settles a checkout from the payer's callback. Only
	// the HMAC signature is trusted; everything else in the request is
	// treated as attacker-controlled.
	VerifyPayment(clientID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)

	// DismissCheckout records that the payer closed the gateway without
	// paying. No signature is involved; the intent just goes cancelled.
	DismissCheckout(clientID string, req *dto.DismissCheckoutRequest) (*dto.DismissCheckoutResponse, error)

	// HandleWebhook settles payments reported by the gateway
	// server-to-server. It is the fallback when the payer's callback
	// never arrives.
	HandleWebhook(body []byte, signature string) error
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	tx          repositories.Transactor
	gateway     Gateway
	notifier    NotificationService
	mailer      email.Provider
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	tx repositories.Transactor,
	gateway Gateway,
	notifier NotificationService,
	mailer email.Provider,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		tx:          tx,
		gateway:     gateway,
		notifier:    notifier,
		mailer:      mailer,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, clientID, orderID string) (*dto.CheckoutResponse, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if order.ClientID != clientID {
		return nil, apperrors.ErrNotFound(repositories.ErrOrderNotFound)
	}
	if order.Terminal() || order.PaymentStatus != models.PaymentStatusUnpaid {
		return nil, apperrors.ErrOrderNotPayable
	}

	client, err := s.userRepo.FindByID(clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// A live intent means a checkout is already open for this order;
	// hand the same gateway order back instead of creating a duplicate.
	if intent, err := s.paymentRepo.FindLiveByOrder(orderID); err == nil {
		return s.checkoutResponse(intent, client), nil
	} else if !errors.Is(err, repositories.ErrPaymentIntentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	// A failed or dismissed checkout is retried on the same gateway
	// order; the gateway accepts repeat payment attempts against it.
	if prev, err := s.paymentRepo.FindLatestByOrder(orderID); err == nil {
		if prev.Status == models.IntentStatusFailed || prev.Status == models.IntentStatusCancelled {
			prev.Status = models.IntentStatusCreated
			prev.FailureReason = ""
			if err := s.paymentRepo.Update(prev); err != nil {
				return nil, apperrors.InternalError(err)
			}
			return s.checkoutResponse(prev, client), nil
		}
	} else if !errors.Is(err, repositories.ErrPaymentIntentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	orderPaise := toPaise(order.Amount)
	feePaise := platformFee(orderPaise)
	totalPaise := orderPaise + feePaise

	gatewayOrder, err := s.gateway.CreateOrder(ctx, payments.OrderRequest{
		Amount:   totalPaise,
		Currency: s.gateway.Currency(),
		Receipt:  "order_" + order.ID,
		Notes: map[string]string{
			"order_id":  order.ID,
			"client_id": clientID,
		},
	})
	if err != nil {
		logger.WithError(err).Error("gateway order creation failed", "order_id", order.ID)
		return nil, apperrors.ErrGatewayUnavailable
	}

	intent := &models.PaymentIntent{
		OrderID:        order.ID,
		UserID:         clientID,
		GatewayOrderID: gatewayOrder.ID,
		AmountPaise:    totalPaise,
		Currency:       gatewayOrder.Currency,
		FeePaise:       feePaise,
		Status:         models.IntentStatusCreated,
	}
	if err := s.paymentRepo.Create(intent); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.checkoutResponse(intent, client), nil
}

func (s *paymentService) VerifyPayment(clientID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	intent, err := s.paymentRepo.FindByGatewayOrderID(req.GatewayOrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentIntentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if intent.UserID != clientID {
		return nil, apperrors.ErrNotFound(repositories.ErrPaymentIntentNotFound)
	}

	// A replayed callback for an already settled intent is answered
	// idempotently rather than failed.
	if intent.Status == models.IntentStatusPaid {
		order, err := s.orderRepo.FindByID(intent.OrderID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return &dto.VerifyPaymentResponse{Success: true, Order: dto.OrderToResponse(order)}, nil
	}
	if !intent.Live() {
		return nil, apperrors.ErrInvalidStatus("payment", "Checkout is no longer open")
	}

	// The payer's callback has arrived; the intent is settling. A
	// processing intent is still live, so an interrupted settlement keeps
	// the checkout idempotent instead of minting a new gateway order.
	if intent.Status != models.IntentStatusProcessing {
		intent.Status = models.IntentStatusProcessing
		if err := s.paymentRepo.Update(intent); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if !s.gateway.VerifyPaymentSignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		intent.Status = models.IntentStatusFailed
		intent.FailureReason = "Signature mismatch"
		if err := s.paymentRepo.Update(intent); err != nil {
			logger.WithError(err).Error("failed to record signature failure",
				"gateway_order_id", req.GatewayOrderID)
		}
		return nil, apperrors.ErrSignatureMismatch
	}

	order, err := s.settle(intent, req.GatewayPaymentID)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyPaymentResponse{Success: true, Order: dto.OrderToResponse(order)}, nil
}

func (s *paymentService) DismissCheckout(clientID string, req *dto.DismissCheckoutRequest) (*dto.DismissCheckoutResponse, error) {
	intent, err := s.paymentRepo.FindByGatewayOrderID(req.GatewayOrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentIntentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if intent.UserID != clientID {
		return nil, apperrors.ErrNotFound(repositories.ErrPaymentIntentNotFound)
	}

	// Dismissing an intent that already settled or failed is a no-op.
	if intent.Live() {
		intent.Status = models.IntentStatusCancelled
		if err := s.paymentRepo.Update(intent); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return &dto.DismissCheckoutResponse{Success: true, Status: string(intent.Status)}, nil
}

// webhookEvent is the slice of the gateway's webhook payload we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (s *paymentService) HandleWebhook(body []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		return apperrors.ErrSignatureMismatch
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperrors.NewBadRequestError("Malformed webhook payload")
	}

	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		return apperrors.NewBadRequestError("Webhook payload missing order id")
	}

	intent, err := s.paymentRepo.FindByGatewayOrderID(entity.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentIntentNotFound) {
			// Not our order; acknowledge so the gateway stops retrying.
			logger.Warn("webhook for unknown gateway order", "gateway_order_id", entity.OrderID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	switch event.Event {
	case "payment.captured":
		if intent.Status == models.IntentStatusPaid {
			return nil
		}
		_, err := s.settle(intent, entity.ID)
		return err
	case "payment.failed":
		if !intent.Live() {
			return nil
		}
		intent.Status = models.IntentStatusFailed
		intent.FailureReason = entity.ErrorDescription
		if err := s.paymentRepo.Update(intent); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	default:
		logger.Debug("ignoring webhook event", "event", event.Event)
		return nil
	}
}

// settle marks the intent paid and moves the order's money into escrow,
// atomically. Side effects (notification, receipt email) run after the
// commit.
func (s *paymentService) settle(intent *models.PaymentIntent, gatewayPaymentID string) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(intent.OrderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if order.PaymentStatus != models.PaymentStatusUnpaid {
		return nil, apperrors.ErrInvalidStatus("payment", "Order is not awaiting payment")
	}

	now := time.Now()
	err = s.tx.WithTx(func(repos repositories.TxRepos) error {
		order.PaymentStatus = models.PaymentStatusEscrow
		if err := repos.Orders.Update(order); err != nil {
			return err
		}
		intent.Status = models.IntentStatusPaid
		intent.GatewayPaymentID = gatewayPaymentID
		intent.PaidAt = &now
		return repos.Payments.Update(intent)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.NotifyPaymentReceived(order.EditorID, order.ID, order.Title)
	s.sendReceiptEmail(order, intent)

	return order, nil
}

func (s *paymentService) checkoutResponse(intent *models.PaymentIntent, client *models.User) *dto.CheckoutResponse {
	orderPaise := intent.AmountPaise - intent.FeePaise
	return &dto.CheckoutResponse{
		Success: true,
		Order: dto.CheckoutOrder{
			ID:       intent.GatewayOrderID,
			Amount:   intent.AmountPaise,
			Currency: intent.Currency,
		},
		KeyID: s.gateway.KeyID(),
		Prefill: dto.Prefill{
			Name:  client.Name,
			Email: client.Email,
		},
		FeeBreakdown: dto.FeeBreakdown{
			OrderPaise:    orderPaise,
			FeePaise:      intent.FeePaise,
			TotalPaise:    intent.AmountPaise,
			FeePercentage: int(config.GetConfig().Platform.FeePercent),
		},
	}
}

func (s *paymentService) sendReceiptEmail(order *models.Order, intent *models.PaymentIntent) {
	client, err := s.userRepo.FindByID(order.ClientID)
	if err != nil {
		logger.WithError(err).Warn("receipt email skipped", "order_id", order.ID)
		return
	}
	subject, body := email.PaymentReceipt(order.Title,
		float64(intent.AmountPaise)/100, intent.Currency)
	if err := s.mailer.Send(client.Email, subject, body); err != nil {
		logger.WithError(err).Warn("receipt email failed", "order_id", order.ID)
	}
}

// toPaise converts a rupee amount to integer paise, rounding to the
// nearest paisa to avoid float drift.
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// platformFee computes the commission in paise from the configured
// percentage.
func platformFee(orderPaise int64) int64 {
	pct := config.GetConfig().Platform.FeePercent
	return int64(math.Round(float64(orderPaise) * pct / 100))
}
