package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"suvix_backend/internal/email"
	"suvix_backend/internal/logger"
	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/internal/storage"
	"suvix_backend/pkg/apperrors"
)

type OrderService interface {
	CreateOrder(clientID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(userID, orderID string) (*dto.OrderResponse, error)
	ListOrders(userID string, role models.UserRole, page, pageSize int) (*dto.OrderListResponse, error)

	// Delivery lifecycle. Each transition is legal from exactly the
	// states documented on the method.
	AcceptOrder(editorID, orderID string) (*dto.OrderResponse, error)
	StartOrder(editorID, orderID string) (*dto.OrderResponse, error)
	DeliverOrder(ctx context.Context, editorID, orderID, fileName, contentType string, file io.Reader) (*dto.OrderResponse, error)
	ApproveOrder(clientID, orderID string) (*dto.OrderResponse, error)
	CancelOrder(userID, orderID string) (*dto.OrderResponse, error)
}

type orderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	kycRepo   repositories.KYCRepository
	store     storage.Storage
	notifier  NotificationService
	mailer    email.Provider
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	kycRepo repositories.KYCRepository,
	store storage.Storage,
	notifier NotificationService,
	mailer email.Provider,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		kycRepo:   kycRepo,
		store:     store,
		notifier:  notifier,
		mailer:    mailer,
	}
}

func (s *orderService) CreateOrder(clientID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if req.EditorID == clientID {
		return nil, apperrors.ErrInvalidOperation("order", "Cannot place an order with yourself")
	}

	editor, err := s.userRepo.FindByID(req.EditorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("order", "Editor not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if editor.Role != models.UserRoleEditor {
		return nil, apperrors.ErrInvalidOperation("order", "Target user is not an editor")
	}

	order := &models.Order{
		Title:        req.Title,
		Requirements: req.Requirements,
		Amount:       req.Amount,
		Deadline:     req.Deadline,
		ClientID:     clientID,
		EditorID:     req.EditorID,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.NotifyOrderPlaced(order.EditorID, order.ID, order.Title)

	return dto.OrderToResponse(order), nil
}

func (s *orderService) GetOrder(userID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.participantOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	return dto.OrderToResponse(order), nil
}

func (s *orderService) ListOrders(userID string, role models.UserRole, page, pageSize int) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.FindByParticipant(userID, role, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.OrderListResponse{
		Orders:     make([]*dto.OrderResponse, 0, len(orders)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, dto.OrderToResponse(&orders[i]))
	}
	return resp, nil
}

// AcceptOrder: new -> accepted, editor only.
func (s *orderService) AcceptOrder(editorID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.participantOrder(editorID, orderID)
	if err != nil {
		return nil, err
	}
	if order.EditorID != editorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if order.Status != models.OrderStatusNew {
		return nil, apperrors.ErrInvalidStatus("order",
			fmt.Sprintf("Order cannot be accepted from status %q", order.Status))
	}

	order.Status = models.OrderStatusAccepted
	if err := s.orderRepo.Update(order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.NotifyOrderAccepted(order.ClientID, order.ID, order.Title)
	return dto.OrderToResponse(order), nil
}

// StartOrder: accepted -> in_progress, editor only.
func (s *orderService) StartOrder(editorID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.participantOrder(editorID, orderID)
	if err != nil {
		return nil, err
	}
	if order.EditorID != editorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if order.Status != models.OrderStatusAccepted {
		return nil, apperrors.ErrInvalidStatus("order",
			fmt.Sprintf("Order cannot be started from status %q", order.Status))
	}

	order.Status = models.OrderStatusInProgress
	if err := s.orderRepo.Update(order); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.OrderToResponse(order), nil
}

// DeliverOrder: accepted or in_progress -> submitted. The finished cut is
// stored privately; the client only gets a URL through the download gate.
func (s *orderService) DeliverOrder(ctx context.Context, editorID, orderID, fileName, contentType string, file io.Reader) (*dto.OrderResponse, error) {
	order, err := s.participantOrder(editorID, orderID)
	if err != nil {
		return nil, err
	}
	if order.EditorID != editorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if order.Status != models.OrderStatusAccepted && order.Status != models.OrderStatusInProgress {
		return nil, apperrors.ErrInvalidStatus("order",
			fmt.Sprintf("Order cannot be delivered from status %q", order.Status))
	}

	key := fmt.Sprintf("deliveries/%s/%s", order.ID, uuid.NewString())
	if err := s.store.Save(ctx, key, file, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	order.Status = models.OrderStatusSubmitted
	order.DeliveryKey = key
	order.DeliveryName = fileName
	order.DeliveredAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.NotifyOrderDelivered(order.ClientID, order.ID, order.Title)
	return dto.OrderToResponse(order), nil
}

// ApproveOrder: submitted -> completed, client only. Completion releases
// escrow to the editor, which requires the editor's KYC to be verified.
func (s *orderService) ApproveOrder(clientID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.participantOrder(clientID, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if order.Status != models.OrderStatusSubmitted {
		return nil, apperrors.ErrInvalidStatus("order",
			fmt.Sprintf("Order cannot be approved from status %q", order.Status))
	}
	if order.PaymentStatus != models.PaymentStatusEscrow {
		return nil, apperrors.ErrInvalidStatus("order", "Order must be paid before approval")
	}

	kyc, err := s.kycRepo.FindByUser(order.EditorID)
	if err != nil && !errors.Is(err, repositories.ErrKYCNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if kyc == nil || kyc.Status != models.KYCStatusVerified {
		return nil, apperrors.ErrKYCNotVerified
	}

	now := time.Now()
	err = s.orderRepo.WithTx(func(txRepo repositories.OrderRepository) error {
		order.Status = models.OrderStatusCompleted
		order.PaymentStatus = models.PaymentStatusReleased
		order.CompletedAt = &now
		return txRepo.Update(order)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.NotifyEscrowReleased(order.EditorID, order.ID, order.Title)
	s.sendEscrowReleasedEmail(order)

	return dto.OrderToResponse(order), nil
}

// CancelOrder closes a non-terminal order before delivery. Escrowed money
// goes back to the client.
func (s *orderService) CancelOrder(userID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.participantOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, apperrors.ErrInvalidStatus("order", "Order is already closed")
	}
	if order.Status == models.OrderStatusSubmitted {
		return nil, apperrors.ErrInvalidStatus("order", "Delivered orders cannot be cancelled")
	}

	err = s.orderRepo.WithTx(func(txRepo repositories.OrderRepository) error {
		order.Status = models.OrderStatusCancelled
		if order.PaymentStatus == models.PaymentStatusEscrow {
			order.PaymentStatus = models.PaymentStatusRefunded
		}
		return txRepo.Update(order)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if order.PaymentStatus == models.PaymentStatusRefunded {
		s.notifier.NotifyOrderRefunded(order.ClientID, order.ID, order.Title)
	}
	return dto.OrderToResponse(order), nil
}

// participantOrder loads the order and checks that the user is a party to
// it. Outsiders get a 404, not a 403, so order ids are not probeable.
func (s *orderService) participantOrder(userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if order.ClientID != userID && order.EditorID != userID {
		return nil, apperrors.ErrNotFound(repositories.ErrOrderNotFound)
	}
	return order, nil
}

func (s *orderService) sendEscrowReleasedEmail(order *models.Order) {
	editor, err := s.userRepo.FindByID(order.EditorID)
	if err != nil {
		logger.WithError(err).Warn("escrow release email skipped", "order_id", order.ID)
		return
	}
	subject, body := email.EscrowReleased(order.Title, order.Amount, order.Currency)
	if err := s.mailer.Send(editor.Email, subject, body); err != nil {
		logger.WithError(err).Warn("escrow release email failed", "order_id", order.ID)
	}
}
