package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"suvix_backend/internal/logger"
	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

// Pusher delivers a real-time event to a connected user. The websocket
// manager implements it; a nil-safe no-op is used in tests.
type Pusher interface {
	SendToUser(userID string, payload interface{}) bool
}

type NotificationService interface {
	GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)

	// Factory methods used by the other services. They log failures and
	// never block the calling flow.
	NotifyOrderPlaced(editorID, orderID, orderTitle string)
	NotifyOrderAccepted(clientID, orderID, orderTitle string)
	NotifyOrderDelivered(clientID, orderID, orderTitle string)
	NotifyPaymentReceived(editorID, orderID, orderTitle string)
	NotifyEscrowReleased(editorID, orderID, orderTitle string)
	NotifyOrderRefunded(clientID, orderID, orderTitle string)
	NotifyNewRating(editorID, orderID string, overall int)
	NotifyNewMessage(recipientID, orderID, senderName string)
	NotifyKYCDecision(userID string, verified bool, reason string)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	pusher           Pusher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	pusher Pusher,
) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, pusher: pusher}
}

func (s *notificationService) GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindByUser(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(notifications)),
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages(total, pageSize),
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.NotificationToResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(notificationID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// ---------------- Factory methods ----------------

func (s *notificationService) NotifyOrderPlaced(editorID, orderID, orderTitle string) {
	s.deliver(editorID, repositories.NotificationTypeOrderPlaced, "New order",
		fmt.Sprintf("You received a new order: %s", orderTitle),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) NotifyOrderAccepted(clientID, orderID, orderTitle string) {
	s.deliver(clientID, repositories.NotificationTypeOrderAccepted, "Order accepted",
		fmt.Sprintf("Your order %q was accepted", orderTitle),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) NotifyOrderDelivered(clientID, orderID, orderTitle string) {
	s.deliver(clientID, repositories.NotificationTypeOrderDelivered, "Order delivered",
		fmt.Sprintf("Your order %q has been delivered", orderTitle),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) NotifyPaymentReceived(editorID, orderID, orderTitle string) {
	s.deliver(editorID, repositories.NotificationTypePaymentReceived, "Payment received",
		fmt.Sprintf("Payment for %q is now held in escrow", orderTitle),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) NotifyEscrowReleased(editorID, orderID, orderTitle string) {
	s.deliver(editorID, repositories.NotificationTypeEscrowReleased, "Funds released",
		fmt.Sprintf("Escrow for %q was released to you", orderTitle),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) NotifyOrderRefunded(clientID, orderID, orderTitle string) {
	s.deliver(clientID, repositories.NotificationTypeOrderRefunded, "Order refunded",
		fmt.Sprintf("Your payment for %q was refunded", orderTitle),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) NotifyNewRating(editorID, orderID string, overall int) {
	s.deliver(editorID, repositories.NotificationTypeNewRating, "New rating",
		fmt.Sprintf("You received a %d-star rating", overall),
		map[string]interface{}{"order_id": orderID, "overall": overall})
}

func (s *notificationService) NotifyNewMessage(recipientID, orderID, senderName string) {
	s.deliver(recipientID, repositories.NotificationTypeNewMessage, "New message",
		fmt.Sprintf("%s sent you a message", senderName),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) NotifyKYCDecision(userID string, verified bool, reason string) {
	title := "KYC verified"
	message := "Your identity verification was approved"
	if !verified {
		title = "KYC rejected"
		message = "Your identity verification was rejected: " + reason
	}
	s.deliver(userID, repositories.NotificationTypeKYCDecision, title, message, nil)
}

// deliver persists the notification and pushes it to the user if they
// are connected. Failures are logged, never propagated.
func (s *notificationService) deliver(userID, notType, title, message string, data map[string]interface{}) {
	n := &models.Notification{
		UserID:  userID,
		Type:    notType,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			n.Data = datatypes.JSON(raw)
		}
	}

	if err := s.notificationRepo.Create(n); err != nil {
		logger.WithError(err).Error("failed to persist notification",
			"user_id", userID, "type", notType)
		return
	}

	if s.pusher != nil {
		s.pusher.SendToUser(userID, map[string]interface{}{
			"event":        "notification",
			"notification": dto.NotificationToResponse(n),
		})
	}
}
