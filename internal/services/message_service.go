package services

import (
	"errors"

	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

// MessageService handles the order-scoped conversation between the
// client and the editor.
type MessageService interface {
	SendMessage(senderID, orderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetMessages(userID, orderID string, page, pageSize int) (*dto.MessageListResponse, error)
	MarkRead(userID, orderID string) error
}

type messageService struct {
	messageRepo repositories.MessageRepository
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	notifier    NotificationService
	pusher      Pusher
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	pusher Pusher,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		pusher:      pusher,
	}
}

func (s *messageService) SendMessage(senderID, orderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	order, recipientID, err := s.conversation(senderID, orderID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		OrderID:  order.ID,
		SenderID: senderID,
		Body:     req.Body,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.MessageToResponse(message)

	// Push to the recipient if connected; the persisted notification is
	// the fallback for offline users.
	delivered := false
	if s.pusher != nil {
		delivered = s.pusher.SendToUser(recipientID, map[string]interface{}{
			"event":   "message",
			"message": resp,
		})
	}
	if !delivered {
		sender, err := s.userRepo.FindByID(senderID)
		senderName := "Someone"
		if err == nil {
			senderName = sender.Name
		}
		s.notifier.NotifyNewMessage(recipientID, orderID, senderName)
	}

	return resp, nil
}

func (s *messageService) GetMessages(userID, orderID string, page, pageSize int) (*dto.MessageListResponse, error) {
	if _, _, err := s.conversation(userID, orderID); err != nil {
		return nil, err
	}

	messages, total, err := s.messageRepo.FindByOrder(orderID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.MessageListResponse{
		Messages:   make([]*dto.MessageResponse, 0, len(messages)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range messages {
		resp.Messages = append(resp.Messages, dto.MessageToResponse(&messages[i]))
	}
	return resp, nil
}

func (s *messageService) MarkRead(userID, orderID string) error {
	if _, _, err := s.conversation(userID, orderID); err != nil {
		return err
	}
	if err := s.messageRepo.MarkReadUpTo(orderID, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// conversation checks the user is a party to the order and returns the
// other participant.
func (s *messageService) conversation(userID, orderID string) (*models.Order, string, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, "", apperrors.ErrNotFound(err)
		}
		return nil, "", apperrors.InternalError(err)
	}
	switch userID {
	case order.ClientID:
		return order, order.EditorID, nil
	case order.EditorID:
		return order, order.ClientID, nil
	default:
		return nil, "", apperrors.ErrNotFound(repositories.ErrOrderNotFound)
	}
}
