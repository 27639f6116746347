package repositories

import (
	"errors"

	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *models.Message) error
	// FindByOrder lists the order's messages oldest first.
	FindByOrder(orderID string, page, pageSize int) ([]models.Message, int64, error)
	MarkReadUpTo(orderID, readerID string) error
	UnreadCountForOrder(orderID, readerID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepository) FindByOrder(orderID string, page, pageSize int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	query := r.db.Model(&models.Message{}).Where("order_id = ?", orderID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Sender").
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *messageRepository) MarkReadUpTo(orderID, readerID string) error {
	return r.db.Model(&models.Message{}).
		Where("order_id = ? AND sender_id <> ? AND is_read = ?", orderID, readerID, false).
		Update("is_read", true).Error
}

func (r *messageRepository) UnreadCountForOrder(orderID, readerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("order_id = ? AND sender_id <> ? AND is_read = ?", orderID, readerID, false).
		Count(&count).Error
	return count, err
}
