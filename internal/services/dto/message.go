package dto

import (
	"time"

	"suvix_backend/internal/models"
)

// ---------------- Requests ----------------

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// ---------------- Responses ----------------

type MessageResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	Sender *ParticipantInfo `json:"sender,omitempty"`
}

type MessageListResponse struct {
	Messages   []*MessageResponse `json:"messages"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func MessageToResponse(m *models.Message) *MessageResponse {
	resp := &MessageResponse{
		ID:        m.ID,
		OrderID:   m.OrderID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
	if m.Sender.ID != "" {
		resp.Sender = &ParticipantInfo{
			ID:        m.Sender.ID,
			Name:      m.Sender.Name,
			AvatarURL: m.Sender.AvatarURL,
		}
	}
	return resp
}
