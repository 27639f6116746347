package dto

import (
	"time"

	"suvix_backend/internal/models"
)

// ---------------- Requests ----------------

type CreateOrderRequest struct {
	EditorID     string     `json:"editor_id" validate:"required,uuid"`
	Title        string     `json:"title" validate:"required,max=200"`
	Requirements string     `json:"requirements" validate:"omitempty,max=5000"`
	Amount       float64    `json:"amount" validate:"required,gt=0"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type DeliverOrderRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
}

// ---------------- Responses ----------------

type OrderResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Requirements  string               `json:"requirements,omitempty"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Deadline      *time.Time           `json:"deadline,omitempty"`
	DeliveryName  string               `json:"delivery_name,omitempty"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
	GigID         *string              `json:"gig_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`

	Client *ParticipantInfo `json:"client,omitempty"`
	Editor *ParticipantInfo `json:"editor,omitempty"`
}

type ParticipantInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AvatarURL     string  `json:"avatar_url,omitempty"`
	AverageRating float64 `json:"average_rating"`
}

type OrderListResponse struct {
	Orders     []*OrderResponse `json:"orders"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func OrderToResponse(o *models.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:            o.ID,
		Title:         o.Title,
		Requirements:  o.Requirements,
		Amount:        o.Amount,
		Currency:      o.Currency,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Deadline:      o.Deadline,
		DeliveryName:  o.DeliveryName,
		DeliveredAt:   o.DeliveredAt,
		CompletedAt:   o.CompletedAt,
		GigID:         o.GigID,
		CreatedAt:     o.CreatedAt,
	}
	if o.Client.ID != "" {
		resp.Client = &ParticipantInfo{
			ID:            o.Client.ID,
			Name:          o.Client.Name,
			AvatarURL:     o.Client.AvatarURL,
			AverageRating: o.Client.AverageRating,
		}
	}
	if o.Editor.ID != "" {
		resp.Editor = &ParticipantInfo{
			ID:            o.Editor.ID,
			Name:          o.Editor.Name,
			AvatarURL:     o.Editor.AvatarURL,
			AverageRating: o.Editor.AverageRating,
		}
	}
	return resp
}
