package dto

import (
	"time"

	"suvix_backend/internal/models"
)

// ---------------- Requests ----------------

type CreateGigRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description" validate:"omitempty,max=5000"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	DeliveryDays int     `json:"delivery_days" validate:"required,min=1,max=60"`
}

type UpdateGigRequest struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	DeliveryDays *int     `json:"delivery_days,omitempty" validate:"omitempty,min=1,max=60"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

type PurchaseGigRequest struct {
	Requirements string `json:"requirements" validate:"omitempty,max=5000"`
}

// ---------------- Responses ----------------

type GigResponse struct {
	ID           string    `json:"id"`
	EditorID     string    `json:"editor_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	DeliveryDays int       `json:"delivery_days"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	Editor *ParticipantInfo `json:"editor,omitempty"`
}

type GigListResponse struct {
	Gigs       []*GigResponse `json:"gigs"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

func GigToResponse(g *models.Gig) *GigResponse {
	resp := &GigResponse{
		ID:           g.ID,
		EditorID:     g.EditorID,
		Title:        g.Title,
		Description:  g.Description,
		Price:        g.Price,
		DeliveryDays: g.DeliveryDays,
		IsActive:     g.IsActive,
		CreatedAt:    g.CreatedAt,
	}
	if g.Editor.ID != "" {
		resp.Editor = &ParticipantInfo{
			ID:            g.Editor.ID,
			Name:          g.Editor.Name,
			AvatarURL:     g.Editor.AvatarURL,
			AverageRating: g.Editor.AverageRating,
		}
	}
	return resp
}
