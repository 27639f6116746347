package dto

import (
	"time"

	"suvix_backend/internal/models"
)

// ---------------- Requests ----------------

type CreateRatingRequest struct {
	Overall       int    `json:"overall" validate:"required,min=1,max=5"`
	Quality       int    `json:"quality" validate:"required,min=1,max=5"`
	Communication int    `json:"communication" validate:"required,min=1,max=5"`
	DeliverySpeed int    `json:"delivery_speed" validate:"required,min=1,max=5"`
	Review        string `json:"review" validate:"omitempty,max=1000"`
}

type EditorResponseRequest struct {
	Response string `json:"response" validate:"required,max=1000"`
}

// ---------------- Responses ----------------

// RatingCheckResponse answers "has this reviewer rated this order yet",
// the question the download gate asks before unlocking.
type RatingCheckResponse struct {
	IsRated bool `json:"isRated"`
}

type RatingResponse struct {
	ID                string     `json:"id"`
	OrderID           string     `json:"order_id"`
	EditorID          string     `json:"editor_id"`
	Overall           int        `json:"overall"`
	Quality           int        `json:"quality"`
	Communication     int        `json:"communication"`
	DeliverySpeed     int        `json:"delivery_speed"`
	Review            string     `json:"review,omitempty"`
	EditorResponse    *string    `json:"editor_response,omitempty"`
	EditorRespondedAt *time.Time `json:"editor_responded_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`

	Reviewer *ParticipantInfo `json:"reviewer,omitempty"`
}

type RatingListResponse struct {
	Ratings    []*RatingResponse `json:"ratings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type EditorStatsResponse struct {
	AverageOverall       float64       `json:"average_overall"`
	AverageQuality       float64       `json:"average_quality"`
	AverageCommunication float64       `json:"average_communication"`
	AverageDeliverySpeed float64       `json:"average_delivery_speed"`
	TotalRatings         int64         `json:"total_ratings"`
	RatingCounts         map[int]int64 `json:"rating_counts"`
	RecentRatings        int64         `json:"recent_ratings"`
}

func RatingToResponse(r *models.Rating) *RatingResponse {
	resp := &RatingResponse{
		ID:                r.ID,
		OrderID:           r.OrderID,
		EditorID:          r.EditorID,
		Overall:           r.Overall,
		Quality:           r.Quality,
		Communication:     r.Communication,
		DeliverySpeed:     r.DeliverySpeed,
		Review:            r.Review,
		EditorResponse:    r.EditorResponse,
		EditorRespondedAt: r.EditorRespondedAt,
		CreatedAt:         r.CreatedAt,
	}
	if r.Reviewer.ID != "" {
		resp.Reviewer = &ParticipantInfo{
			ID:            r.Reviewer.ID,
			Name:          r.Reviewer.Name,
			AvatarURL:     r.Reviewer.AvatarURL,
			AverageRating: r.Reviewer.AverageRating,
		}
	}
	return resp
}
