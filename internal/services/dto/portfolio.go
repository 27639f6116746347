package dto

import (
	"time"

	"suvix_backend/internal/models"
)

// ---------------- Requests ----------------

type CreatePortfolioItemRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// ---------------- Responses ----------------

type PortfolioItemResponse struct {
	ID        string    `json:"id"`
	EditorID  string    `json:"editor_id"`
	Title     string    `json:"title"`
	MediaName string    `json:"media_name,omitempty"`
	MediaURL  string    `json:"media_url,omitempty"`
	LikeCount int64     `json:"like_count"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`

	Editor *ParticipantInfo `json:"editor,omitempty"`
}

type PortfolioFeedResponse struct {
	Items      []*PortfolioItemResponse `json:"items"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

type ToggleLikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

func PortfolioItemToResponse(item *models.PortfolioItem, mediaURL string, liked bool) *PortfolioItemResponse {
	resp := &PortfolioItemResponse{
		ID:        item.ID,
		EditorID:  item.EditorID,
		Title:     item.Title,
		MediaName: item.MediaName,
		MediaURL:  mediaURL,
		LikeCount: item.LikeCount,
		Liked:     liked,
		CreatedAt: item.CreatedAt,
	}
	if item.Editor.ID != "" {
		resp.Editor = &ParticipantInfo{
			ID:            item.Editor.ID,
			Name:          item.Editor.Name,
			AvatarURL:     item.Editor.AvatarURL,
			AverageRating: item.Editor.AverageRating,
		}
	}
	return resp
}
