package dto

import (
	"time"

	"suvix_backend/internal/models"
)

// ---------------- Requests ----------------

type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Name     string          `json:"name" validate:"required,max=100"`
	Role     models.UserRole `json:"role" validate:"required,oneof=client editor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ---------------- Responses ----------------

type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

type UserDTO struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Role          models.UserRole `json:"role"`
	Bio           string          `json:"bio,omitempty"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	AverageRating float64         `json:"average_rating"`
	RatingCount   int64           `json:"rating_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

func UserToDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		AverageRating: u.AverageRating,
		RatingCount:   u.RatingCount,
		CreatedAt:     u.CreatedAt,
	}
}
