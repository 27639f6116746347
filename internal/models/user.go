package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Role         UserRole   `gorm:"not null;index" json:"role"`
	Status       UserStatus `gorm:"default:'active'" json:"status"`
	Bio          string     `json:"bio"`
	AvatarURL    string     `json:"avatar_url"`

	// Denormalized rating aggregates, refreshed on each new rating.
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	RatingCount   int64   `gorm:"default:0" json:"rating_count"`
}
