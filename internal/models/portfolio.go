package models

// PortfolioItem is a published reel in an editor's public portfolio.
type PortfolioItem struct {
	BaseModelWithDeleted
	EditorID  string `gorm:"not null;index" json:"editor_id"`
	Title     string `gorm:"not null" json:"title"`
	MediaKey  string `gorm:"not null" json:"-"`
	MediaName string `json:"media_name"`
	LikeCount int64  `gorm:"default:0" json:"like_count"`

	Editor User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}

// PortfolioLike records one user's like on a reel; the pair is unique so
// liking is a toggle.
type PortfolioLike struct {
	BaseModel
	ItemID string `gorm:"not null;uniqueIndex:idx_like_item_user" json:"item_id"`
	UserID string `gorm:"not null;uniqueIndex:idx_like_item_user" json:"user_id"`
}
