package models

import "time"

// Rating is the client's post-delivery score for an order. At most one
// rating exists per order per reviewer; the editor may attach exactly one
// response afterwards.
type Rating struct {
	BaseModel
	OrderID    string `gorm:"not null;uniqueIndex:idx_rating_order_reviewer" json:"order_id"`
	ReviewerID string `gorm:"not null;uniqueIndex:idx_rating_order_reviewer" json:"reviewer_id"`
	EditorID   string `gorm:"not null;index" json:"editor_id"`

	Overall       int `gorm:"not null;check:overall >= 1 AND overall <= 5" json:"overall"`
	Quality       int `gorm:"not null;check:quality >= 1 AND quality <= 5" json:"quality"`
	Communication int `gorm:"not null;check:communication >= 1 AND communication <= 5" json:"communication"`
	DeliverySpeed int `gorm:"not null;check:delivery_speed >= 1 AND delivery_speed <= 5" json:"delivery_speed"`

	Review            string     `gorm:"size:1000" json:"review"`
	EditorResponse    *string    `gorm:"size:1000" json:"editor_response,omitempty"`
	EditorRespondedAt *time.Time `json:"editor_responded_at,omitempty"`

	Order    Order `gorm:"foreignKey:OrderID" json:"-"`
	Reviewer User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}
