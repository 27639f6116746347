package models

// Gig is a pre-defined service an editor offers at a fixed price and
// delivery time. Purchasing a gig creates an Order priced from it.
type Gig struct {
	BaseModelWithDeleted
	EditorID     string  `gorm:"not null;index" json:"editor_id"`
	Title        string  `gorm:"not null" json:"title"`
	Description  string  `json:"description"`
	Price        float64 `gorm:"not null;check:price > 0" json:"price"`
	DeliveryDays int     `gorm:"not null;default:3" json:"delivery_days"`
	IsActive     bool    `gorm:"default:true;index" json:"is_active"`

	Editor User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}
