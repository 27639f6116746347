package models

// Message is one entry in an order's conversation thread between the
// client and the editor.
type Message struct {
	BaseModel
	OrderID  string `gorm:"not null;index" json:"order_id"`
	SenderID string `gorm:"not null;index" json:"sender_id"`
	Body     string `gorm:"not null;size:4000" json:"body"`
	IsRead   bool   `gorm:"default:false;index" json:"is_read"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
