package models

import "time"

// Order is a single engagement between a client and an editor, either
// placed directly or created by purchasing a gig. The delivery lifecycle
// (Status) and the money lifecycle (PaymentStatus) advance independently:
// an order can be delivered before it is paid, but the delivery file can
// only be downloaded once the money is at least in escrow and the order
// has been rated.
type Order struct {
	BaseModel
	Title         string        `gorm:"not null" json:"title"`
	Requirements  string        `json:"requirements"`
	Amount        float64       `gorm:"not null;check:amount > 0" json:"amount"`
	Currency      string        `gorm:"default:'INR'" json:"currency"`
	Deadline      *time.Time    `json:"deadline"`
	Status        OrderStatus   `gorm:"default:'new';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"default:'unpaid';index" json:"payment_status"`

	ClientID string  `gorm:"not null;index" json:"client_id"`
	EditorID string  `gorm:"not null;index" json:"editor_id"`
	GigID    *string `gorm:"index" json:"gig_id,omitempty"`

	// Set when the editor submits the finished cut.
	DeliveryKey  string     `json:"-"`
	DeliveryName string     `json:"delivery_name,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// Relations
	Client User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Editor User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
	Gig    *Gig `gorm:"foreignKey:GigID" json:"gig,omitempty"`
}

// Terminal reports whether the order can no longer change state.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusCompleted ||
		o.Status == OrderStatusCancelled ||
		o.PaymentStatus == PaymentStatusRefunded
}
