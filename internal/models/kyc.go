package models

import "time"

// KYCRecord holds the identity and bank details an editor must verify
// before escrow funds can be released to them. One live record per user.
type KYCRecord struct {
	BaseModel
	UserID          string    `gorm:"not null;uniqueIndex" json:"user_id"`
	LegalName       string    `gorm:"not null" json:"legal_name"`
	PANNumber       string    `gorm:"not null" json:"pan_number"`
	BankAccount     string    `gorm:"not null" json:"bank_account"`
	IFSC            string    `gorm:"not null" json:"ifsc"`
	Status          KYCStatus `gorm:"default:'pending';index" json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
