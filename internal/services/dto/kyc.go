package dto

import (
	"time"

	"suvix_backend/internal/models"
)

// ---------------- Requests ----------------

type SubmitKYCRequest struct {
	LegalName   string `json:"legal_name" validate:"required,max=200"`
	PANNumber   string `json:"pan_number" validate:"required,len=10,alphanum"`
	BankAccount string `json:"bank_account" validate:"required,min=9,max=18,numeric"`
	IFSC        string `json:"ifsc" validate:"required,len=11,alphanum"`
}

type ReviewKYCRequest struct {
	Approve         bool   `json:"approve"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=1000"`
}

// ---------------- Responses ----------------

type KYCResponse struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	LegalName       string           `json:"legal_name"`
	PANNumber       string           `json:"pan_number"`
	BankAccount     string           `json:"bank_account"`
	IFSC            string           `json:"ifsc"`
	Status          models.KYCStatus `json:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	SubmittedAt     time.Time        `json:"submitted_at"`
}

type KYCListResponse struct {
	Records    []*KYCResponse `json:"records"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// maskAccount keeps only the last four digits.
func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	masked := make([]byte, len(account)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + account[len(account)-4:]
}

func KYCToResponse(r *models.KYCRecord) *KYCResponse {
	return &KYCResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		LegalName:       r.LegalName,
		PANNumber:       maskAccount(r.PANNumber),
		BankAccount:     maskAccount(r.BankAccount),
		IFSC:            r.IFSC,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		ReviewedAt:      r.ReviewedAt,
		SubmittedAt:     r.CreatedAt,
	}
}
