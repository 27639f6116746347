package repositories

import (
	"errors"

	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

var ErrKYCNotFound = errors.New("kyc record not found")

type KYCRepository interface {
	// Upsert creates the user's record or replaces a rejected one.
	// A pending or verified record is never overwritten.
	Upsert(record *models.KYCRecord) error
	FindByUser(userID string) (*models.KYCRecord, error)
	FindPending(page, pageSize int) ([]models.KYCRecord, int64, error)
	Update(record *models.KYCRecord) error
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Upsert(record *models.KYCRecord) error {
	existing, err := r.FindByUser(record.UserID)
	if err != nil {
		if errors.Is(err, ErrKYCNotFound) {
			return r.db.Create(record).Error
		}
		return err
	}
	if existing.Status != models.KYCStatusRejected {
		return gorm.ErrDuplicatedKey
	}
	record.ID = existing.ID
	record.Status = models.KYCStatusPending
	record.RejectionReason = ""
	return r.db.Save(record).Error
}

func (r *kycRepository) FindByUser(userID string) (*models.KYCRecord, error) {
	var record models.KYCRecord
	if err := r.db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *kycRepository) FindPending(page, pageSize int) ([]models.KYCRecord, int64, error) {
	var records []models.KYCRecord
	var total int64

	query := r.db.Model(&models.KYCRecord{}).Where("status = ?", models.KYCStatusPending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *kycRepository) Update(record *models.KYCRecord) error {
	return r.db.Save(record).Error
}
