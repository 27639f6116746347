package repositories

import (
	"errors"

	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

var ErrGigNotFound = errors.New("gig not found")

// GigCriteria filters the public gig catalog.
type GigCriteria struct {
	EditorID string  `form:"editor_id"`
	Search   string  `form:"search"`
	MinPrice float64 `form:"min_price"`
	MaxPrice float64 `form:"max_price"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

type GigRepository interface {
	Create(gig *models.Gig) error
	FindByID(id string) (*models.Gig, error)
	FindByCriteria(criteria GigCriteria) ([]models.Gig, int64, error)
	FindByEditor(editorID string, includeInactive bool) ([]models.Gig, error)
	Update(gig *models.Gig) error
	Delete(id string) error
}

type gigRepository struct {
	db *gorm.DB
}

func NewGigRepository(db *gorm.DB) GigRepository {
	return &gigRepository{db: db}
}

func (r *gigRepository) Create(gig *models.Gig) error {
	return r.db.Create(gig).Error
}

func (r *gigRepository) FindByID(id string) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.Preload("Editor").First(&gig, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	return &gig, nil
}

func (r *gigRepository) FindByCriteria(criteria GigCriteria) ([]models.Gig, int64, error) {
	var gigs []models.Gig
	var total int64

	query := r.db.Model(&models.Gig{}).Where("is_active = ?", true)
	if criteria.EditorID != "" {
		query = query.Where("editor_id = ?", criteria.EditorID)
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if criteria.MinPrice > 0 {
		query = query.Where("price >= ?", criteria.MinPrice)
	}
	if criteria.MaxPrice > 0 {
		query = query.Where("price <= ?", criteria.MaxPrice)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Preload("Editor").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&gigs).Error
	if err != nil {
		return nil, 0, err
	}
	return gigs, total, nil
}

func (r *gigRepository) FindByEditor(editorID string, includeInactive bool) ([]models.Gig, error) {
	var gigs []models.Gig
	query := r.db.Where("editor_id = ?", editorID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at DESC").Find(&gigs).Error
	return gigs, err
}

func (r *gigRepository) Update(gig *models.Gig) error {
	return r.db.Save(gig).Error
}

func (r *gigRepository) Delete(id string) error {
	result := r.db.Delete(&models.Gig{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGigNotFound
	}
	return nil
}
