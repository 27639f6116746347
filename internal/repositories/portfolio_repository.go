package repositories

import (
	"errors"

	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

var ErrPortfolioItemNotFound = errors.New("portfolio item not found")

type PortfolioRepository interface {
	Create(item *models.PortfolioItem) error
	FindByID(id string) (*models.PortfolioItem, error)
	FindByEditor(editorID string) ([]models.PortfolioItem, error)
	FindFeed(page, pageSize int) ([]models.PortfolioItem, int64, error)
	Update(item *models.PortfolioItem) error
	Delete(id, editorID string) error
	// ToggleLike flips the user's like on the item and returns the new
	// liked state with the updated like count.
	ToggleLike(itemID, userID string) (liked bool, likeCount int64, err error)
	IsLikedBy(itemID, userID string) (bool, error)
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) Create(item *models.PortfolioItem) error {
	return r.db.Create(item).Error
}

func (r *portfolioRepository) FindByID(id string) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	if err := r.db.Preload("Editor").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *portfolioRepository) FindByEditor(editorID string) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	err := r.db.Where("editor_id = ?", editorID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *portfolioRepository) FindFeed(page, pageSize int) ([]models.PortfolioItem, int64, error) {
	var items []models.PortfolioItem
	var total int64

	query := r.db.Model(&models.PortfolioItem{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Editor").
		Order("like_count DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *portfolioRepository) Update(item *models.PortfolioItem) error {
	return r.db.Save(item).Error
}

func (r *portfolioRepository) Delete(id, editorID string) error {
	result := r.db.Where("id = ? AND editor_id = ?", id, editorID).
		Delete(&models.PortfolioItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPortfolioItemNotFound
	}
	return nil
}

func (r *portfolioRepository) ToggleLike(itemID, userID string) (bool, int64, error) {
	var liked bool
	var likeCount int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var item models.PortfolioItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPortfolioItemNotFound
			}
			return err
		}

		var existing models.PortfolioLike
		err := tx.Where("item_id = ? AND user_id = ?", itemID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.PortfolioLike{ItemID: itemID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		if err := tx.Model(&models.PortfolioLike{}).
			Where("item_id = ?", itemID).
			Count(&likeCount).Error; err != nil {
			return err
		}
		return tx.Model(&models.PortfolioItem{}).
			Where("id = ?", itemID).
			Update("like_count", likeCount).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likeCount, nil
}

func (r *portfolioRepository) IsLikedBy(itemID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PortfolioLike{}).
		Where("item_id = ? AND user_id = ?", itemID, userID).
		Count(&count).Error
	return count > 0, err
}
