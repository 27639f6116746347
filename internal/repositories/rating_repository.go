package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

var (
	ErrRatingNotFound      = errors.New("rating not found")
	ErrRatingAlreadyExists = errors.New("rating already exists for this order")
)

// EditorRatingStats aggregates an editor's ratings for profile pages.
type EditorRatingStats struct {
	AverageOverall       float64       `json:"average_overall"`
	AverageQuality       float64       `json:"average_quality"`
	AverageCommunication float64       `json:"average_communication"`
	AverageDeliverySpeed float64       `json:"average_delivery_speed"`
	TotalRatings         int64         `json:"total_ratings"`
	RatingCounts         map[int]int64 `json:"rating_counts"` // overall stars -> count
	RecentRatings        int64         `json:"recent_ratings"` // last 30 days
}

type RatingRepository interface {
	Create(rating *models.Rating) error
	FindByID(id string) (*models.Rating, error)
	FindByOrderAndReviewer(orderID, reviewerID string) (*models.Rating, error)
	ExistsForOrderAndReviewer(orderID, reviewerID string) (bool, error)
	FindByEditor(editorID string, page, pageSize int) ([]models.Rating, int64, error)
	Update(rating *models.Rating) error
	GetEditorStats(editorID string) (*EditorRatingStats, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(rating *models.Rating) error {
	exists, err := r.ExistsForOrderAndReviewer(rating.OrderID, rating.ReviewerID)
	if err != nil {
		return err
	}
	if exists {
		return ErrRatingAlreadyExists
	}
	return r.db.Create(rating).Error
}

func (r *ratingRepository) FindByID(id string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.Preload("Reviewer").First(&rating, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByOrderAndReviewer(orderID, reviewerID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("order_id = ? AND reviewer_id = ?", orderID, reviewerID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ExistsForOrderAndReviewer(orderID, reviewerID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).
		Where("order_id = ? AND reviewer_id = ?", orderID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *ratingRepository) FindByEditor(editorID string, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	query := r.db.Model(&models.Rating{}).Where("editor_id = ?", editorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Reviewer").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

func (r *ratingRepository) Update(rating *models.Rating) error {
	return r.db.Save(rating).Error
}

func (r *ratingRepository) GetEditorStats(editorID string) (*EditorRatingStats, error) {
	stats := &EditorRatingStats{RatingCounts: make(map[int]int64)}

	var row struct {
		AvgOverall       float64
		AvgQuality       float64
		AvgCommunication float64
		AvgDeliverySpeed float64
		Total            int64
	}
	err := r.db.Model(&models.Rating{}).
		Select(`COALESCE(AVG(overall), 0) as avg_overall,
			COALESCE(AVG(quality), 0) as avg_quality,
			COALESCE(AVG(communication), 0) as avg_communication,
			COALESCE(AVG(delivery_speed), 0) as avg_delivery_speed,
			COUNT(*) as total`).
		Where("editor_id = ?", editorID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats.AverageOverall = row.AvgOverall
	stats.AverageQuality = row.AvgQuality
	stats.AverageCommunication = row.AvgCommunication
	stats.AverageDeliverySpeed = row.AvgDeliverySpeed
	stats.TotalRatings = row.Total

	var counts []struct {
		Overall int
		Count   int64
	}
	err = r.db.Model(&models.Rating{}).
		Select("overall, COUNT(*) as count").
		Where("editor_id = ?", editorID).
		Group("overall").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.RatingCounts[c.Overall] = c.Count
	}

	err = r.db.Model(&models.Rating{}).
		Where("editor_id = ? AND created_at > ?", editorID, time.Now().AddDate(0, 0, -30)).
		Count(&stats.RecentRatings).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
