package repositories

import (
	"errors"

	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	// RefreshRatingAggregates recomputes the denormalized rating fields
	// for an editor from the ratings table.
	RefreshRatingAggregates(editorID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) RefreshRatingAggregates(editorID string) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(overall), 0) as avg, COUNT(*) as count").
		Where("editor_id = ?", editorID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	return r.db.Model(&models.User{}).
		Where("id = ?", editorID).
		Updates(map[string]interface{}{
			"average_rating": stats.Avg,
			"rating_count":   stats.Count,
		}).Error
}
