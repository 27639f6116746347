package repositories

import (
	"errors"

	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

var ErrPaymentIntentNotFound = errors.New("payment intent not found")

type PaymentRepository interface {
	Create(intent *models.PaymentIntent) error
	FindByID(id string) (*models.PaymentIntent, error)
	FindByGatewayOrderID(gatewayOrderID string) (*models.PaymentIntent, error)
	// FindLiveByOrder returns the newest intent for the order that can
	// still complete (created or processing), if any.
	FindLiveByOrder(orderID string) (*models.PaymentIntent, error)
	// FindLatestByOrder returns the newest intent regardless of state.
	FindLatestByOrder(orderID string) (*models.PaymentIntent, error)
	Update(intent *models.PaymentIntent) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(intent *models.PaymentIntent) error {
	return r.db.Create(intent).Error
}

func (r *paymentRepository) FindByID(id string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	if err := r.db.First(&intent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *paymentRepository) FindByGatewayOrderID(gatewayOrderID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.Where("gateway_order_id = ?", gatewayOrderID).First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *paymentRepository) FindLiveByOrder(orderID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.Where("order_id = ? AND status IN ?", orderID,
		[]models.IntentStatus{models.IntentStatusCreated, models.IntentStatusProcessing}).
		Order("created_at DESC").
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *paymentRepository) FindLatestByOrder(orderID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *paymentRepository) Update(intent *models.PaymentIntent) error {
	return r.db.Save(intent).Error
}
