package services

import (
	"gorm.io/gorm"

	"suvix_backend/internal/downloadgate"
	"suvix_backend/internal/email"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/storage"
)

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	GigService          GigService
	OrderService        OrderService
	RatingService       RatingService
	PaymentService      PaymentService
	DownloadService     DownloadService
	NotificationService NotificationService
	KYCService          KYCService
	PortfolioService    PortfolioService
	MessageService      MessageService
}

// NewServiceContainer wires the repositories and infrastructure into the
// service graph. The download gate takes the rating service as its
// checker, so the gate and the ratings module agree on what "rated"
// means.
func NewServiceContainer(
	db *gorm.DB,
	store storage.Storage,
	mailer email.Provider,
	gateway Gateway,
	pusher Pusher,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	gigRepo := repositories.NewGigRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	notificationService := NewNotificationService(notificationRepo, pusher)
	ratingService := NewRatingService(ratingRepo, orderRepo, userRepo, notificationService)
	gate := downloadgate.NewStore(ratingService)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo),
		GigService:          NewGigService(gigRepo, orderRepo, notificationService),
		OrderService:        NewOrderService(orderRepo, userRepo, kycRepo, store, notificationService, mailer),
		RatingService:       ratingService,
		PaymentService:      NewPaymentService(paymentRepo, orderRepo, userRepo, repositories.NewTransactor(db), gateway, notificationService, mailer),
		DownloadService:     NewDownloadService(gate, orderRepo, store),
		NotificationService: notificationService,
		KYCService:          NewKYCService(kycRepo, userRepo, notificationService, mailer),
		PortfolioService:    NewPortfolioService(portfolioRepo, store),
		MessageService:      NewMessageService(messageRepo, orderRepo, userRepo, notificationService, pusher),
	}
}
