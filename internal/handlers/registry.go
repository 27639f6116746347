package handlers

import (
	"suvix_backend/internal/services"
	"suvix_backend/internal/validator"
)

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	GigHandler          *GigHandler
	OrderHandler        *OrderHandler
	RatingHandler       *RatingHandler
	PaymentHandler      *PaymentHandler
	DownloadHandler     *DownloadHandler
	NotificationHandler *NotificationHandler
	KYCHandler          *KYCHandler
	PortfolioHandler    *PortfolioHandler
	MessageHandler      *MessageHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, sc.AuthService),
		GigHandler:          NewGigHandler(base, sc.GigService),
		OrderHandler:        NewOrderHandler(base, sc.OrderService),
		RatingHandler:       NewRatingHandler(base, sc.RatingService, sc.DownloadService),
		PaymentHandler:      NewPaymentHandler(base, sc.PaymentService),
		DownloadHandler:     NewDownloadHandler(base, sc.DownloadService),
		NotificationHandler: NewNotificationHandler(base, sc.NotificationService),
		KYCHandler:          NewKYCHandler(base, sc.KYCService),
		PortfolioHandler:    NewPortfolioHandler(base, sc.PortfolioService),
		MessageHandler:      NewMessageHandler(base, sc.MessageService),
	}
}
