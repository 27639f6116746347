package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suvix_backend/internal/handlers"
	"suvix_backend/internal/middleware"
	"suvix_backend/ws"
)

// RegisterRoutes mounts every handler under /api/v1 plus the websocket
// endpoint and a health probe.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers, wsHandler *ws.Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		h.AuthHandler.RegisterRoutes(api)
		h.GigHandler.RegisterRoutes(api)
		h.OrderHandler.RegisterRoutes(api)
		h.RatingHandler.RegisterRoutes(api)
		h.PaymentHandler.RegisterRoutes(api)
		h.DownloadHandler.RegisterRoutes(api)
		h.NotificationHandler.RegisterRoutes(api)
		h.KYCHandler.RegisterRoutes(api)
		h.PortfolioHandler.RegisterRoutes(api)
		h.MessageHandler.RegisterRoutes(api)
	}

	r.GET("/ws", middleware.AuthMiddleware(), wsHandler.ServeWS)
}
