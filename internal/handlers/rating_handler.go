package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suvix_backend/internal/middleware"
	"suvix_backend/internal/models"
	"suvix_backend/internal/services"
	"suvix_backend/internal/services/dto"
)

type RatingHandler struct {
	*BaseHandler
	ratingService   services.RatingService
	downloadService services.DownloadService
}

func NewRatingHandler(
	base *BaseHandler,
	ratingService services.RatingService,
	downloadService services.DownloadService,
) *RatingHandler {
	return &RatingHandler{
		BaseHandler:     base,
		ratingService:   ratingService,
		downloadService: downloadService,
	}
}

func (h *RatingHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/ratings")
	{
		public.GET("/editors/:editorId", h.GetEditorRatings)
		public.GET("/editors/:editorId/stats", h.GetEditorStats)
	}

	ratings := r.Group("/ratings")
	ratings.Use(middleware.AuthMiddleware())
	{
		ratings.GET("/check/:orderId", h.CheckRated)
		ratings.GET("/orders/:orderId", h.GetOrderRating)
		ratings.POST("/orders/:orderId", middleware.RequireRoles(models.UserRoleClient), h.CreateRating)
		ratings.POST("/:ratingId/respond", middleware.RequireRoles(models.UserRoleEditor), h.EditorRespond)
	}
}

func (h *RatingHandler) CreateRating(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRatingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	orderID := c.Param("orderId")
	rating, err := h.ratingService.CreateRating(userID, orderID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// An open download gate session learns about the rating immediately
	// instead of waiting for a re-check.
	h.downloadService.MarkRated(userID, orderID)

	c.JSON(http.StatusCreated, rating)
}

// CheckRated answers {"isRated": bool} for the caller's own rating on
// the order.
func (h *RatingHandler) CheckRated(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.ratingService.CheckRated(userID, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RatingHandler) GetOrderRating(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	rating, err := h.ratingService.GetOrderRating(userID, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) GetEditorRatings(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	ratings, err := h.ratingService.GetEditorRatings(c.Param("editorId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func (h *RatingHandler) GetEditorStats(c *gin.Context) {
	stats, err := h.ratingService.GetEditorStats(c.Param("editorId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *RatingHandler) EditorRespond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.EditorResponseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	rating, err := h.ratingService.EditorRespond(userID, c.Param("ratingId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
