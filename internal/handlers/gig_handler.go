package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suvix_backend/internal/middleware"
	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services"
	"suvix_backend/internal/services/dto"
)

type GigHandler struct {
	*BaseHandler
	gigService services.GigService
}

func NewGigHandler(base *BaseHandler, gigService services.GigService) *GigHandler {
	return &GigHandler{BaseHandler: base, gigService: gigService}
}

func (h *GigHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/gigs")
	{
		public.GET("", h.SearchGigs)
		public.GET("/:gigId", h.GetGig)
	}

	editor := r.Group("/gigs")
	editor.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEditor))
	{
		editor.POST("", h.CreateGig)
		editor.PATCH("/:gigId", h.UpdateGig)
		editor.DELETE("/:gigId", h.DeleteGig)
	}

	purchase := r.Group("/gigs")
	purchase.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		purchase.POST("/:gigId/purchase", h.PurchaseGig)
	}

	r.GET("/editors/:editorId/gigs", h.GetEditorGigs)
}

func (h *GigHandler) SearchGigs(c *gin.Context) {
	var criteria repositories.GigCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	gigs, err := h.gigService.SearchGigs(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gigs)
}

func (h *GigHandler) GetGig(c *gin.Context) {
	gig, err := h.gigService.GetGig(c.Param("gigId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gig)
}

func (h *GigHandler) GetEditorGigs(c *gin.Context) {
	gigs, err := h.gigService.GetEditorGigs(c.Param("editorId"), false)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

func (h *GigHandler) CreateGig(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGigRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	gig, err := h.gigService.CreateGig(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gig)
}

func (h *GigHandler) UpdateGig(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateGigRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	gig, err := h.gigService.UpdateGig(userID, c.Param("gigId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gig)
}

func (h *GigHandler) DeleteGig(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.gigService.DeleteGig(userID, c.Param("gigId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GigHandler) PurchaseGig(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PurchaseGigRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	order, err := h.gigService.PurchaseGig(userID, c.Param("gigId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
