package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suvix_backend/internal/middleware"
	"suvix_backend/internal/models"
	"suvix_backend/internal/services"
	"suvix_backend/internal/services/dto"
)

type KYCHandler struct {
	*BaseHandler
	kycService services.KYCService
}

func NewKYCHandler(base *BaseHandler, kycService services.KYCService) *KYCHandler {
	return &KYCHandler{BaseHandler: base, kycService: kycService}
}

func (h *KYCHandler) RegisterRoutes(r *gin.RouterGroup) {
	kyc := r.Group("/kyc")
	kyc.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEditor))
	{
		kyc.POST("", h.Submit)
		kyc.GET("", h.GetOwn)
	}

	admin := r.Group("/admin/kyc")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/pending", h.ListPending)
		admin.POST("/:userId/review", h.Review)
	}
}

func (h *KYCHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitKYCRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.kycService.Submit(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *KYCHandler) GetOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	record, err := h.kycService.GetOwn(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *KYCHandler) ListPending(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	records, err := h.kycService.ListPending(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *KYCHandler) Review(c *gin.Context) {
	var req dto.ReviewKYCRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.kycService.Review(c.Param("userId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
