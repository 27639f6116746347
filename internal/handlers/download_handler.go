package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suvix_backend/internal/middleware"
	"suvix_backend/internal/models"
	"suvix_backend/internal/services"
	"suvix_backend/internal/services/dto"
)

// DownloadHandler exposes the download gate: a session per (user, order)
// that must pass the rating check and an explicit confirmation before a
// signed delivery URL is handed out.
type DownloadHandler struct {
	*BaseHandler
	downloadService services.DownloadService
}

func NewDownloadHandler(base *BaseHandler, downloadService services.DownloadService) *DownloadHandler {
	return &DownloadHandler{BaseHandler: base, downloadService: downloadService}
}

func (h *DownloadHandler) RegisterRoutes(r *gin.RouterGroup) {
	gate := r.Group("/orders/:orderId/download")
	gate.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		gate.POST("/open", h.OpenGate)
		gate.GET("/state", h.GateState)
		gate.PATCH("/state", h.UpdateGate)
		gate.POST("/confirm", h.ConfirmDownload)
		gate.POST("/close", h.CloseGate)
	}
}

func (h *DownloadHandler) OpenGate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	state, err := h.downloadService.OpenGate(c.Request.Context(), userID, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *DownloadHandler) GateState(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	state, err := h.downloadService.GateState(userID, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *DownloadHandler) UpdateGate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateGateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	state, err := h.downloadService.UpdateGate(userID, c.Param("orderId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *DownloadHandler) ConfirmDownload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ConfirmDownloadRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.downloadService.ConfirmDownload(c.Request.Context(), userID, c.Param("orderId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DownloadHandler) CloseGate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	h.downloadService.CloseGate(userID, c.Param("orderId"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
