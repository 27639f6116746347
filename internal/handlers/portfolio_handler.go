package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suvix_backend/internal/middleware"
	"suvix_backend/internal/models"
	"suvix_backend/internal/services"
	"suvix_backend/pkg/apperrors"
)

type PortfolioHandler struct {
	*BaseHandler
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(base *BaseHandler, portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{BaseHandler: base, portfolioService: portfolioService}
}

func (h *PortfolioHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/portfolio/feed", h.GetFeed)
	r.GET("/editors/:editorId/portfolio", h.GetEditorItems)

	editor := r.Group("/portfolio")
	editor.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEditor))
	{
		editor.POST("", h.CreateItem)
		editor.DELETE("/:itemId", h.DeleteItem)
	}

	likes := r.Group("/portfolio")
	likes.Use(middleware.AuthMiddleware())
	{
		likes.POST("/:itemId/like", h.ToggleLike)
	}
}

// CreateItem accepts a multipart upload: "title" form value plus the
// reel under "file".
func (h *PortfolioHandler) CreateItem(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	if title == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("A title is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("A media file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	item, err := h.portfolioService.CreateItem(c.Request.Context(), userID, title,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *PortfolioHandler) GetFeed(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	viewerID := middleware.GetUserID(c)

	feed, err := h.portfolioService.GetFeed(c.Request.Context(), viewerID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *PortfolioHandler) GetEditorItems(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	items, err := h.portfolioService.GetEditorItems(c.Request.Context(), c.Param("editorId"), viewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *PortfolioHandler) ToggleLike(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.portfolioService.ToggleLike(c.Param("itemId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortfolioHandler) DeleteItem(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.portfolioService.DeleteItem(c.Request.Context(), userID, c.Param("itemId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
