package menutypes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/giftcard-service/pkg/common"
)

// Handler handles HTTP requests for menu types
type Handler struct {
	service *Service
}

// NewHandler creates a new menu type handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers menu type routes. All routes are staff-only.
func RegisterRoutes(r *gin.Engine, handler *Handler, authMiddleware gin.HandlerFunc) {
	menuTypes := r.Group("/api/v1/menu-types")
	menuTypes.Use(authMiddleware)
	{
		menuTypes.POST("", handler.CreateMenuType)
		menuTypes.GET("", handler.ListMenuTypes)
		menuTypes.GET("/:id", handler.GetMenuType)
		menuTypes.PATCH("/:id", handler.UpdateMenuType)
		menuTypes.DELETE("/:id", handler.DeleteMenuType)
	}
}

// CreateMenuType creates a new menu type
// POST /api/v1/menu-types
func (h *Handler) CreateMenuType(c *gin.Context) {
	var req CreateMenuTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	menuType, err := h.service.CreateMenuType(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create menu type")
		return
	}

	common.CreatedResponse(c, menuType)
}

// ListMenuTypes lists all menu types
// GET /api/v1/menu-types
func (h *Handler) ListMenuTypes(c *gin.Context) {
	menuTypes, err := h.service.ListMenuTypes(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list menu types")
		return
	}

	common.SuccessResponse(c, menuTypes)
}

// GetMenuType gets a menu type by ID
// GET /api/v1/menu-types/:id
func (h *Handler) GetMenuType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid menu type ID")
		return
	}

	menuType, err := h.service.GetMenuType(c.Request.Context(), id)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusNotFound, "menu type not found")
		return
	}

	common.SuccessResponse(c, menuType)
}

// UpdateMenuType updates a menu type
// PATCH /api/v1/menu-types/:id
func (h *Handler) UpdateMenuType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid menu type ID")
		return
	}

	var req UpdateMenuTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	menuType, err := h.service.UpdateMenuType(c.Request.Context(), id, &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update menu type")
		return
	}

	common.SuccessResponse(c, menuType)
}

// DeleteMenuType deletes a menu type unless gift cards reference it
// DELETE /api/v1/menu-types/:id
func (h *Handler) DeleteMenuType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid menu type ID")
		return
	}

	if err := h.service.DeleteMenuType(c.Request.Context(), id); err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete menu type")
		return
	}

	common.SuccessResponse(c, gin.H{
		"message": "Menu type deleted successfully",
	})
}
