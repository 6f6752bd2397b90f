package exclusions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/giftcard-service/pkg/common"
)

// Handler handles HTTP requests for exclusion periods
type Handler struct {
	service *Service
}

// NewHandler creates a new exclusion period handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers exclusion period routes. All routes are staff-only.
func RegisterRoutes(r *gin.Engine, handler *Handler, authMiddleware gin.HandlerFunc) {
	periods := r.Group("/api/v1/exclusion-periods")
	periods.Use(authMiddleware)
	{
		periods.POST("", handler.CreateExclusionPeriod)
		periods.GET("", handler.ListExclusionPeriods)
		periods.GET("/:id", handler.GetExclusionPeriod)
		periods.PATCH("/:id", handler.UpdateExclusionPeriod)
		periods.DELETE("/:id", handler.DeleteExclusionPeriod)
	}
}

// CreateExclusionPeriod creates a new exclusion period
// POST /api/v1/exclusion-periods
func (h *Handler) CreateExclusionPeriod(c *gin.Context) {
	var req CreateExclusionPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	period, err := h.service.CreateExclusionPeriod(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create exclusion period")
		return
	}

	common.CreatedResponse(c, period)
}

// ListExclusionPeriods lists all exclusion periods
// GET /api/v1/exclusion-periods
func (h *Handler) ListExclusionPeriods(c *gin.Context) {
	periods, err := h.service.ListExclusionPeriods(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list exclusion periods")
		return
	}

	common.SuccessResponse(c, periods)
}

// GetExclusionPeriod gets an exclusion period by ID
// GET /api/v1/exclusion-periods/:id
func (h *Handler) GetExclusionPeriod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid exclusion period ID")
		return
	}

	period, err := h.service.GetExclusionPeriod(c.Request.Context(), id)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusNotFound, "exclusion period not found")
		return
	}

	common.SuccessResponse(c, period)
}

// UpdateExclusionPeriod applies a partial update to an exclusion period
// PATCH /api/v1/exclusion-periods/:id
func (h *Handler) UpdateExclusionPeriod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid exclusion period ID")
		return
	}

	var req UpdateExclusionPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	period, err := h.service.UpdateExclusionPeriod(c.Request.Context(), id, &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update exclusion period")
		return
	}

	common.SuccessResponse(c, period)
}

// DeleteExclusionPeriod deletes an exclusion period
// DELETE /api/v1/exclusion-periods/:id
func (h *Handler) DeleteExclusionPeriod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid exclusion period ID")
		return
	}

	if err := h.service.DeleteExclusionPeriod(c.Request.Context(), id); err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete exclusion period")
		return
	}

	common.SuccessResponse(c, gin.H{
		"message": "Exclusion period deleted successfully",
	})
}
