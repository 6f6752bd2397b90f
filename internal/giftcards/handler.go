package giftcards

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/pagination"
)

// Handler handles HTTP requests for gift cards
type Handler struct {
	service *Service
}

// NewHandler creates a new gift card handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers gift card routes. The payment fallback endpoint is
// public and rate limited; everything else is staff-only.
func RegisterRoutes(r *gin.Engine, handler *Handler, authMiddleware gin.HandlerFunc, rateLimiter gin.HandlerFunc) {
	public := r.Group("/api/v1/gift-cards")
	if rateLimiter != nil {
		public.Use(rateLimiter)
	}
	{
		public.POST("/create-from-payment", handler.CreateFromPayment)
	}

	staff := r.Group("/api/v1/gift-cards")
	staff.Use(authMiddleware)
	{
		staff.POST("", handler.CreateGiftCard)
		staff.GET("", handler.ListGiftCards)
		if rateLimiter != nil {
			staff.GET("/validate", rateLimiter, handler.ValidateGiftCard)
		} else {
			staff.GET("/validate", handler.ValidateGiftCard)
		}
		staff.GET("/:id", handler.GetGiftCard)
		staff.PATCH("/:id", handler.UpdateGiftCard)
		staff.POST("/:id/resend-email", handler.ResendEmail)
		staff.DELETE("/:id", handler.DeleteGiftCard)
	}
}

// CreateFromPayment issues a gift card after a successful checkout when the
// webhook has not arrived yet. Safe to call alongside the webhook: both paths
// collapse onto the same card via the payment reference.
// POST /api/v1/gift-cards/create-from-payment
func (h *Handler) CreateFromPayment(c *gin.Context) {
	var req IssueGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaymentRef == nil || *req.PaymentRef == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "payment_ref is required")
		return
	}

	card, err := h.service.IssueFromPayment(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to issue gift card")
		return
	}

	common.CreatedResponse(c, card)
}

// CreateGiftCard issues a gift card manually (staff)
// POST /api/v1/gift-cards
func (h *Handler) CreateGiftCard(c *gin.Context) {
	var req IssueGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.service.CreateGiftCard(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create gift card")
		return
	}

	common.CreatedResponse(c, card)
}

// ListGiftCards lists gift cards with filters and pagination
// GET /api/v1/gift-cards?is_used=false&search=INF&limit=20&offset=0
func (h *Handler) ListGiftCards(c *gin.Context) {
	params := pagination.ParseParams(c)

	var filter ListFilter
	if raw := c.Query("is_used"); raw != "" {
		isUsed, err := strconv.ParseBool(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid is_used filter")
			return
		}
		filter.IsUsed = &isUsed
	}
	filter.Search = c.Query("search")

	cards, total, err := h.service.ListCards(c.Request.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list gift cards")
		return
	}

	common.SuccessResponseWithMeta(c, cards, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ValidateGiftCard looks up a gift card by code and reports whether it can be
// redeemed right now
// GET /api/v1/gift-cards/validate?code=INF-XXXX-XXXX
func (h *Handler) ValidateGiftCard(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "code is required")
		return
	}

	result, err := h.service.Lookup(c.Request.Context(), code)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to validate gift card")
		return
	}

	common.SuccessResponse(c, result)
}

// GetGiftCard gets a gift card by ID
// GET /api/v1/gift-cards/:id
func (h *Handler) GetGiftCard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid gift card ID")
		return
	}

	card, err := h.service.GetCard(c.Request.Context(), id)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusNotFound, "gift card not found")
		return
	}

	common.SuccessResponse(c, card)
}

// UpdateGiftCard redeems a gift card. Redemption is the only supported
// mutation and it cannot be reverted.
// PATCH /api/v1/gift-cards/:id
func (h *Handler) UpdateGiftCard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid gift card ID")
		return
	}

	var req UpdateGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IsUsed == nil {
		common.ErrorResponse(c, http.StatusBadRequest, "is_used is required")
		return
	}
	if !*req.IsUsed {
		common.ErrorResponse(c, http.StatusBadRequest, "a redeemed gift card cannot be reverted to unused")
		return
	}

	card, err := h.service.Redeem(c.Request.Context(), id)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to redeem gift card")
		return
	}

	common.SuccessResponse(c, card)
}

// ResendEmail re-sends the gift card email to the recipient
// POST /api/v1/gift-cards/:id/resend-email
func (h *Handler) ResendEmail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid gift card ID")
		return
	}

	card, err := h.service.ResendEmail(c.Request.Context(), id)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to resend gift card email")
		return
	}

	common.SuccessResponse(c, gin.H{
		"message":    "Gift card email resent",
		"email_sent": card.EmailSent,
	})
}

// DeleteGiftCard deletes a gift card
// DELETE /api/v1/gift-cards/:id
func (h *Handler) DeleteGiftCard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid gift card ID")
		return
	}

	if err := h.service.DeleteCard(c.Request.Context(), id); err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete gift card")
		return
	}

	common.SuccessResponse(c, gin.H{
		"message": "Gift card deleted successfully",
	})
}
