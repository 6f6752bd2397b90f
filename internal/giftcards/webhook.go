package giftcards

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes caps the webhook payload size before signature
// verification.
const maxWebhookBodyBytes = 64 * 1024

// WebhookHandler receives Stripe events and turns completed checkouts into
// gift cards.
type WebhookHandler struct {
	service       *Service
	signingSecret string
}

// NewWebhookHandler creates a new Stripe webhook handler
func NewWebhookHandler(service *Service, signingSecret string) *WebhookHandler {
	return &WebhookHandler{service: service, signingSecret: signingSecret}
}

// RegisterWebhookRoutes registers the Stripe webhook endpoint. The endpoint
// is unauthenticated; the signature check is the authentication.
func RegisterWebhookRoutes(r *gin.Engine, handler *WebhookHandler) {
	r.POST("/api/v1/webhooks/stripe", handler.HandleStripeEvent)
}

// HandleStripeEvent verifies the event signature and processes it. Nothing is
// read from the payload before the signature checks out.
// POST /api/v1/webhooks/stripe
func (h *WebhookHandler) HandleStripeEvent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.signingSecret)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("rejected webhook with invalid signature",
			zap.Error(err),
		)
		common.ErrorResponse(c, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		if err := h.handleCheckoutCompleted(c, event); err != nil {
			return
		}
	default:
		logger.WithContext(c.Request.Context()).Debug("ignoring webhook event",
			zap.String("event_type", string(event.Type)),
		)
	}

	common.SuccessResponse(c, gin.H{"received": true})
}

func (h *WebhookHandler) handleCheckoutCompleted(c *gin.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		logger.WithContext(c.Request.Context()).Error("failed to parse checkout session",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		common.ErrorResponse(c, http.StatusBadRequest, "malformed checkout session")
		return err
	}

	req := issueRequestFromSession(&session)

	if _, err := h.service.IssueFromWebhook(c.Request.Context(), req); err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
			// A payload the validator rejects will be rejected on every
			// retry. Acknowledge the event and leave the failure in the logs.
			logger.WithContext(c.Request.Context()).Error("dropping checkout session that cannot become a gift card",
				zap.String("event_id", event.ID),
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			return nil
		}

		logger.WithContext(c.Request.Context()).Error("failed to issue gift card from webhook",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		// Non-2xx makes Stripe retry the event; issuance is idempotent so a
		// retry cannot double-issue.
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to issue gift card")
		return err
	}

	return nil
}

// issueRequestFromSession maps a checkout session onto an issuance request.
// The storefront writes the gift card fields into the session metadata when
// it creates the checkout.
func issueRequestFromSession(session *stripe.CheckoutSession) *IssueGiftCardRequest {
	paymentRef := session.ID
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		paymentRef = session.PaymentIntent.ID
	}

	req := &IssueGiftCardRequest{
		MenuTypeName:   session.Metadata["menu_type"],
		NumberOfPeople: 1,
		RecipientName:  session.Metadata["recipient_name"],
		RecipientEmail: session.Metadata["recipient_email"],
		PurchaserName:  session.Metadata["purchaser_name"],
		Amount:         float64(session.AmountTotal) / 100,
		PaymentRef:     &paymentRef,
	}

	if people, err := strconv.Atoi(session.Metadata["number_of_people"]); err == nil && people > 0 {
		req.NumberOfPeople = people
	}
	if msg := session.Metadata["custom_message"]; msg != "" {
		req.CustomMessage = &msg
	}
	if session.CustomerDetails != nil {
		if req.PurchaserName == "" {
			req.PurchaserName = session.CustomerDetails.Name
		}
		req.PurchaserEmail = session.CustomerDetails.Email
	}
	if req.RecipientEmail == "" {
		// Without an explicit recipient the purchaser receives the card
		req.RecipientEmail = req.PurchaserEmail
		if req.RecipientName == "" {
			req.RecipientName = req.PurchaserName
		}
	}

	return req
}
