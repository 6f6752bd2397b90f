package giftcards

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/richxcame/giftcard-service/internal/mailer"
	"github.com/richxcame/giftcard-service/internal/pdf"
	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/richxcame/giftcard-service/pkg/resilience"
	"go.uber.org/zap"
)

// expiringSoonWindow is the advisory window for the "expiring soon" warning
const expiringSoonWindow = 30 * 24 * time.Hour

// amountTolerance absorbs float rounding when comparing request amounts
// against menu price times head count.
const amountTolerance = 0.005

// Service implements gift card issuance, validation and redemption
type Service struct {
	repo       RepositoryInterface
	menuTypes  MenuTypeResolver
	exclusions ExclusionSource
	mailer     Mailer
	pdf        PDFRenderer
	emailRetry resilience.RetryConfig
}

// NewService creates a new gift card service. The mailer and renderer may be
// nil, in which case issuance records email_sent=false and skips attachments.
func NewService(repo RepositoryInterface, menuTypes MenuTypeResolver, exclusionSource ExclusionSource, mail Mailer, renderer PDFRenderer) *Service {
	return &Service{
		repo:       repo,
		menuTypes:  menuTypes,
		exclusions: exclusionSource,
		mailer:     mail,
		pdf:        renderer,
		emailRetry: resilience.RetryConfig{
			MaxAttempts:       3,
			InitialBackoff:    time.Second,
			MaxBackoff:        8 * time.Second,
			BackoffMultiplier: 2.0,
			EnableJitter:      true,
		},
	}
}

// ============================================================
// Issuance
// ============================================================

// IssueFromWebhook issues a gift card for a payment event delivered by the
// provider webhook. Menu type resolution is lenient here: losing a paid-for
// card over a menu rename would be worse than a dangling menu reference.
func (s *Service) IssueFromWebhook(ctx context.Context, req *IssueGiftCardRequest) (*GiftCard, error) {
	return s.issue(ctx, req, false, true, "webhook")
}

// IssueFromPayment issues a gift card for the client-side fallback that
// fires when the webhook is delayed or missed. Strict validation.
func (s *Service) IssueFromPayment(ctx context.Context, req *IssueGiftCardRequest) (*GiftCard, error) {
	return s.issue(ctx, req, true, true, "fallback")
}

// CreateGiftCard issues a gift card manually on behalf of staff. Strict
// validation, not marked as created online.
func (s *Service) CreateGiftCard(ctx context.Context, req *IssueGiftCardRequest) (*GiftCard, error) {
	return s.issue(ctx, req, true, false, "manual")
}

func (s *Service) issue(ctx context.Context, req *IssueGiftCardRequest, strict, createdOnline bool, source string) (*GiftCard, error) {
	// Idempotency guard first, against the persistent store. The webhook and
	// the fallback endpoint can both fire for the same payment.
	if req.PaymentRef != nil && *req.PaymentRef != "" {
		existing, err := s.repo.GetCardByPaymentID(ctx, *req.PaymentRef)
		if err == nil {
			duplicateIssuanceTotal.Inc()
			logger.WithContext(ctx).Info("issuance short-circuited, payment already has a gift card",
				zap.String("payment_ref", *req.PaymentRef),
				zap.String("gift_card_id", existing.ID.String()),
				zap.String("source", source),
			)
			return existing, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewInternalError("failed to check payment reference", err)
		}
	}

	if req.NumberOfPeople <= 0 {
		return nil, common.NewBadRequestError("number_of_people must be positive", nil)
	}
	if req.Amount <= 0 {
		return nil, common.NewBadRequestError("amount must be positive", nil)
	}

	var menuTypeID *uuid.UUID
	templateID := req.TemplateID
	productType := req.MenuTypeName

	menuType, err := s.menuTypes.GetByName(ctx, req.MenuTypeName)
	switch {
	case err == nil:
		menuTypeID = &menuType.ID
		productType = menuType.Name
		if templateID == nil {
			templateID = menuType.TemplateID
		}
		if strict {
			expected := menuType.Amount * float64(req.NumberOfPeople)
			if math.Abs(req.Amount-expected) > amountTolerance {
				return nil, common.NewBadRequestError(
					fmt.Sprintf("amount %.2f does not match menu price %.2f for %d people", req.Amount, expected, req.NumberOfPeople), nil)
			}
		}
	case errors.Is(err, pgx.ErrNoRows):
		if strict {
			return nil, common.NewNotFoundError("menu type not found", err)
		}
		logger.WithContext(ctx).Warn("menu type not found, issuing with denormalized product type only",
			zap.String("menu_type", req.MenuTypeName),
		)
	default:
		return nil, common.NewInternalError("failed to resolve menu type", err)
	}

	code, err := GenerateUniqueCode(ctx, s.repo.CodeExists)
	if err != nil {
		if errors.Is(err, ErrCodeGenerationExhausted) {
			return nil, common.NewInternalError("gift card code generation exhausted", err)
		}
		return nil, common.NewInternalError("failed to generate gift card code", err)
	}

	purchaseDate := time.Now()
	card := &GiftCard{
		ID:              uuid.New(),
		Code:            code,
		MenuTypeID:      menuTypeID,
		ProductType:     productType,
		NumberOfPeople:  req.NumberOfPeople,
		RecipientName:   req.RecipientName,
		RecipientEmail:  req.RecipientEmail,
		PurchaserName:   req.PurchaserName,
		PurchaserEmail:  req.PurchaserEmail,
		Amount:          req.Amount,
		PurchaseDate:    purchaseDate,
		ExpiryDate:      purchaseDate.AddDate(1, 0, 0),
		IsUsed:          false,
		CreatedOnline:   createdOnline,
		StripePaymentID: req.PaymentRef,
		CustomMessage:   req.CustomMessage,
		TemplateID:      templateID,
		EmailSent:       false,
		CreatedAt:       purchaseDate,
		UpdatedAt:       purchaseDate,
	}

	if req.PaymentRef != nil && *req.PaymentRef != "" {
		stored, created, err := s.repo.CreateCardIdempotent(ctx, card)
		if err != nil {
			return nil, common.NewInternalError("failed to create gift card", err)
		}
		if !created {
			// Lost the insert race against a concurrent issuance
			duplicateIssuanceTotal.Inc()
			logger.WithContext(ctx).Info("concurrent issuance detected, returning existing gift card",
				zap.String("payment_ref", *req.PaymentRef),
				zap.String("gift_card_id", stored.ID.String()),
			)
			return stored, nil
		}
		card = stored
	} else {
		if err := s.repo.CreateCard(ctx, card); err != nil {
			return nil, common.NewInternalError("failed to create gift card", err)
		}
	}

	cardsIssuedTotal.WithLabelValues(source).Inc()
	logger.Info("Gift card issued",
		zap.String("gift_card_id", card.ID.String()),
		zap.String("code", card.Code),
		zap.String("product_type", card.ProductType),
		zap.Float64("amount", card.Amount),
		zap.String("source", source),
	)

	// Email delivery is best-effort and must never fail the issuance
	s.deliverEmails(ctx, card)

	return card, nil
}

// ============================================================
// Email delivery
// ============================================================

func (s *Service) deliverEmails(ctx context.Context, card *GiftCard) {
	sent := s.sendRecipientEmail(ctx, card)
	card.EmailSent = sent

	if err := s.repo.SetEmailSent(ctx, card.ID, sent); err != nil {
		logger.WithContext(ctx).Warn("failed to record email outcome",
			zap.String("gift_card_id", card.ID.String()),
			zap.Error(err),
		)
	}

	outcome := "sent"
	if !sent {
		outcome = "failed"
	}
	emailDeliveryTotal.WithLabelValues(outcome).Inc()

	if card.PurchaserEmail != "" && !strings.EqualFold(card.PurchaserEmail, card.RecipientEmail) {
		s.sendPurchaserConfirmation(ctx, card)
	}
}

func (s *Service) sendRecipientEmail(ctx context.Context, card *GiftCard) bool {
	if s.mailer == nil || card.RecipientEmail == "" {
		return false
	}

	msg, err := mailer.BuildGiftCardEmail(s.emailData(card))
	if err != nil {
		logger.WithContext(ctx).Error("failed to build gift card email", zap.Error(err))
		return false
	}
	msg.To = []string{card.RecipientEmail}

	if s.pdf != nil {
		pdfBytes, err := s.pdf.RenderGiftCard(ctx, s.pdfData(card))
		if err != nil {
			logger.WithContext(ctx).Warn("failed to render gift card pdf, sending email without attachment",
				zap.String("gift_card_id", card.ID.String()),
				zap.Error(err),
			)
		} else {
			msg.Attachments = append(msg.Attachments, mailer.Attachment{
				Filename: "carte-cadeau-" + card.Code + ".pdf",
				Content:  pdfBytes,
			})
		}
	}

	_, err = resilience.Retry(ctx, s.emailRetry, func(ctx context.Context) (interface{}, error) {
		result, sendErr := s.mailer.Send(ctx, msg)
		return result, sendErr
	})
	if err != nil {
		logger.WithContext(ctx).Warn("gift card email delivery failed",
			zap.String("gift_card_id", card.ID.String()),
			zap.String("recipient", card.RecipientEmail),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *Service) sendPurchaserConfirmation(ctx context.Context, card *GiftCard) {
	if s.mailer == nil {
		return
	}

	msg, err := mailer.BuildPurchaseConfirmationEmail(s.emailData(card))
	if err != nil {
		logger.WithContext(ctx).Error("failed to build purchase confirmation email", zap.Error(err))
		return
	}
	msg.To = []string{card.PurchaserEmail}

	if _, err := resilience.Retry(ctx, s.emailRetry, func(ctx context.Context) (interface{}, error) {
		result, sendErr := s.mailer.Send(ctx, msg)
		return result, sendErr
	}); err != nil {
		logger.WithContext(ctx).Warn("purchase confirmation email delivery failed",
			zap.String("gift_card_id", card.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) emailData(card *GiftCard) mailer.GiftCardEmailData {
	data := mailer.GiftCardEmailData{
		Code:           card.Code,
		RecipientName:  card.RecipientName,
		PurchaserName:  card.PurchaserName,
		ProductType:    card.ProductType,
		NumberOfPeople: card.NumberOfPeople,
		Amount:         card.Amount,
		ExpiryDate:     card.ExpiryDate,
	}
	if card.CustomMessage != nil {
		data.CustomMessage = *card.CustomMessage
	}
	return data
}

func (s *Service) pdfData(card *GiftCard) pdf.GiftCardData {
	data := pdf.GiftCardData{
		Code:           card.Code,
		RecipientName:  card.RecipientName,
		ProductType:    card.ProductType,
		NumberOfPeople: card.NumberOfPeople,
		Amount:         card.Amount,
		ExpiryDate:     card.ExpiryDate,
	}
	if card.CustomMessage != nil {
		data.CustomMessage = *card.CustomMessage
	}
	return data
}

// ============================================================
// Validation and redemption
// ============================================================

// Lookup finds a gift card by code and classifies its redeemability.
// Classification order: not found, already used, expired, then valid with
// advisory warnings and exclusion period checks.
func (s *Service) Lookup(ctx context.Context, code string) (*ValidationResult, error) {
	card, err := s.repo.GetCardByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("gift card not found", err)
		}
		return nil, common.NewInternalError("failed to look up gift card", err)
	}

	now := time.Now()
	validation := Validation{IsValid: true, Errors: []string{}, Warnings: []string{}}

	switch {
	case card.IsUsed:
		validation.IsValid = false
		msg := "gift card has already been used"
		if card.UsedAt != nil {
			msg = fmt.Sprintf("gift card has already been used on %s", card.UsedAt.Format("2006-01-02"))
		}
		validation.Errors = append(validation.Errors, msg)

	case card.IsExpiredAt(now):
		validation.IsValid = false
		validation.Errors = append(validation.Errors,
			fmt.Sprintf("gift card expired on %s", card.ExpiryDate.Format("2006-01-02")))

	default:
		if card.ExpiryDate.Before(now.Add(expiringSoonWindow)) {
			validation.Warnings = append(validation.Warnings,
				fmt.Sprintf("gift card expires soon, on %s", card.ExpiryDate.Format("2006-01-02")))
		}

		if s.exclusions != nil {
			active, err := s.exclusions.ActivePeriodsAt(ctx, now)
			if err != nil {
				logger.WithContext(ctx).Warn("failed to load exclusion periods during lookup", zap.Error(err))
			} else if len(active) > 0 {
				validation.IsValid = false
				names := make([]string, 0, len(active))
				for _, period := range active {
					names = append(names, period.Name)
				}
				validation.Errors = append(validation.Errors,
					"redemption is blocked by exclusion period(s): "+strings.Join(names, ", "))
			}
		}
	}

	return &ValidationResult{GiftCard: card, Validation: validation}, nil
}

// Redeem marks a gift card as used. One-way: redeeming an already-used card
// fails and leaves used_at untouched.
func (s *Service) Redeem(ctx context.Context, id uuid.UUID) (*GiftCard, error) {
	card, err := s.repo.GetCardByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("gift card not found", err)
		}
		return nil, common.NewInternalError("failed to load gift card", err)
	}

	if card.IsUsed {
		return nil, common.NewConflictError("gift card has already been used", nil)
	}
	if card.IsExpiredAt(time.Now()) {
		return nil, common.NewBadRequestError("gift card has expired", nil)
	}

	usedAt := time.Now()
	updated, err := s.repo.MarkUsed(ctx, id, usedAt)
	if err != nil {
		return nil, common.NewInternalError("failed to redeem gift card", err)
	}
	if !updated {
		// A concurrent redeem won the conditional update
		return nil, common.NewConflictError("gift card has already been used", nil)
	}

	card.IsUsed = true
	card.UsedAt = &usedAt
	cardsRedeemedTotal.Inc()

	logger.Info("Gift card redeemed",
		zap.String("gift_card_id", card.ID.String()),
		zap.String("code", card.Code),
	)

	return card, nil
}

// ============================================================
// Staff management
// ============================================================

// GetCard gets a gift card by ID
func (s *Service) GetCard(ctx context.Context, id uuid.UUID) (*GiftCard, error) {
	card, err := s.repo.GetCardByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("gift card not found", err)
		}
		return nil, common.NewInternalError("failed to load gift card", err)
	}
	return card, nil
}

// ListCards lists gift cards with filters and pagination
func (s *Service) ListCards(ctx context.Context, filter ListFilter, limit, offset int) ([]GiftCard, int64, error) {
	cards, total, err := s.repo.ListCards(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list gift cards", err)
	}
	return cards, total, nil
}

// ResendEmail re-attempts delivery of the recipient email for an existing
// card and records the fresh outcome.
func (s *Service) ResendEmail(ctx context.Context, id uuid.UUID) (*GiftCard, error) {
	card, err := s.repo.GetCardByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("gift card not found", err)
		}
		return nil, common.NewInternalError("failed to load gift card", err)
	}

	s.deliverEmails(ctx, card)
	return card, nil
}

// DeleteCard deletes a gift card
func (s *Service) DeleteCard(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetCardByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("gift card not found", err)
		}
		return common.NewInternalError("failed to load gift card", err)
	}

	if err := s.repo.DeleteCard(ctx, id); err != nil {
		return common.NewInternalError("failed to delete gift card", err)
	}

	logger.Info("Gift card deleted", zap.String("gift_card_id", id.String()))
	return nil
}
