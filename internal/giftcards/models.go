package giftcards

import (
	"time"

	"github.com/google/uuid"
)

// GiftCard represents a redeemable voucher sold through the storefront or
// created manually by staff.
type GiftCard struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Code string    `json:"code" db:"code"` // unique, immutable after creation

	// Menu reference. MenuTypeID is nil for webhook-issued cards whose menu
	// name did not resolve; ProductType keeps the denormalized name so the
	// card stays displayable either way.
	MenuTypeID  *uuid.UUID `json:"menu_type_id,omitempty" db:"menu_type_id"`
	ProductType string     `json:"product_type" db:"product_type"`

	NumberOfPeople int     `json:"number_of_people" db:"number_of_people"`
	RecipientName  string  `json:"recipient_name" db:"recipient_name"`
	RecipientEmail string  `json:"recipient_email" db:"recipient_email"`
	PurchaserName  string  `json:"purchaser_name" db:"purchaser_name"`
	PurchaserEmail string  `json:"purchaser_email" db:"purchaser_email"`
	Amount         float64 `json:"amount" db:"amount"`

	PurchaseDate time.Time  `json:"purchase_date" db:"purchase_date"`
	ExpiryDate   time.Time  `json:"expiry_date" db:"expiry_date"` // purchase + 1 year
	IsUsed       bool       `json:"is_used" db:"is_used"`
	UsedAt       *time.Time `json:"used_at,omitempty" db:"used_at"`

	CreatedOnline   bool       `json:"created_online" db:"created_online"`
	StripePaymentID *string    `json:"stripe_payment_id,omitempty" db:"stripe_payment_id"` // idempotency key, unique when present
	CustomMessage   *string    `json:"custom_message,omitempty" db:"custom_message"`
	TemplateID      *uuid.UUID `json:"template_id,omitempty" db:"template_id"`
	EmailSent       bool       `json:"email_sent" db:"email_sent"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActiveAt reports whether the card can be redeemed at the given time
func (g *GiftCard) IsActiveAt(now time.Time) bool {
	return !g.IsUsed && !g.ExpiryDate.Before(now)
}

// IsExpiredAt reports whether the card has lapsed unused at the given time
func (g *GiftCard) IsExpiredAt(now time.Time) bool {
	return !g.IsUsed && g.ExpiryDate.Before(now)
}

// IssueGiftCardRequest carries everything needed to turn a completed payment
// (or a manual staff action) into a gift card.
type IssueGiftCardRequest struct {
	MenuTypeName   string     `json:"menu_type" binding:"required"`
	NumberOfPeople int        `json:"number_of_people" binding:"required,gt=0"`
	RecipientName  string     `json:"recipient_name" binding:"required"`
	RecipientEmail string     `json:"recipient_email" binding:"required,email"`
	PurchaserName  string     `json:"purchaser_name"`
	PurchaserEmail string     `json:"purchaser_email"`
	Amount         float64    `json:"amount" binding:"required,gt=0"`
	PaymentRef     *string    `json:"payment_ref,omitempty"` // Stripe payment/session ID
	CustomMessage  *string    `json:"custom_message,omitempty"`
	TemplateID     *uuid.UUID `json:"template_id,omitempty"`
}

// UpdateGiftCardRequest is the staff PATCH body. Setting is_used to true
// triggers the one-way redeem transition.
type UpdateGiftCardRequest struct {
	IsUsed *bool `json:"is_used,omitempty"`
}

// Validation itemizes why a looked-up card is or is not redeemable
type Validation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidationResult pairs a looked-up card with its classification
type ValidationResult struct {
	GiftCard   *GiftCard  `json:"gift_card"`
	Validation Validation `json:"validation"`
}

// ListFilter narrows the staff gift card listing
type ListFilter struct {
	IsUsed *bool
	Search string // matches code, recipient name or recipient email
}
