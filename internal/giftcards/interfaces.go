package giftcards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/giftcard-service/internal/exclusions"
	"github.com/richxcame/giftcard-service/internal/mailer"
	"github.com/richxcame/giftcard-service/internal/menutypes"
	"github.com/richxcame/giftcard-service/internal/pdf"
)

// RepositoryInterface defines the contract for gift card repository operations
type RepositoryInterface interface {
	CreateCard(ctx context.Context, card *GiftCard) error

	// CreateCardIdempotent inserts the card unless another card already holds
	// its payment reference, in which case the stored card is returned. The
	// boolean reports whether a new row was created.
	CreateCardIdempotent(ctx context.Context, card *GiftCard) (*GiftCard, bool, error)

	GetCardByID(ctx context.Context, id uuid.UUID) (*GiftCard, error)
	GetCardByCode(ctx context.Context, code string) (*GiftCard, error)
	GetCardByPaymentID(ctx context.Context, paymentID string) (*GiftCard, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListCards(ctx context.Context, filter ListFilter, limit, offset int) ([]GiftCard, int64, error)

	// MarkUsed flips is_used from false to true in a single conditional
	// update. Returns false when the card was already used.
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error)

	SetEmailSent(ctx context.Context, id uuid.UUID, sent bool) error
	DeleteCard(ctx context.Context, id uuid.UUID) error
}

// MenuTypeResolver resolves menu names to menu types at issuance time
type MenuTypeResolver interface {
	GetByName(ctx context.Context, name string) (*menutypes.MenuType, error)
}

// ExclusionSource reports the exclusion periods blocking redemption at a
// given time. Implemented by the exclusions service.
type ExclusionSource interface {
	ActivePeriodsAt(ctx context.Context, now time.Time) ([]exclusions.ExclusionPeriod, error)
}

// Mailer delivers gift card emails. Implemented by the mailer client.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (mailer.Result, error)
}

// PDFRenderer renders the printable gift card attached to recipient emails
type PDFRenderer interface {
	RenderGiftCard(ctx context.Context, data pdf.GiftCardData) ([]byte, error)
}
