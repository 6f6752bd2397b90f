package giftcards

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cardColumns = `
	id, code, menu_type_id, product_type, number_of_people,
	recipient_name, recipient_email, purchaser_name, purchaser_email,
	amount, purchase_date, expiry_date, is_used, used_at,
	created_online, stripe_payment_id, custom_message, template_id, email_sent,
	created_at, updated_at`

// Repository handles gift card database operations
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new gift card repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanCard(row interface{ Scan(dest ...any) error }) (*GiftCard, error) {
	var card GiftCard
	err := row.Scan(
		&card.ID, &card.Code, &card.MenuTypeID, &card.ProductType, &card.NumberOfPeople,
		&card.RecipientName, &card.RecipientEmail, &card.PurchaserName, &card.PurchaserEmail,
		&card.Amount, &card.PurchaseDate, &card.ExpiryDate, &card.IsUsed, &card.UsedAt,
		&card.CreatedOnline, &card.StripePaymentID, &card.CustomMessage, &card.TemplateID, &card.EmailSent,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateCard creates a new gift card
func (r *Repository) CreateCard(ctx context.Context, card *GiftCard) error {
	query := `
		INSERT INTO gift_cards (
			id, code, menu_type_id, product_type, number_of_people,
			recipient_name, recipient_email, purchaser_name, purchaser_email,
			amount, purchase_date, expiry_date, is_used, used_at,
			created_online, stripe_payment_id, custom_message, template_id, email_sent,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.db.Exec(ctx, query,
		card.ID, card.Code, card.MenuTypeID, card.ProductType, card.NumberOfPeople,
		card.RecipientName, card.RecipientEmail, card.PurchaserName, card.PurchaserEmail,
		card.Amount, card.PurchaseDate, card.ExpiryDate, card.IsUsed, card.UsedAt,
		card.CreatedOnline, card.StripePaymentID, card.CustomMessage, card.TemplateID, card.EmailSent,
		card.CreatedAt, card.UpdatedAt,
	)
	return err
}

// CreateCardIdempotent inserts the card unless its payment reference is
// already taken. The unique index on stripe_payment_id makes concurrent
// issuance for the same payment collapse to a single row; the loser of the
// race fetches and returns the winner's card.
func (r *Repository) CreateCardIdempotent(ctx context.Context, card *GiftCard) (*GiftCard, bool, error) {
	query := `
		INSERT INTO gift_cards (
			id, code, menu_type_id, product_type, number_of_people,
			recipient_name, recipient_email, purchaser_name, purchaser_email,
			amount, purchase_date, expiry_date, is_used, used_at,
			created_online, stripe_payment_id, custom_message, template_id, email_sent,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (stripe_payment_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		card.ID, card.Code, card.MenuTypeID, card.ProductType, card.NumberOfPeople,
		card.RecipientName, card.RecipientEmail, card.PurchaserName, card.PurchaserEmail,
		card.Amount, card.PurchaseDate, card.ExpiryDate, card.IsUsed, card.UsedAt,
		card.CreatedOnline, card.StripePaymentID, card.CustomMessage, card.TemplateID, card.EmailSent,
		card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return nil, false, err
	}

	if tag.RowsAffected() == 0 {
		existing, err := r.GetCardByPaymentID(ctx, *card.StripePaymentID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return card, true, nil
}

// GetCardByID gets a gift card by ID
func (r *Repository) GetCardByID(ctx context.Context, id uuid.UUID) (*GiftCard, error) {
	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE id = $1`
	return scanCard(r.db.QueryRow(ctx, query, id))
}

// GetCardByCode gets a gift card by its unique code
func (r *Repository) GetCardByCode(ctx context.Context, code string) (*GiftCard, error) {
	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE code = $1`
	return scanCard(r.db.QueryRow(ctx, query, code))
}

// GetCardByPaymentID gets a gift card by its payment reference
func (r *Repository) GetCardByPaymentID(ctx context.Context, paymentID string) (*GiftCard, error) {
	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE stripe_payment_id = $1`
	return scanCard(r.db.QueryRow(ctx, query, paymentID))
}

// CodeExists checks whether a code is already taken
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM gift_cards WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

// ListCards lists gift cards with optional filters, newest first
func (r *Repository) ListCards(ctx context.Context, filter ListFilter, limit, offset int) ([]GiftCard, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.IsUsed != nil {
		where += ` AND is_used = $` + strconv.Itoa(argPos)
		args = append(args, *filter.IsUsed)
		argPos++
	}
	if filter.Search != "" {
		where += ` AND (code ILIKE $` + strconv.Itoa(argPos) + ` OR recipient_name ILIKE $` + strconv.Itoa(argPos) + ` OR recipient_email ILIKE $` + strconv.Itoa(argPos) + `)`
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gift_cards`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cardColumns + ` FROM gift_cards` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argPos) + ` OFFSET $` + strconv.Itoa(argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cards []GiftCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			continue
		}
		cards = append(cards, *card)
	}

	return cards, total, nil
}

// MarkUsed flips is_used from false to true. Returns false when no unused
// row matched, i.e. the card was already redeemed.
func (r *Repository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	query := `
		UPDATE gift_cards
		SET is_used = TRUE, used_at = $1, updated_at = NOW()
		WHERE id = $2 AND is_used = FALSE
	`

	tag, err := r.db.Exec(ctx, query, usedAt, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetEmailSent records the outcome of the recipient email attempt
func (r *Repository) SetEmailSent(ctx context.Context, id uuid.UUID, sent bool) error {
	query := `UPDATE gift_cards SET email_sent = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, sent, id)
	return err
}

// DeleteCard deletes a gift card
func (r *Repository) DeleteCard(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM gift_cards WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

