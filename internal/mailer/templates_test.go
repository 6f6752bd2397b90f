package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGiftCardEmail(t *testing.T) {
	msg, err := BuildGiftCardEmail(GiftCardEmailData{
		Code:           "INF-ABCD-2345",
		RecipientName:  "Marie Dupont",
		PurchaserName:  "Jean Dupont",
		ProductType:    "Menu Influences",
		NumberOfPeople: 2,
		Amount:         90.0,
		ExpiryDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		CustomMessage:  "Joyeux anniversaire !",
	})

	require.NoError(t, err)
	assert.Equal(t, "Votre carte cadeau", msg.Subject)
	assert.Contains(t, msg.HTML, "INF-ABCD-2345")
	assert.Contains(t, msg.HTML, "Menu Influences")
	assert.Contains(t, msg.HTML, "90.00")
	assert.Contains(t, msg.HTML, "28/08/2026")
	assert.Contains(t, msg.HTML, "Joyeux anniversaire !")
	assert.Contains(t, msg.Text, "INF-ABCD-2345")
	assert.Equal(t, "gift-card", msg.Tags["category"])
}

func TestBuildGiftCardEmail_OptionalFieldsOmitted(t *testing.T) {
	msg, err := BuildGiftCardEmail(GiftCardEmailData{
		Code:           "INF-WXYZ-6789",
		ProductType:    "Menu Saison",
		NumberOfPeople: 4,
		Amount:         240.0,
		ExpiryDate:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "Bonjour")
	assert.NotContains(t, msg.HTML, "blockquote")
}

func TestBuildPurchaseConfirmationEmail(t *testing.T) {
	msg, err := BuildPurchaseConfirmationEmail(GiftCardEmailData{
		Code:           "INF-ABCD-2345",
		RecipientName:  "Marie Dupont",
		PurchaserName:  "Jean Dupont",
		ProductType:    "Menu Influences",
		NumberOfPeople: 2,
		Amount:         90.0,
		ExpiryDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "Confirmation de votre achat de carte cadeau", msg.Subject)
	assert.Contains(t, msg.HTML, "Jean Dupont")
	assert.Contains(t, msg.HTML, "INF-ABCD-2345")
	assert.Equal(t, "purchase-confirmation", msg.Tags["category"])
}
