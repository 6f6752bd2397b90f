package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// GiftCardEmailData carries the card fields rendered into emails
type GiftCardEmailData struct {
	Code           string
	RecipientName  string
	PurchaserName  string
	ProductType    string
	NumberOfPeople int
	Amount         float64
	ExpiryDate     time.Time
	CustomMessage  string
}

type emailContext struct {
	GiftCardEmailData
	AmountFormatted string
	ExpiryFormatted string
}

var giftCardTemplate = template.Must(template.New("giftcard").Parse(`
<div style="font-family: Georgia, serif; max-width: 560px; margin: 0 auto; color: #2b2b2b;">
	<h1 style="text-align: center; letter-spacing: 2px;">Votre carte cadeau</h1>
	{{if .RecipientName}}<p>Bonjour {{.RecipientName}},</p>{{end}}
	{{if .PurchaserName}}<p>{{.PurchaserName}} vous offre une carte cadeau.</p>{{end}}
	{{if .CustomMessage}}<blockquote style="font-style: italic; border-left: 3px solid #b89b5e; padding-left: 12px;">{{.CustomMessage}}</blockquote>{{end}}
	<div style="border: 2px solid #b89b5e; border-radius: 8px; padding: 24px; text-align: center; margin: 24px 0;">
		<p style="margin: 0; text-transform: uppercase; font-size: 12px; letter-spacing: 1px;">{{.ProductType}} &mdash; {{.NumberOfPeople}} personne(s)</p>
		<p style="font-size: 28px; font-weight: bold; letter-spacing: 3px; margin: 12px 0;">{{.Code}}</p>
		<p style="margin: 0; font-size: 20px;">{{.AmountFormatted}}</p>
	</div>
	<p style="font-size: 13px; color: #6b6b6b;">Valable jusqu&rsquo;au {{.ExpiryFormatted}}. Pr&eacute;sentez ce code lors de votre r&eacute;servation.</p>
</div>
`))

var purchaseConfirmationTemplate = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Georgia, serif; max-width: 560px; margin: 0 auto; color: #2b2b2b;">
	<h1 style="text-align: center; letter-spacing: 2px;">Merci pour votre achat</h1>
	{{if .PurchaserName}}<p>Bonjour {{.PurchaserName}},</p>{{end}}
	<p>Votre carte cadeau a bien &eacute;t&eacute; envoy&eacute;e{{if .RecipientName}} &agrave; {{.RecipientName}}{{end}}.</p>
	<table style="width: 100%; border-collapse: collapse; margin: 24px 0;">
		<tr><td style="padding: 6px 0;">Menu</td><td style="text-align: right;">{{.ProductType}}</td></tr>
		<tr><td style="padding: 6px 0;">Personnes</td><td style="text-align: right;">{{.NumberOfPeople}}</td></tr>
		<tr><td style="padding: 6px 0;">Montant</td><td style="text-align: right; font-weight: bold;">{{.AmountFormatted}}</td></tr>
		<tr><td style="padding: 6px 0;">Code</td><td style="text-align: right; letter-spacing: 2px;">{{.Code}}</td></tr>
		<tr><td style="padding: 6px 0;">Valable jusqu&rsquo;au</td><td style="text-align: right;">{{.ExpiryFormatted}}</td></tr>
	</table>
</div>
`))

// BuildGiftCardEmail builds the recipient email. The caller sets To and any
// attachments.
func BuildGiftCardEmail(data GiftCardEmailData) (Message, error) {
	ctx := newEmailContext(data)

	var html bytes.Buffer
	if err := giftCardTemplate.Execute(&html, ctx); err != nil {
		return Message{}, fmt.Errorf("render gift card email: %w", err)
	}

	text := fmt.Sprintf(
		"Votre carte cadeau\n\nMenu: %s (%d personne(s))\nCode: %s\nMontant: %s\nValable jusqu'au %s\n",
		data.ProductType, data.NumberOfPeople, data.Code, ctx.AmountFormatted, ctx.ExpiryFormatted,
	)

	return Message{
		Subject: "Votre carte cadeau",
		HTML:    html.String(),
		Text:    text,
		Tags:    map[string]string{"category": "gift-card"},
	}, nil
}

// BuildPurchaseConfirmationEmail builds the purchaser confirmation email
func BuildPurchaseConfirmationEmail(data GiftCardEmailData) (Message, error) {
	ctx := newEmailContext(data)

	var html bytes.Buffer
	if err := purchaseConfirmationTemplate.Execute(&html, ctx); err != nil {
		return Message{}, fmt.Errorf("render purchase confirmation email: %w", err)
	}

	text := fmt.Sprintf(
		"Merci pour votre achat\n\nMenu: %s (%d personne(s))\nCode: %s\nMontant: %s\nValable jusqu'au %s\n",
		data.ProductType, data.NumberOfPeople, data.Code, ctx.AmountFormatted, ctx.ExpiryFormatted,
	)

	return Message{
		Subject: "Confirmation de votre achat de carte cadeau",
		HTML:    html.String(),
		Text:    text,
		Tags:    map[string]string{"category": "purchase-confirmation"},
	}, nil
}

func newEmailContext(data GiftCardEmailData) emailContext {
	return emailContext{
		GiftCardEmailData: data,
		AmountFormatted:   fmt.Sprintf("%.2f €", data.Amount),
		ExpiryFormatted:   data.ExpiryDate.Format("02/01/2006"),
	}
}
