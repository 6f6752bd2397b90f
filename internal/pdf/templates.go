package pdf

// Default printable gift card template. Placeholders are substituted before
// the HTML is sent to the rendering service.
const giftCardTemplateHTML = `
<div class="card">
	<div class="header">Carte Cadeau</div>
	<div class="menu">{{product_type}} &mdash; {{number_of_people}} personne(s)</div>
	<div class="recipient">{{recipient_name}}</div>
	<div class="message">{{custom_message}}</div>
	<div class="code">{{code}}</div>
	<div class="amount">{{amount}}</div>
	<div class="expiry">Valable jusqu'au {{expiry_date}}</div>
</div>
`

const giftCardTemplateCSS = `
.card { font-family: Georgia, serif; width: 640px; padding: 48px; border: 3px double #b89b5e; text-align: center; color: #2b2b2b; }
.header { font-size: 32px; letter-spacing: 4px; text-transform: uppercase; }
.menu { margin-top: 24px; font-size: 14px; text-transform: uppercase; letter-spacing: 1px; }
.recipient { margin-top: 12px; font-size: 20px; }
.message { margin-top: 12px; font-style: italic; }
.code { margin-top: 32px; font-size: 30px; font-weight: bold; letter-spacing: 5px; }
.amount { margin-top: 12px; font-size: 24px; }
.expiry { margin-top: 32px; font-size: 12px; color: #6b6b6b; }
`
