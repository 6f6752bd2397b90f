package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/richxcame/giftcard-service/pkg/httpclient"
	"github.com/richxcame/giftcard-service/pkg/resilience"
)

// ErrDisabled is returned when PDF rendering is switched off by config
var ErrDisabled = errors.New("pdf rendering is disabled")

// GiftCardData carries the card fields substituted into the PDF template
type GiftCardData struct {
	Code           string
	RecipientName  string
	ProductType    string
	NumberOfPeople int
	Amount         float64
	ExpiryDate     time.Time
	CustomMessage  string
}

// Renderer renders HTML to PDF through an external rendering service
type Renderer struct {
	client  *httpclient.Client
	breaker *resilience.CircuitBreaker
	enabled bool
}

// NewRenderer creates a renderer from the PDF configuration. A disabled
// configuration yields a renderer that fails every call with ErrDisabled.
// The rendering service sits behind a circuit breaker so a dead renderer
// cannot slow down issuance.
func NewRenderer(cfg config.PDFConfig) *Renderer {
	if !cfg.Enabled || cfg.RendererURL == "" {
		return &Renderer{}
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	client := httpclient.NewClient(cfg.RendererURL, timeout)
	httpclient.WithDefaultRetry()(client)

	breaker := resilience.NewCircuitBreaker(
		resilience.BuildSettings("pdf-renderer", 0, 0, 3, 1),
		resilience.NoopFallback,
	)

	return &Renderer{client: client, breaker: breaker, enabled: true}
}

type renderRequest struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// Render substitutes data into the template and posts it to the rendering
// service, returning the PDF bytes.
func (r *Renderer) Render(ctx context.Context, templateHTML, templateCSS string, data map[string]string) ([]byte, error) {
	if !r.enabled {
		return nil, ErrDisabled
	}

	result, err := r.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return r.client.Post(ctx, "/render", renderRequest{
			HTML: SubstitutePlaceholders(templateHTML, data),
			CSS:  templateCSS,
		}, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return result.([]byte), nil
}

// RenderGiftCard renders the printable gift card
func (r *Renderer) RenderGiftCard(ctx context.Context, data GiftCardData) ([]byte, error) {
	return r.Render(ctx, giftCardTemplateHTML, giftCardTemplateCSS, map[string]string{
		"code":             data.Code,
		"recipient_name":   data.RecipientName,
		"product_type":     data.ProductType,
		"number_of_people": fmt.Sprintf("%d", data.NumberOfPeople),
		"amount":           fmt.Sprintf("%.2f €", data.Amount),
		"expiry_date":      data.ExpiryDate.Format("02/01/2006"),
		"custom_message":   data.CustomMessage,
	})
}

// SubstitutePlaceholders replaces {{key}} markers in the template with the
// corresponding values. Unknown markers are left untouched.
func SubstitutePlaceholders(tpl string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
