package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/richxcame/giftcard-service/pkg/resilience"
	"go.uber.org/zap"
)

// ErrDisabled is returned when email delivery is switched off by config
var ErrDisabled = errors.New("email delivery is disabled")

// Attachment is a file attached to an outbound email
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound email
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
	Tags        map[string]string
	Headers     map[string]string
}

// Result reports the outcome of a send
type Result struct {
	Success   bool
	MessageID string
}

// Client sends email through Resend. Retry policy belongs to the caller;
// the transport call itself runs behind a circuit breaker.
type Client struct {
	client  *resend.Client
	breaker *resilience.CircuitBreaker
	cfg     config.EmailConfig
}

// NewClient creates a mail client from the email configuration
func NewClient(cfg config.EmailConfig) *Client {
	return &Client{
		client: resend.NewClient(cfg.APIKey),
		breaker: resilience.NewCircuitBreaker(
			resilience.BuildSettings("mail-transport", 0, 0, 3, 1),
			resilience.NoopFallback,
		),
		cfg: cfg,
	}
}

// Send delivers a single message. A disabled client fails every send with
// ErrDisabled so callers record the outcome the same way as a transport error.
func (c *Client) Send(ctx context.Context, msg Message) (Result, error) {
	if !c.cfg.Enabled || c.cfg.APIKey == "" {
		return Result{}, ErrDisabled
	}

	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromAddress),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: c.cfg.ReplyTo,
		Headers: msg.Headers,
	}

	for name, value := range msg.Tags {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: value})
	}
	for _, attachment := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename: attachment.Filename,
			Content:  attachment.Content,
		})
	}

	result, err := c.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return c.client.Emails.SendWithContext(ctx, req)
	})
	if err != nil {
		return Result{}, fmt.Errorf("send email: %w", err)
	}
	sent := result.(*resend.SendEmailResponse)

	logger.Debug("Email sent",
		zap.String("message_id", sent.Id),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)

	return Result{Success: true, MessageID: sent.Id}, nil
}
