package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/venturalabs/ventura/internal/config"
)

// Sender delivers alert emails on behalf of the configured account.
type Sender struct {
	service *gmailapi.Service
	from    string
	to      string
	logger  *zap.Logger
}

// NewSender builds a Gmail-backed sender using the official Google API
// client.
func NewSender(ctx context.Context, cfg config.AlertsConfig, logger *zap.Logger) (*Sender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := gmailapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(gmailapi.GmailSendScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gmail client: %w", err)
	}

	return &Sender{
		service: service,
		from:    cfg.From,
		to:      cfg.To,
		logger:  logger,
	}, nil
}

// SendHTML sends a single HTML email to the configured recipient.
func (s *Sender) SendHTML(ctx context.Context, subject, htmlBody string) error {
	if s.to == "" {
		return fmt.Errorf("no alert recipient configured")
	}

	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, s.to, subject, htmlBody)

	message := &gmailapi.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := s.service.Users.Messages.Send("me", message).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	s.logger.Info("alert email sent", zap.String("to", s.to), zap.String("subject", subject))
	return nil
}
