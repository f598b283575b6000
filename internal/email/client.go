// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import (
	"context"
	"log/slog"
)

// AdminCodeParams holds the data for the admin-code recovery email.
type AdminCodeParams struct {
	To        string // registered recovery address, already lower-cased
	AdminCode string
}

// Sender is the interface the recover-code handler uses to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// SendAdminCode mails the administrative access code to a registered
	// recovery address.
	SendAdminCode(ctx context.Context, p AdminCodeParams) error
}

// logSender is used when no email provider is configured.
type logSender struct {
	logger *slog.Logger
}

// NewLogSender returns a Sender that only records that a message would have
// been sent. The code itself is never logged.
func NewLogSender(logger *slog.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) SendAdminCode(ctx context.Context, p AdminCodeParams) error {
	s.logger.InfoContext(ctx, "email: provider not configured, admin code not sent", "to", p.To)
	return nil
}
