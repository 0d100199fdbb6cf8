// Package mail delivers account notifications.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends plain-text emails through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

func NewResendNotifier(apiKey, from string, logger *slog.Logger) *ResendNotifier {
	return NewResendNotifierWithClient(resend.NewClient(apiKey), from, logger)
}

func NewResendNotifierWithClient(client *resend.Client, from string, logger *slog.Logger) *ResendNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResendNotifier{client: client, from: from, logger: logger}
}

func (n *ResendNotifier) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		n.logger.ErrorContext(ctx, "resend_send_failed", "error", err, "to", to, "subject", subject)
		return fmt.Errorf("resend send failed: %w", err)
	}

	n.logger.InfoContext(ctx, "resend_sent", "message_id", sent.Id, "to", to, "subject", subject)
	return nil
}

// LogNotifier writes messages to the log instead of sending them. Used when
// no mail provider is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.InfoContext(ctx, "mail_logged", "to", to, "subject", subject, "body", body)
	return nil
}
