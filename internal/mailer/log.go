package mailer

import (
	"context"
	"log/slog"
)

// LogMailer implements Mailer by logging instead of sending. Used when no
// Resend API key is configured.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) SendVerification(ctx context.Context, to, name, code string) error {
	slog.InfoContext(ctx, "[dev mode] verification email",
		slog.String("to", to), slog.String("name", name), slog.String("code", code))
	return nil
}

func (m *LogMailer) SendWelcome(ctx context.Context, to, name string) error {
	slog.InfoContext(ctx, "[dev mode] welcome email", slog.String("to", to), slog.String("name", name))
	return nil
}
