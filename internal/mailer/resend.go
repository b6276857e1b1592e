package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
)

// Resend delivers email through the Resend API.
type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, from string) *Resend {
	return &Resend{client: resend.NewClient(apiKey), from: from}
}

func (m *Resend) SendVerification(ctx context.Context, to, name, code string) error {
	html, err := render(verificationTemplate, templateData{Name: name, Code: code})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Email Verification - Beyond NP", html)
}

func (m *Resend) SendWelcome(ctx context.Context, to, name string) error {
	html, err := render(welcomeTemplate, templateData{Name: name})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Welcome to Beyond NP!", html)
}

func (m *Resend) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Headers: map[string]string{
			// Stops mail clients from threading repeated codes together.
			"X-Entity-Ref-ID": uuid.NewString(),
		},
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.InfoContext(ctx, "email sent", slog.String("id", sent.Id), slog.String("subject", subject))
	return nil
}
