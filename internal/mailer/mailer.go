package mailer

import "context"

// Mailer delivers account emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, code string) error
	SendWelcome(ctx context.Context, to, name string) error
}

// New returns a Resend-backed mailer when apiKey is set and a log-only
// mailer otherwise.
func New(apiKey, from string) Mailer {
	if apiKey == "" {
		return NewLogMailer()
	}
	return NewResend(apiKey, from)
}
