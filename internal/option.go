package internal

import "beyondnp-backend/internal/mailer"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mailer mailer.Mailer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMailer replaces the mailer built from the mail configuration.
func WithMailer(m mailer.Mailer) Option {
	return func(a *application) {
		a.mailer = m
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, errConfigRequired
	}
	if app.mailer == nil {
		app.mailer = mailer.New(app.config.Mail.ResendAPIKey, app.config.Mail.From)
	}
	return app, nil
}
