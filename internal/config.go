package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Mongo     MongoConfig       `yaml:"mongo"`
	Auth      AuthConfig        `yaml:"auth"`
	Mail      MailConfig        `yaml:"mail"`
	RateLimit RateLimitConfig   `yaml:"rate_limit"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Mongo.Validate(); err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Mail.Validate(); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	return c.RateLimit.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" env:"LOG_LEVEL"`
	HTTP     HTTPConfig `yaml:"http"`
	CORS     CORSConfig `yaml:"cors"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
}

// MongoConfig holds MongoDB connection configuration.
//
// Transactions should only be enabled against a replica set or sharded
// cluster; a standalone server rejects multi-document transactions.
type MongoConfig struct {
	URI            string        `yaml:"uri" env:"MONGODB_URI"`
	Database       string        `yaml:"database" env:"DB_NAME"`
	Transactions   bool          `yaml:"transactions" env:"MONGODB_TRANSACTIONS"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Validate validates the MongoDB configuration.
func (c *MongoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URI, validation.Required),
		validation.Field(&c.Database, validation.Required),
	)
}

// AuthConfig holds token and verification-code settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	CodeTTL   time.Duration `yaml:"code_ttl"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.JWTSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.TokenTTL, validation.Required),
		validation.Field(&c.CodeTTL, validation.Required),
	)
}

// MailConfig holds outbound email settings. An empty ResendAPIKey switches
// delivery to the log-only mailer.
type MailConfig struct {
	ResendAPIKey string        `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	From         string        `yaml:"from" env:"FROM_EMAIL"`
	SendTimeout  time.Duration `yaml:"send_timeout"`
}

// Validate validates the mail configuration.
func (c *MailConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.From, validation.When(c.ResendAPIKey != "", validation.Required)),
		validation.Field(&c.SendTimeout, validation.Required),
	)
}

// RateLimitConfig bounds requests per client IP on the public auth routes.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// Validate validates the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PerMinute, validation.Required, validation.Min(1)),
		validation.Field(&c.Burst, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:            8080,
				ShutdownTimeout: 10 * time.Second,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
			},
		},
		Mongo: MongoConfig{
			Database:       "beyondnp",
			ConnectTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
			CodeTTL:  10 * time.Minute,
		},
		Mail: MailConfig{
			SendTimeout: 15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			PerMinute: 20,
			Burst:     5,
		},
	}
}
