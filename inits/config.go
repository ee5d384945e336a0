package inits

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full environment-sourced configuration, loaded and
// validated once at startup and passed explicitly to every component.
//
// The Graph credentials are deliberately not required here: their absence
// surfaces as a server error on the first send attempt, so the service can
// boot (and serve health checks) in environments where the mail path is not
// yet provisioned.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	TenantID     string `envconfig:"GRAPH_TENANT_ID"`
	ClientID     string `envconfig:"GRAPH_CLIENT_ID"`
	ClientSecret string `envconfig:"GRAPH_CLIENT_SECRET"`

	Sender    string `envconfig:"MAIL_SENDER" required:"true"`
	Recipient string `envconfig:"MAIL_RECIPIENT" required:"true"`
	Subject   string `envconfig:"MAIL_SUBJECT" default:"New Loan Application Inquiry"`

	LoginBaseURL string `envconfig:"GRAPH_LOGIN_URL" default:"https://login.microsoftonline.com"`
	GraphBaseURL string `envconfig:"GRAPH_BASE_URL" default:"https://graph.microsoft.com"`

	MaxAttachmentBytes int64    `envconfig:"MAX_ATTACHMENT_BYTES" default:"5242880"`
	MaxMultipartMemory int64    `envconfig:"MAX_MULTIPART_MEMORY" default:"8388608"`
	AllowedMimeTypes   []string `envconfig:"ALLOWED_MIME_TYPES" default:"application/pdf,image/jpeg,image/png"`

	AllowedHosts       []string      `envconfig:"ALLOWED_HOSTS"`
	RateLimitPerMinute float64       `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	DuplicateCooldown  time.Duration `envconfig:"DUPLICATE_COOLDOWN" default:"10m"`

	TurnstileSecret    string `envconfig:"TURNSTILE_SECRET_KEY"`
	TurnstileTestToken string `envconfig:"TURNSTILE_TEST_TOKEN"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	// envconfig's required tag accepts a set-but-empty variable, so check
	// the send path addresses explicitly.
	if cfg.Sender == "" {
		return nil, errors.New("MAIL_SENDER must not be empty")
	}
	if cfg.Recipient == "" {
		return nil, errors.New("MAIL_RECIPIENT must not be empty")
	}
	if cfg.MaxAttachmentBytes <= 0 {
		return nil, errors.New("MAX_ATTACHMENT_BYTES must be positive")
	}
	if cfg.MaxMultipartMemory <= 0 {
		return nil, errors.New("MAX_MULTIPART_MEMORY must be positive")
	}
	if len(cfg.AllowedMimeTypes) == 0 {
		return nil, errors.New("ALLOWED_MIME_TYPES must not be empty")
	}
	if cfg.RateLimitPerMinute <= 0 {
		return nil, errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if cfg.DuplicateCooldown < 0 {
		return nil, errors.New("DUPLICATE_COOLDOWN must not be negative")
	}
	return &cfg, nil
}

// MaxRequestBytes is the multipart body ceiling: the attachment ceiling
// plus headroom for the text fields and multipart framing.
func (c *Config) MaxRequestBytes() int64 {
	return c.MaxAttachmentBytes + 1<<20
}

// AllowedMimeSet returns the attachment allow-list as a lookup map.
func (c *Config) AllowedMimeSet() map[string]bool {
	set := make(map[string]bool, len(c.AllowedMimeTypes))
	for _, m := range c.AllowedMimeTypes {
		set[m] = true
	}
	return set
}
