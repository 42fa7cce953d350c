package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// MinSecretLength is the smallest JWT signing secret accepted at startup.
// HS256 keys shorter than the hash output weaken the MAC.
const MinSecretLength = 32

// Config holds the environment driven configuration for the officer service.
type Config struct {
	// Service
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"officer"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort     int           `env:"METRICS_PORT" envDefault:"9091"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EnableSwagger   bool          `env:"ENABLE_SWAGGER" envDefault:"true"`

	// Gateway credentials
	APIKey        string        `env:"API_KEY,notEmpty"`
	SigningSecret string        `env:"OFFICER_SECRET_KEY,notEmpty"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Allow-list of emails permitted to obtain a session.
	AllowedUsers []string `env:"USERS,notEmpty" envSeparator:","`

	// GitLab OAuth2
	GitLabBaseURL      string        `env:"OAUTH2_GITLAB_URL,notEmpty"`
	GitLabClientID     string        `env:"OAUTH2_GITLAB_CLIENT_ID,notEmpty"`
	GitLabClientSecret string        `env:"OAUTH2_GITLAB_CLIENT_SECRET,notEmpty"`
	OAuthRedirectURL   string        `env:"OAUTH2_REDIRECT_URL,notEmpty"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	// Kubernetes
	Kubeconfig     string        `env:"KUBECONFIG"`
	ClusterTimeout time.Duration `env:"CLUSTER_TIMEOUT" envDefault:"15s"`
}

// Load parses environment variables into Config and validates the pieces the
// gateway cannot run without. Validation failures are fatal to the process.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if len(cfg.SigningSecret) < MinSecretLength {
		return nil, fmt.Errorf("OFFICER_SECRET_KEY must be at least %d bytes", MinSecretLength)
	}

	if _, err := url.ParseRequestURI(cfg.GitLabBaseURL); err != nil {
		return nil, fmt.Errorf("invalid OAUTH2_GITLAB_URL: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.OAuthRedirectURL); err != nil {
		return nil, fmt.Errorf("invalid OAUTH2_REDIRECT_URL: %w", err)
	}
	cfg.GitLabBaseURL = strings.TrimSuffix(cfg.GitLabBaseURL, "/")

	users := cfg.AllowedUsers[:0]
	for _, u := range cfg.AllowedUsers {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			users = append(users, trimmed)
		}
	}
	cfg.AllowedUsers = users
	if len(cfg.AllowedUsers) == 0 {
		return nil, fmt.Errorf("USERS must list at least one email")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MetricsAddr returns the prometheus listen address.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}
