package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	SES      SESConfig      `yaml:"ses"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ServerConfig holds HTTP server configuration. BaseURL is the externally
// reachable root of this application, used to build confirmation links.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	Host    string `yaml:"host"`
	BaseURL string `yaml:"base_url"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings. Either URL or the
// discrete fields may be set; URL wins.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// DSN returns the Postgres connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Username), url.QueryEscape(c.Password),
		c.Host, c.Port, c.Name, c.SSLMode)
}

// EmailProvider selects the transactional-email backend.
type EmailProvider string

const (
	ProviderPostmark EmailProvider = "postmark"
	ProviderSES      EmailProvider = "ses"
)

// EmailConfig holds the transactional email provider configuration
type EmailConfig struct {
	Provider       EmailProvider `yaml:"provider"`
	BaseURL        string        `yaml:"base_url"`
	ServerToken    string        `yaml:"server_token"`
	Sender         string        `yaml:"sender"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c EmailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SESConfig holds AWS SES API configuration, used when email.provider is "ses"
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig holds Redis settings for the subscribe rate limiter.
// Redis is optional: with an empty Addr the limiter is disabled.
type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	RatePerMinute int    `yaml:"rate_per_minute"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "prefer"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Email.Provider == "" {
		cfg.Email.Provider = ProviderPostmark
	}
	if cfg.Email.BaseURL == "" {
		cfg.Email.BaseURL = "https://api.postmarkapp.com"
	}
	if cfg.Email.TimeoutSeconds == 0 {
		cfg.Email.TimeoutSeconds = 10
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 10
	}
	if cfg.Redis.RatePerMinute == 0 {
		cfg.Redis.RatePerMinute = 60
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file in the working directory is loaded first if present.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if baseURL := os.Getenv("APP_BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if token := os.Getenv("POSTMARK_SERVER_TOKEN"); token != "" {
		cfg.Email.ServerToken = token
	}
	if baseURL := os.Getenv("EMAIL_BASE_URL"); baseURL != "" {
		cfg.Email.BaseURL = baseURL
	}
	if sender := os.Getenv("EMAIL_SENDER"); sender != "" {
		cfg.Email.Sender = sender
	}
	if accessKey := os.Getenv("AWS_SES_ACCESS_KEY"); accessKey != "" {
		cfg.SES.AccessKey = accessKey
	}
	if secretKey := os.Getenv("AWS_SES_SECRET_KEY"); secretKey != "" {
		cfg.SES.SecretKey = secretKey
	}
	if region := os.Getenv("AWS_SES_REGION"); region != "" {
		cfg.SES.Region = region
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" && c.Database.Name == "" {
		return fmt.Errorf("database url or name is required")
	}
	if c.Email.Sender == "" {
		return fmt.Errorf("email sender address is required")
	}
	if c.Email.Provider == ProviderPostmark && c.Email.ServerToken == "" {
		return fmt.Errorf("postmark server token is required")
	}
	if c.Email.Provider != ProviderPostmark && c.Email.Provider != ProviderSES {
		return fmt.Errorf("unsupported email provider %q", c.Email.Provider)
	}
	return nil
}
