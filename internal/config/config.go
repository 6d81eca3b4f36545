package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the portal.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	SES      SESConfig      `yaml:"ses"`
	Mail     MailConfig     `yaml:"mail"`
	Tracking TrackingConfig `yaml:"tracking"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection.
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifeMins int    `yaml:"conn_max_life_mins"`
}

// ConnMaxLifetime returns the configured connection lifetime as a duration.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifeMins) * time.Minute
}

// RedisConfig holds Redis settings for the click de-duplication window.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// SESConfig holds AWS SES API configuration for the mail transport.
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration.
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Configured reports whether mail credentials are present. Campaign starts
// are refused when they are not.
func (c SESConfig) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// MailConfig holds the sender identity for simulation emails.
type MailConfig struct {
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
}

// TrackingConfig holds tracking-link settings.
type TrackingConfig struct {
	// PublicBaseURL is the externally reachable base used to build
	// per-recipient landing links.
	PublicBaseURL string `yaml:"public_base_url"`
	// SigningKey is the HMAC key for tracking tokens.
	SigningKey string `yaml:"signing_key"`
	// TokenTTLHours bounds how long a tracking link stays valid.
	TokenTTLHours int `yaml:"token_ttl_hours"`
	// ClickDedupSeconds is the window in which repeat clicks on the same
	// token are not re-recorded.
	ClickDedupSeconds int `yaml:"click_dedup_seconds"`
}

// TokenTTL returns the token lifetime as a duration.
func (c TrackingConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// ClickDedupWindow returns the click de-duplication window as a duration.
func (c TrackingConfig) ClickDedupWindow() time.Duration {
	return time.Duration(c.ClickDedupSeconds) * time.Second
}

// Load reads and parses the configuration file. A missing file is not an
// error; defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifeMins == 0 {
		cfg.Database.ConnMaxLifeMins = 30
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-east-1"
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "IT Security"
	}
	if cfg.Tracking.PublicBaseURL == "" {
		cfg.Tracking.PublicBaseURL = "http://localhost:5173"
	}
	if cfg.Tracking.TokenTTLHours == 0 {
		cfg.Tracking.TokenTTLHours = 72
	}
	if cfg.Tracking.ClickDedupSeconds == 0 {
		cfg.Tracking.ClickDedupSeconds = 300
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
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
	if v := os.Getenv("MAIL_FROM_NAME"); v != "" {
		cfg.Mail.FromName = v
	}
	if v := os.Getenv("MAIL_FROM_EMAIL"); v != "" {
		cfg.Mail.FromEmail = v
	}
	if v := os.Getenv("TRACKING_BASE_URL"); v != "" {
		cfg.Tracking.PublicBaseURL = v
	}
	if v := os.Getenv("TRACKING_SIGNING_KEY"); v != "" {
		cfg.Tracking.SigningKey = v
	}

	return cfg, nil
}
