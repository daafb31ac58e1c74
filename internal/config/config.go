package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Upstream UpstreamConfig `json:"upstream"`
	Session  SessionConfig  `json:"session"`
	Preview  PreviewConfig  `json:"preview"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// UpstreamConfig points at the external outlet-management API
type UpstreamConfig struct {
	BaseURL        string        `json:"base_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	// ServiceToken authenticates background jobs that run without a
	// reviewer session, such as the overdue scan.
	ServiceToken string `json:"service_token"`
}

// SessionConfig controls the portal session cookies
type SessionConfig struct {
	CookieDomain string        `json:"cookie_domain"`
	CookieMaxAge time.Duration `json:"cookie_max_age"`
	Secure       bool          `json:"secure"`
}

// PreviewConfig configures presigned document previews
type PreviewConfig struct {
	S3Region  string        `json:"s3_region"`
	S3Bucket  string        `json:"s3_bucket"`
	URLExpiry time.Duration `json:"url_expiry"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// Load builds configuration from the environment. A local .env file is
// honoured when present so the service runs the same way in development
// and in containers.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Upstream: UpstreamConfig{
			RequestTimeout: 30 * time.Second,
		},
		Session: SessionConfig{
			// Matches the multi-year expiry the portal cookies have always used.
			CookieMaxAge: 3650 * 24 * time.Hour,
			Secure:       true,
		},
		Preview: PreviewConfig{
			S3Region:  "ap-south-1",
			URLExpiry: 15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	overrideWithEnv(config)

	if config.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_POINT is required")
	}

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if base := os.Getenv("API_BASE_POINT"); base != "" {
		config.Upstream.BaseURL = base
	}
	if timeout := os.Getenv("UPSTREAM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Upstream.RequestTimeout = d
		}
	}
	if token := os.Getenv("NSO_SERVICE_TOKEN"); token != "" {
		config.Upstream.ServiceToken = token
	}
	if domain := os.Getenv("COOKIE_DOMAIN"); domain != "" {
		config.Session.CookieDomain = domain
	}
	if secure := os.Getenv("COOKIE_SECURE"); secure != "" {
		config.Session.Secure = secure == "true"
	}
	if region := os.Getenv("PREVIEW_S3_REGION"); region != "" {
		config.Preview.S3Region = region
	}
	if bucket := os.Getenv("PREVIEW_S3_BUCKET"); bucket != "" {
		config.Preview.S3Bucket = bucket
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
