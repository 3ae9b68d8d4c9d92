// Package config builds process configuration from environment variables so
// main stays lean. Every external collaborator (database, Redis, object
// storage, SMTP, captcha, Kafka) is configured here and nowhere else.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full server configuration.
type Config struct {
	Addr    string
	EventID string

	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration

	DatabaseURL string
	RedisURL    string

	Storage   Storage
	SMTP      SMTP
	Captcha   Captcha
	Kafka     Kafka
	RateLimit RateLimit
}

// Storage configures the S3-compatible object storage collaborator.
type Storage struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
}

// SMTP configures the transactional email collaborator.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Captcha configures the human-verification collaborator.
type Captcha struct {
	VerifyURL string
	Secret    string
	MinScore  float64
}

// Kafka configures the audit event sink.
type Kafka struct {
	Brokers []string
	Topic   string
}

// RateLimit holds the two admission policies: a broad window for every
// request and a tighter one for mutating endpoints.
type RateLimit struct {
	BroadLimit     int
	BroadWindow    time.Duration
	MutatingLimit  int
	MutatingWindow time.Duration
}

// FromEnv builds a Config from environment variables, applying development
// defaults where unset.
func FromEnv() Config {
	return Config{
		Addr:    getenv("REUNION_ADDR", ":8080"),
		EventID: getenv("REUNION_EVENT_ID", "reunion-2026"),

		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getenv("JWT_ISSUER", "reunion"),
		TokenTTL:      getduration("TOKEN_TTL", 24*time.Hour),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		Storage: Storage{
			Endpoint:      os.Getenv("STORAGE_ENDPOINT"),
			AccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:        getenv("STORAGE_BUCKET", "reunion"),
			PublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			UseSSL:        os.Getenv("STORAGE_USE_SSL") == "true",
		},

		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getint("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "no-reply@reunion.example"),
		},

		Captcha: Captcha{
			VerifyURL: getenv("CAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
			Secret:    os.Getenv("CAPTCHA_SECRET"),
			MinScore:  getfloat("CAPTCHA_MIN_SCORE", 0.5),
		},

		Kafka: Kafka{
			Brokers: getlist("KAFKA_BROKERS"),
			Topic:   getenv("KAFKA_AUDIT_TOPIC", "reunion.audit"),
		},

		RateLimit: RateLimit{
			BroadLimit:     getint("RATE_LIMIT_BROAD", 100),
			BroadWindow:    getduration("RATE_LIMIT_BROAD_WINDOW", 15*time.Minute),
			MutatingLimit:  getint("RATE_LIMIT_MUTATING", 5),
			MutatingWindow: getduration("RATE_LIMIT_MUTATING_WINDOW", time.Hour),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getlist(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
