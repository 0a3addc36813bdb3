package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// CasdoorConfig holds the identity provider connection settings.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// ResendConfig holds the outbound mailer settings. An empty APIKey disables
// outbound mail (invitations are still issued by the identity provider).
type ResendConfig struct {
	APIKey      string
	FromAddress string
	PortalURL   string
}

// KafkaConfig holds the event bus settings. Empty brokers disable publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	Casdoor CasdoorConfig
	Resend  ResendConfig
	Kafka   KafkaConfig

	// AdminAllowlist is the fixed set of administrator email addresses that
	// are authorized regardless of stored flags. A single list is shared by
	// the authorization guard, the invitation issuer and the materializer.
	AdminAllowlist []string

	// AllowedEmailDomains is the set of permitted email suffixes for
	// invitations, e.g. "@kkadvisory.org".
	AllowedEmailDomains []string
}

// LoadConfig reads configuration from the environment, loading a local .env
// file first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: getEnv("CASDOOR_ORGANIZATION", "kkadvisory"),
			Application:  getEnv("CASDOOR_APPLICATION", "member-portal"),
		},

		Resend: ResendConfig{
			APIKey:      os.Getenv("RESEND_API_KEY"),
			FromAddress: getEnv("RESEND_FROM", "KK Advisory <portal@kkadvisory.org>"),
			PortalURL:   getEnv("PORTAL_URL", "https://portal.kkadvisory.org"),
		},

		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "member-portal.events"),
		},

		AdminAllowlist:      splitList(os.Getenv("ADMIN_ALLOWLIST")),
		AllowedEmailDomains: splitList(getEnv("ALLOWED_EMAIL_DOMAINS", "@kkadvisory.org")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
