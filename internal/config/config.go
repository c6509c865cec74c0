package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingTelegramToken = errors.New("TELEGRAM_TOKEN is not set")
	ErrMissingAdminID       = errors.New("ADMIN_ID is not set")
)

// Config holds all application configuration.
type Config struct {
	// Telegram
	TelegramToken string
	AdminID       int64
	BotDebug      bool

	// Server
	Port string

	// Catalog
	AccountsFile string

	// Monitor
	PollInterval     time.Duration
	PollErrorBackoff time.Duration

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string

	// Rate limiter
	RateLimitRPS   int
	RateLimitBurst int
	TrustProxy     bool
}

// Load reads .env (if present) and builds a Config from environment variables.
// Required values are not checked here, see Validate.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables")
	}

	cfg := Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		AdminID:       envInt64("ADMIN_ID", 0),
		BotDebug:      envBool("BOT_DEBUG", false),

		Port: envOr("PORT", "8000"),

		AccountsFile: envOr("ACCOUNTS_FILE", "accounts.json"),

		PollInterval:     envDuration("POLL_INTERVAL", 30*time.Second),
		PollErrorBackoff: envDuration("POLL_ERROR_BACKOFF", 60*time.Second),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: envOr("SENTRY_ENVIRONMENT", "production"),
		SentryRelease:     envOr("SENTRY_RELEASE", "funpaybot@1.0.0"),

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 20),
		TrustProxy:     envBool("TRUST_PROXY", false),
	}

	log.Printf("config: loaded (port=%s, accounts=%s, poll=%s, sentry=%v)",
		cfg.Port, cfg.AccountsFile, cfg.PollInterval, cfg.SentryDSN != "")
	return cfg
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingTelegramToken
	}
	if c.AdminID == 0 {
		return ErrMissingAdminID
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("config: %s must be an integer, got %q", key, v)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: %s must be a positive duration, got %q", key, v)
		return fallback
	}
	return d
}
