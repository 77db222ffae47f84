package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string `env:"DB_HOST,default=localhost"`
	DBPort     string `env:"DB_PORT,default=5432"`
	DBUser     string `env:"DB_USER,default=postgres"`
	DBPassword string `env:"DB_PASSWORD,default=postgres"`
	DBName     string `env:"DB_NAME,default=nft_marketplace"`
	DBSSLMode  string `env:"DB_SSLMODE,default=disable"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN,default=168h"`

	Port          string `env:"PORT,default=5000"`
	Env           string `env:"ENV,default=development"`
	FrontendURL   string `env:"FRONTEND_URL,default=http://localhost:3012"`
	SessionSecret string `env:"SESSION_SECRET,default=mintsphere-session"`
	LogsDir       string `env:"LOGS_DIR,default=logs"`

	Web3ProviderURL       string        `env:"WEB3_PROVIDER_URL"`
	RequiredConfirmations uint64        `env:"TX_REQUIRED_CONFIRMATIONS,default=3"`
	PollInterval          time.Duration `env:"TX_POLL_INTERVAL,default=10s"`
	MonitorTimeout        time.Duration `env:"TX_MONITOR_TIMEOUT,default=30m"`
	PlatformFeePercent    string        `env:"PLATFORM_FEE_PERCENT,default=2.5"`

	RedisURL       string        `env:"REDIS_URL"`
	NFTCacheTTL    time.Duration `env:"NFT_CACHE_TTL,default=30s"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST,default=20"`

	PrivyAppID           string `env:"PRIVY_APP_ID"`
	PrivyAppSecret       string `env:"PRIVY_APP_SECRET"`
	PrivyVerificationKey string `env:"PRIVY_VERIFICATION_KEY"`
	PrivyAPIURL          string `env:"PRIVY_API_URL,default=https://auth.privy.io"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL,default=http://localhost:5000/api/auth/google/callback"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM,default=no-reply@mintsphere.io"`
}

// LoadConfig loads configuration from a .env file (if present) and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("error decoding environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values envdecode cannot express as defaults
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.RequiredConfirmations == 0 {
		return errors.New("TX_REQUIRED_CONFIRMATIONS must be at least 1")
	}
	if c.PollInterval <= 0 || c.MonitorTimeout <= 0 {
		return errors.New("TX_POLL_INTERVAL and TX_MONITOR_TIMEOUT must be positive")
	}
	fee, err := c.FeePercent()
	if err != nil {
		return fmt.Errorf("invalid PLATFORM_FEE_PERCENT: %w", err)
	}
	if fee.IsNegative() {
		return errors.New("PLATFORM_FEE_PERCENT cannot be negative")
	}
	return nil
}

// FeePercent parses the platform fee percentage
func (c *Config) FeePercent() (decimal.Decimal, error) {
	return decimal.NewFromString(c.PlatformFeePercent)
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrationURL builds the postgres URL used by the migration runner
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PrivyEnabled reports whether Privy sign-in is configured
func (c *Config) PrivyEnabled() bool {
	return c.PrivyAppID != "" && c.PrivyVerificationKey != ""
}

// SMTPEnabled reports whether outgoing mail is configured
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
