package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"rideshare/internal/domain"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultDatabaseURL      = "rideshare.db"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTAccessTTL     = "24h"
	defaultCORSOrigins      = "http://localhost:3000,http://localhost:5173"
	defaultTrialDays        = "30"
	defaultSubscriptionDays = "30"
	defaultDriverPrice      = "10000.00"
	defaultPassengerPrice   = "5000.00"
	defaultRequireVerify    = "false"
	defaultNotifyTimeout    = "5s"
	defaultAutoMigrate      = "true"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	CORSAllowedOrigins []string

	TrialDays                  int
	SubscriptionDays           int
	DriverSubscriptionPrice    domain.Money
	PassengerSubscriptionPrice domain.Money
	RequireDriverVerification  bool

	NotifyTimeout time.Duration
	AutoMigrate   bool
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.NotifyTimeout, err = parseDurationEnv("NOTIFY_TIMEOUT", defaultNotifyTimeout)
	if err != nil {
		return nil, err
	}

	cfg.TrialDays, err = parseIntEnv("TRIAL_DAYS", defaultTrialDays)
	if err != nil {
		return nil, err
	}
	cfg.SubscriptionDays, err = parseIntEnv("SUBSCRIPTION_DAYS", defaultSubscriptionDays)
	if err != nil {
		return nil, err
	}

	cfg.DriverSubscriptionPrice, err = parseMoneyEnv("DRIVER_SUBSCRIPTION_PRICE", defaultDriverPrice)
	if err != nil {
		return nil, err
	}
	cfg.PassengerSubscriptionPrice, err = parseMoneyEnv("PASSENGER_SUBSCRIPTION_PRICE", defaultPassengerPrice)
	if err != nil {
		return nil, err
	}

	cfg.RequireDriverVerification = parseBoolEnv("REQUIRE_DRIVER_VERIFICATION", defaultRequireVerify)
	cfg.AutoMigrate = parseBoolEnv("AUTO_MIGRATE", defaultAutoMigrate)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s trial_days=%d require_verification=%t",
		cfg.AppEnv, cfg.HTTPAddr, cfg.TrialDays, cfg.RequireDriverVerification)

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be > 0")
	}
	if cfg.TrialDays <= 0 {
		return fmt.Errorf("TRIAL_DAYS must be > 0")
	}
	if cfg.SubscriptionDays <= 0 {
		return fmt.Errorf("SUBSCRIPTION_DAYS must be > 0")
	}
	if cfg.DriverSubscriptionPrice <= 0 || cfg.PassengerSubscriptionPrice <= 0 {
		return fmt.Errorf("subscription prices must be > 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseMoneyEnv(name, fallback string) (domain.Money, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	m, err := domain.ParseMoney(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return m, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
