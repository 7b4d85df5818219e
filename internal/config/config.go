package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// PricingConfig is passed explicitly into the pricing engine so every quote
// is a pure function of its inputs.
type PricingConfig struct {
	CommissionRatePct float64 // platform cut of the service cost, percent
	SystemFeePerHour  float64 // flat fee billed to the client per hour
	DepositRatePct    float64 // share of the total collected up front, percent
}

func DefaultPricing() PricingConfig {
	return PricingConfig{
		CommissionRatePct: 10,
		SystemFeePerHour:  0,
		DepositRatePct:    30,
	}
}

type Config struct {
	DatabaseURL string
	JWTSecret   string
	ListenAddr  string
	Pricing     PricingConfig
}

// Load reads .env when present, then the environment. DATABASE_URL and
// JWT_SECRET are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ListenAddr:  envOr("LISTEN_ADDR", ":8080"),
		Pricing:     DefaultPricing(),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	var err error
	if cfg.Pricing.CommissionRatePct, err = envFloat("COMMISSION_RATE_PCT", cfg.Pricing.CommissionRatePct); err != nil {
		return nil, err
	}
	if cfg.Pricing.SystemFeePerHour, err = envFloat("SYSTEM_FEE_PER_HOUR", cfg.Pricing.SystemFeePerHour); err != nil {
		return nil, err
	}
	if cfg.Pricing.DepositRatePct, err = envFloat("DEPOSIT_RATE_PCT", cfg.Pricing.DepositRatePct); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s must be non-negative", key)
	}
	return f, nil
}
