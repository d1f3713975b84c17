package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the faucet.
// It is loaded once at startup and passed by reference; nothing mutates it afterwards.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Bot verification (Turnstile-compatible siteverify endpoint)
	CaptchaSecret    string `envconfig:"CAPTCHA_SECRET"`
	CaptchaVerifyURL string `envconfig:"CAPTCHA_VERIFY_URL" default:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`

	// Ledger node. If any of the three is empty the faucet runs in dry-run mode
	// and issues synthetic receipts instead of real transfers.
	LedgerURL     string `envconfig:"LEDGER_URL"`
	FaucetAddress string `envconfig:"FAUCET_ADDRESS"`
	FaucetSeed    string `envconfig:"FAUCET_SEED"`

	// Grant policy
	ClaimAmount         int64 `envconfig:"CLAIM_AMOUNT" default:"100"`
	AddressDailyLimit   int   `envconfig:"ADDRESS_DAILY_LIMIT" default:"1"`
	IPHourlyLimit       int   `envconfig:"IP_HOURLY_LIMIT" default:"10"`
	ChallengeDifficulty int   `envconfig:"CHALLENGE_DIFFICULTY" default:"4"`

	// Rate limit store. Empty REDIS_ADDR selects the in-process store.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load reads configuration from the environment (and an optional .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.ClaimAmount <= 0 {
		return nil, fmt.Errorf("CLAIM_AMOUNT must be positive, got %d", cfg.ClaimAmount)
	}
	if cfg.IPHourlyLimit <= 0 {
		return nil, fmt.Errorf("IP_HOURLY_LIMIT must be positive, got %d", cfg.IPHourlyLimit)
	}
	return cfg, nil
}

// LedgerConfigured reports whether all ledger connection details are present.
// A partially configured ledger is treated as unconfigured.
func (c *Config) LedgerConfigured() bool {
	return c.LedgerURL != "" && c.FaucetAddress != "" && c.FaucetSeed != ""
}
