package app

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config carries environment-driven settings for the ordering service.
type Config struct {
	// PostgresDSN selects the PostgreSQL stores; empty falls back to memory.
	PostgresDSN string
	// StoreCallTimeout bounds each collaborator call inside the workflow.
	StoreCallTimeout time.Duration
}

const defaultStoreCallTimeout = 5 * time.Second

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		PostgresDSN:      strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		StoreCallTimeout: defaultStoreCallTimeout,
	}
	if raw := strings.TrimSpace(os.Getenv("STORE_CALL_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("STORE_CALL_TIMEOUT must be a positive duration")
		}
		cfg.StoreCallTimeout = timeout
	}
	return cfg, nil
}
