package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultGenesisHeight is the block height a fresh registry starts at when
// nothing else is configured.
const DefaultGenesisHeight uint64 = 100

// Registry captures process level configuration for hosting a registry.
type Registry struct {
	Admin         string
	GenesisHeight uint64
	Log           Log
	Token         Token
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string
}

// Token configures caller authentication.
type Token struct {
	SigningKey string
	Issuer     string
	TTL        time.Duration
}

// FromEnv builds a Registry config from environment variables so main stays lean.
func FromEnv() Registry {
	signingKey := os.Getenv("REGISTRY_TOKEN_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	return Registry{
		Admin:         os.Getenv("REGISTRY_ADMIN"),
		GenesisHeight: uintOrDefault("REGISTRY_GENESIS_HEIGHT", DefaultGenesisHeight),
		Log: Log{
			Level:  stringOrDefault("REGISTRY_LOG_LEVEL", "info"),
			Format: stringOrDefault("REGISTRY_LOG_FORMAT", "text"),
		},
		Token: Token{
			SigningKey: signingKey,
			Issuer:     stringOrDefault("REGISTRY_TOKEN_ISSUER", "agencyreg"),
			TTL:        durationOrDefault("REGISTRY_TOKEN_TTL", time.Hour),
		},
	}
}

func stringOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func uintOrDefault(key string, def uint64) uint64 {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
