package config

import (
	"os"
	"time"
)

// Ledger backend selection.
const (
	LedgerMemory   = "memory"
	LedgerRedis    = "redis"
	LedgerPostgres = "postgres"
)

// Biometric authenticator selection.
const (
	BiometricMock = "mock"
	BiometricHTTP = "http"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// DatabaseURL selects PostgreSQL persistence; empty falls back to the
	// in-memory stores (development only).
	DatabaseURL string

	Redis RedisConfig

	// LedgerBackend picks where verified voter ids live. The memory backend
	// matches the original behavior: membership is lost on restart while the
	// verification counter survives.
	LedgerBackend string

	BiometricMode    string
	BiometricURL     string
	BiometricTimeout time.Duration

	// RequireEnrollment gates voter registration on a successful biometric
	// capture, mirroring the registration flow of the source system.
	RequireEnrollment bool

	JWTSigningKey string

	// OperatorPasswordHash is a bcrypt hash; empty disables operator auth so
	// local development needs no token plumbing.
	OperatorPasswordHash string
}

// RedisConfig holds connection settings for the optional Redis ledger.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                 getenv("VOTEGATE_ADDR", ":8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		LedgerBackend:        getenv("LEDGER_BACKEND", LedgerMemory),
		BiometricMode:        getenv("BIOMETRIC_MODE", BiometricMock),
		BiometricURL:         os.Getenv("BIOMETRIC_URL"),
		BiometricTimeout:     getduration("BIOMETRIC_TIMEOUT", 30*time.Second),
		RequireEnrollment:    os.Getenv("REQUIRE_ENROLLMENT") == "true",
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	cfg.JWTSigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
