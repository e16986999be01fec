package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/passgen/passgen-go/internal/generator"
)

const (
	devJWTSecret = "dev-secret-change-in-production"

	defaultMaxLength      = 4096
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
)

// Generator holds the password generation settings shared by the API server
// and the passgen CLI.
type Generator struct {
	// DefaultIncludeSymbols applies when a request does not say whether to
	// include symbols.
	DefaultIncludeSymbols bool
	DefaultLength         int
	MaxLength             int
	GeneratorSource       string
	GeneratorSeed         uint64
}

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration

	Generator

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passgen?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:   getDuration("JWT_EXPIRY", 24*time.Hour),

		Generator: LoadGenerator(),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", defaultRateLimitBurst),
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		slog.Warn("rate limit must be positive, using defaults",
			"rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
		cfg.RateLimitRPS = defaultRateLimitRPS
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	return cfg
}

// LoadGenerator reads only the generator settings. Out of range values are
// replaced so that every length in 0..MaxLength is accepted.
func LoadGenerator() Generator {
	g := Generator{
		DefaultIncludeSymbols: getBool("DEFAULT_INCLUDE_SYMBOLS", true),
		DefaultLength:         getInt("DEFAULT_LENGTH", generator.DefaultLength),
		MaxLength:             getInt("MAX_LENGTH", defaultMaxLength),
		GeneratorSource:       getEnv("GENERATOR_SOURCE", generator.SourceGlobal),
		GeneratorSeed:         getUint64("GENERATOR_SEED", 0),
	}

	if g.MaxLength < 0 {
		slog.Warn("MAX_LENGTH must not be negative, using default", "value", g.MaxLength)
		g.MaxLength = defaultMaxLength
	}

	if g.DefaultLength < 0 || g.DefaultLength > g.MaxLength {
		slog.Warn("DEFAULT_LENGTH out of range, using default",
			"value", g.DefaultLength, "max", g.MaxLength)
		g.DefaultLength = min(generator.DefaultLength, g.MaxLength)
	}

	return g
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getUint64(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		slog.Warn("invalid unsigned integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
