// internal/config/config.go
//
// Runtime configuration for wordul.
//
// Values come from the process environment, optionally seeded from a .env
// file (godotenv). Unset or empty variables fall back to defaults; values
// that fail to parse are logged and also fall back.

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every tunable the server and terminal client read.
type Config struct {
	Port     string
	DBPath   string // empty selects the in-memory store
	LogLevel string

	SessionTTL   time.Duration
	CookieSecret string
	JWTSecret    string
	DailySalt    string
	ClientOrigin string
	Production   bool

	RevealDelay    time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	AllowFixedAnswer bool
}

const devSecret = "dev_secret_change_me"

// Load reads .env (if present) and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() Config {
	c := Config{
		Port:     getEnv("PORT", "5175"),
		DBPath:   os.Getenv("DB_PATH"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SessionTTL:   envDuration("SESSION_TTL", 24*time.Hour),
		CookieSecret: getEnv("COOKIE_SECRET", devSecret),
		JWTSecret:    getEnv("JWT_SECRET", devSecret),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",

		RevealDelay:    envDuration("REVEAL_DELAY", 2*time.Second),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 10),

		AllowFixedAnswer: envBool("ALLOW_FIXED_ANSWER", false),
	}
	if c.Production && (c.CookieSecret == devSecret || c.JWTSecret == devSecret) {
		log.Warn().Msg("running in production with development secrets")
	}
	return c
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("var", k).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func envFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("var", k).Str("value", v).Msg("not a number, using default")
		return def
	}
	return f
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("var", k).Str("value", v).Msg("not a boolean, using default")
		return def
	}
	return b
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("var", k).Str("value", v).Msg("not a duration, using default")
		return def
	}
	return d
}
