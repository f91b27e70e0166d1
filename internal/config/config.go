// internal/config/config.go
//
// Process configuration read from the environment. A `.env` file in the
// working directory is loaded first (development convenience); real
// environment variables win over it.
//
// Environment variables:
//   PORT               HTTP port (default 5175)
//   LOG_LEVEL          zerolog level (default info)
//   DB_PATH            SQLite file for named word lists (default ./data/solver.db; "" disables)
//   REDIS_ADDR         Redis address for shared sessions (default: in-memory store)
//   REDIS_PASSWORD     Redis password
//   REDIS_DB           Redis database number (default 0)
//   SESSION_TTL        session lifetime, Go duration (default 24h)
//   JWT_SECRET         HMAC secret for session tokens
//   ADMIN_KEY_HASH     bcrypt hash of the key allowed to edit word lists
//   DAILY_SALT         salt for the daily answer pick
//   CLIENT_ORIGIN      CORS origin (default http://localhost:5173)
//   COOKIE_SECURE      mark the session cookie Secure and SameSite=None (default false)
//   WORDS_ANSWERS_FILE / WORDS_ALLOWED_FILE  word list overrides

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const devSecret = "dev_secret_change_me"

// Config holds every setting the binary reads.
type Config struct {
	Port          string
	LogLevel      string
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
	JWTSecret     string
	AdminKeyHash  string
	DailySalt     string
	ClientOrigin  string
	AnswersFile   string
	AllowedFile   string
	SecureCookies bool
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	c := Config{
		Port:          GetEnv("PORT", "5175"),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		DBPath:        os.Getenv("DB_PATH"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),
		JWTSecret:     GetEnv("JWT_SECRET", devSecret),
		AdminKeyHash:  os.Getenv("ADMIN_KEY_HASH"),
		DailySalt:     GetEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin:  GetEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		AnswersFile:   os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile:   os.Getenv("WORDS_ALLOWED_FILE"),
		SecureCookies: envBool("COOKIE_SECURE", false),
	}
	if _, set := os.LookupEnv("DB_PATH"); !set {
		c.DBPath = "./data/solver.db"
	}
	return c
}

// ApplyLogLevel sets the global zerolog level; unknown names keep the default.
func (c Config) ApplyLogLevel() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.JWTSecret == devSecret {
		log.Warn().Msg("JWT_SECRET not set, using development secret")
	}
}

// GetEnv returns the value of k or def if unset/empty.
func GetEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
