package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go-jobportal-backend/pkg/logger"
)

type Config struct {
	Port        string
	DBUrl       string
	JWTSecret   string
	FrontendURL string
	LogLevel    string
	// Database pool
	DBMaxConns int
	DBMinConns int
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitEnabled       bool
	RateLimitRequests      int
	RateLimitWindowSeconds int
	// Matching Configuration
	MatchingTaxonomyPath          string // empty uses the embedded taxonomy
	MatchingWorkers               int    // 0 means GOMAXPROCS
	MatchingDefaultJobsTopN       int
	MatchingDefaultApplicantsTopN int
	MatchingMaxTopN               int
	ShutdownTimeout               time.Duration
}

func LoadConfig() (*Config, error) {
	// Load .env file (only present locally; ignored in production when missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 25),
		DBMinConns:  getEnvInt("DB_MIN_CONNS", 5),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitEnabled:       getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests:      getEnvInt("RATE_LIMIT_REQUESTS", 100),      // 100 requests per window
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60), // 1 minute window
		// Matching Configuration
		MatchingTaxonomyPath:          getEnv("MATCHING_TAXONOMY_PATH", ""),
		MatchingWorkers:               getEnvInt("MATCHING_WORKERS", 0),
		MatchingDefaultJobsTopN:       getEnvInt("MATCHING_DEFAULT_JOBS_TOP_N", 5),
		MatchingDefaultApplicantsTopN: getEnvInt("MATCHING_DEFAULT_APPLICANTS_TOP_N", 10),
		MatchingMaxTopN:               getEnvInt("MATCHING_MAX_TOP_N", 50),
		ShutdownTimeout:               getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DBUrl == "" {
		logger.Log.Warn("DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		logger.Log.Warn("REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.MatchingDefaultJobsTopN <= 0 || c.MatchingDefaultApplicantsTopN <= 0 {
		return fmt.Errorf("config: matching default top_n values must be positive")
	}
	if c.MatchingMaxTopN > 0 &&
		(c.MatchingDefaultJobsTopN > c.MatchingMaxTopN || c.MatchingDefaultApplicantsTopN > c.MatchingMaxTopN) {
		return fmt.Errorf("config: MATCHING_MAX_TOP_N (%d) is below a default top_n", c.MatchingMaxTopN)
	}
	if c.RateLimitEnabled && (c.RateLimitRequests <= 0 || c.RateLimitWindowSeconds <= 0) {
		return fmt.Errorf("config: rate limit requests and window must be positive")
	}
	return nil
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15s") or plain seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
