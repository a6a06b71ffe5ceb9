// Package config loads engine configuration from the environment, following
// twelve-factor conventions. A .env file is honored when present so local
// runs and tests need no exported variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Matching
	Threshold float64 // minimum overall score to report a duplicate
	BatchSize int     // records per batch chunk
	// WorkerCount bounds parallel comparisons; 0 means runtime.NumCPU.
	WorkerCount int

	// External record store (optional; the engine also runs index-only)
	DatabaseDSN string

	// ML scorer (optional; absent key disables deep check support)
	OpenAIAPIKey   string
	OpenAIModel    string
	ScorerTimeout  time.Duration
	ScorerCacheTTL time.Duration

	// Geocode comparator (optional)
	GoogleMapsAPIKey string

	// Logging
	LogLevel  string
	LogFormat string // "json" or "text"
	LogOutput string // "stdout", "stderr", or file path

	// Rule table overrides (YAML); empty = built-in tables
	TablesPath string
}

func Load() *Config {
	// Best effort; a missing .env is the normal production case.
	_ = godotenv.Load()

	threshold, _ := strconv.ParseFloat(getEnv("DEDUP_THRESHOLD", "0.8"), 64)
	batchSize, _ := strconv.Atoi(getEnv("DEDUP_BATCH_SIZE", "100"))
	workerCount, _ := strconv.Atoi(getEnv("DEDUP_WORKER_COUNT", "0"))
	scorerTimeout, _ := time.ParseDuration(getEnv("SCORER_TIMEOUT", "10s"))
	cacheTTL, _ := time.ParseDuration(getEnv("SCORER_CACHE_TTL", "24h"))

	if threshold < 0 || threshold > 1 {
		log.Printf("[Warning] DEDUP_THRESHOLD %v outside [0,1], using 0.8", threshold)
		threshold = 0.8
	}

	return &Config{
		Threshold:        threshold,
		BatchSize:        batchSize,
		WorkerCount:      workerCount,
		DatabaseDSN:      getEnv("DATABASE_DSN", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ScorerTimeout:    scorerTimeout,
		ScorerCacheTTL:   cacheTTL,
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		LogOutput:        getEnv("LOG_OUTPUT", "stderr"),
		TablesPath:       getEnv("DEDUP_TABLES_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
