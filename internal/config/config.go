// Package config loads the application configuration from environment
// variables. The resulting struct is built once at startup and injected into
// each component; nothing reads the environment after that.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all tunables for the proxy and injection pipeline.
type Config struct {
	Port string

	// Injection tuning. Spacing is the gap between injected posts in the
	// assembled timeline; CandidateCount is how many recommendations a
	// single request may carry.
	InjectionSpacing int
	CandidateCount   int

	// Strength banding thresholds and the fixed cold-start score.
	HighScoreThreshold     float64
	ModerateScoreThreshold float64
	ColdStartScore         float64

	// Upstream proxying
	UpstreamTimeout time.Duration

	// Timeline limits (organic + injected)
	DefaultLimit int
	MaxLimit     int

	// Synthetic placeholder timeline size for anonymous users
	SyntheticTimelineSize int

	// Secret for signed link tokens minted by the account-link flow.
	LinkTokenSecret string

	// Optional Mastodon public streaming endpoint for pool ingestion,
	// e.g. wss://mastodon.social/api/v1/streaming?stream=public.
	// Empty disables the ingester.
	StreamingURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		InjectionSpacing:       getEnvInt("INJECTION_SPACING", 6),
		CandidateCount:         getEnvInt("CANDIDATE_COUNT", 3),
		HighScoreThreshold:     getEnvFloat("HIGH_SCORE_THRESHOLD", 0.8),
		ModerateScoreThreshold: getEnvFloat("MODERATE_SCORE_THRESHOLD", 0.6),
		ColdStartScore:         getEnvFloat("COLD_START_SCORE", 0.7),
		UpstreamTimeout:        getEnvDuration("UPSTREAM_TIMEOUT", 8*time.Second),
		DefaultLimit:           getEnvInt("DEFAULT_LIMIT", 20),
		MaxLimit:               getEnvInt("MAX_LIMIT", 40),
		SyntheticTimelineSize:  getEnvInt("SYNTHETIC_TIMELINE_SIZE", 8),
		LinkTokenSecret:        getEnv("LINK_TOKEN_SECRET", ""),
		StreamingURL:           getEnv("STREAMING_URL", ""),
	}

	if cfg.InjectionSpacing < 1 {
		return nil, fmt.Errorf("INJECTION_SPACING must be >= 1, got %d", cfg.InjectionSpacing)
	}
	if cfg.HighScoreThreshold < cfg.ModerateScoreThreshold {
		return nil, fmt.Errorf("HIGH_SCORE_THRESHOLD (%.2f) must be >= MODERATE_SCORE_THRESHOLD (%.2f)",
			cfg.HighScoreThreshold, cfg.ModerateScoreThreshold)
	}
	if cfg.SyntheticTimelineSize < 3 {
		cfg.SyntheticTimelineSize = 3
	}
	if cfg.SyntheticTimelineSize > 10 {
		cfg.SyntheticTimelineSize = 10
	}

	return cfg, nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
