// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Artifacts   ArtifactsConfig
	Generator   GeneratorConfig
	Cache       CacheConfig
	NATS        NATSConfig
	Refresh     RefreshConfig
	Sentiment   SentimentConfig
	Scoring     ScoringConfig
	Logging     LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// ArtifactsConfig holds the artifact store configuration. The order slices
// are consulted top to bottom during resolution.
type ArtifactsConfig struct {
	Dir              string
	MassTopics       string
	LegacyTopics     []string
	KeywordAnalysis  string
	TrendingKeywords string
}

// GeneratorConfig holds the external generator process configuration.
// An empty Script disables the generator tier entirely.
type GeneratorConfig struct {
	Bin           string
	Script        string
	TopicsTimeout time.Duration
	StatsTimeout  time.Duration
	MaxConcurrent int
}

// CacheConfig holds result cache configuration. An empty RedisAddr
// disables caching.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	TTL           time.Duration
}

// NATSConfig holds NATS configuration. An empty URL disables event
// publishing and the websocket stream degrades to heartbeats.
type NATSConfig struct {
	URL            string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// RefreshConfig holds the scheduled artifact refresh configuration.
type RefreshConfig struct {
	Enabled  bool
	CronSpec string
}

// SentimentConfig holds sentiment classifier configuration. An empty
// LexiconPath keeps the built-in lexicons.
type SentimentConfig struct {
	LexiconPath string
}

// ScoringConfig holds trend scoring configuration.
type ScoringConfig struct {
	Strategy string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Artifacts: ArtifactsConfig{
			Dir:        getEnv("ARTIFACTS_DIR", "data"),
			MassTopics: getEnv("ARTIFACTS_MASS_TOPICS", "mass_real_notes.json"),
			LegacyTopics: getEnvAsSlice("ARTIFACTS_LEGACY_TOPICS", []string{
				"enhanced_hot_topics.json",
				"enhanced_real_notes.json",
				"real_hot_topics.json",
				"notes.json",
				"hot_topics.json",
			}),
			KeywordAnalysis:  getEnv("ARTIFACTS_KEYWORD_ANALYSIS", "keyword_analysis.json"),
			TrendingKeywords: getEnv("ARTIFACTS_TRENDING_KEYWORDS", "trending_keywords.json"),
		},
		Generator: GeneratorConfig{
			Bin:           getEnv("GENERATOR_BIN", "python3"),
			Script:        getEnv("GENERATOR_SCRIPT", ""),
			TopicsTimeout: getEnvAsDuration("GENERATOR_TOPICS_TIMEOUT", 30*time.Second),
			StatsTimeout:  getEnvAsDuration("GENERATOR_STATS_TIMEOUT", 20*time.Second),
			MaxConcurrent: getEnvAsInt("GENERATOR_MAX_CONCURRENT", 4),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("CACHE_REDIS_ADDR", ""),
			RedisPassword: getEnv("CACHE_REDIS_PASSWORD", ""),
			TTL:           getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			Subject:        getEnv("NATS_SUBJECT", "trendlens.resolution"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Refresh: RefreshConfig{
			Enabled:  getEnvAsBool("REFRESH_ENABLED", false),
			CronSpec: getEnv("REFRESH_CRON", "0 */6 * * *"),
		},
		Sentiment: SentimentConfig{
			LexiconPath: getEnv("SENTIMENT_LEXICON_PATH", ""),
		},
		Scoring: ScoringConfig{
			Strategy: getEnv("SCORING_STRATEGY", "linear"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Generator.MaxConcurrent <= 0 {
		return fmt.Errorf("generator max concurrent must be positive")
	}
	switch config.Scoring.Strategy {
	case "linear", "exponential":
	default:
		return fmt.Errorf("unknown scoring strategy %q", config.Scoring.Strategy)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
