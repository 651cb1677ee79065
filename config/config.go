package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Engine  EngineConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Host                    string
	Port                    int
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	GracefulShutdownTimeout time.Duration
	RateLimitRPS            float64
	RateLimitBurst          int
}

// EngineConfig carries the analysis tunables. Rule tables load from the
// YAML files so operators can retune classification without redeploying.
type EngineConfig struct {
	RulesPath           string // optional override for the built-in tables
	DepartmentsPath     string // optional department seed file
	SimilarityThreshold float64
	UrgencyWeight       float64
	ConfidenceWeight    float64
	DuplicatePenalty    float64
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:                    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                    getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:             getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:            getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:             getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulShutdownTimeout: getEnvDuration("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
			RateLimitRPS:            getEnvFloat("SERVER_RATE_LIMIT_RPS", 10.0),
			RateLimitBurst:          getEnvInt("SERVER_RATE_LIMIT_BURST", 20),
		},
		Engine: EngineConfig{
			RulesPath:           getEnv("ENGINE_RULES_PATH", ""),
			DepartmentsPath:     getEnv("ENGINE_DEPARTMENTS_PATH", ""),
			SimilarityThreshold: getEnvFloat("ENGINE_SIMILARITY_THRESHOLD", 0.75),
			UrgencyWeight:       getEnvFloat("ENGINE_URGENCY_WEIGHT", 0.6),
			ConfidenceWeight:    getEnvFloat("ENGINE_CONFIDENCE_WEIGHT", 0.4),
			DuplicatePenalty:    getEnvFloat("ENGINE_DUPLICATE_PENALTY", 0.3),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("server rate limit must be positive")
	}
	if c.Engine.SimilarityThreshold <= 0 || c.Engine.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0,1]: %v", c.Engine.SimilarityThreshold)
	}
	if c.Engine.UrgencyWeight < 0 || c.Engine.ConfidenceWeight < 0 || c.Engine.DuplicatePenalty < 0 {
		return fmt.Errorf("engine scoring weights must be non-negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
