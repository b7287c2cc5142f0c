package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Pipeline PipelineConfig
	AI       AIConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// PipelineConfig holds analysis-pipeline configuration
type PipelineConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
	ArtifactDir    string
	MaxPages       int
}

// AIConfig holds configuration for the optional AI garment classifier
type AIConfig struct {
	Enabled bool
	Model   string
	APIKey  string
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		Pipeline: PipelineConfig{
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 6),
			QueueSize:      getEnvAsInt("PIPELINE_QUEUE_SIZE", 512),
			ProcessTimeout: getEnvAsDuration("PIPELINE_PROCESS_TIMEOUT", 3*time.Minute),
			ArtifactDir:    getEnv("ARTIFACT_DIR", "./tmp"),
			MaxPages:       getEnvAsInt("PDF_MAX_PAGES", 200),
		},
		AI: AIConfig{
			Enabled: getEnvAsBool("AI_CLASSIFY", false),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required when AI_CLASSIFY is set", ErrInvalidInput)
	}
	return nil
}
