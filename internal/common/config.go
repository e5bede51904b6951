package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	LLM       LLMConfig
	Batch     BatchConfig
	Reference ReferenceConfig
}

// DatabaseConfig holds candidate-store configuration
type DatabaseConfig struct {
	DSN              string
	Table            string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// LLMConfig holds model-extractor configuration
type LLMConfig struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// BatchConfig holds batch-import configuration
type BatchConfig struct {
	InputDir      string
	QuarantineDir string
	LogPath       string
}

// ReferenceConfig points at the read-only reference data loaded once at start.
type ReferenceConfig struct {
	// NamesPath is a JSON file mapping names to gender; empty uses the embedded table.
	NamesPath string
	// LocationDBPath is the SQLite location reference database.
	LocationDBPath string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			Table:            getEnv("DB_TABLE", "candidate_details"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		LLM: LLMConfig{
			Model:   getEnv("GENAI_MODEL", "gemini-2.0-flash"),
			APIKey:  getEnv("GOOGLE_API_KEY", ""),
			BaseURL: getEnv("GENAI_BASE_URL", ""),
			Timeout: getEnvAsDuration("GENAI_TIMEOUT", 45*time.Second),
		},
		Batch: BatchConfig{
			InputDir:      getEnv("INPUT_DIR", "input_cvs"),
			QuarantineDir: getEnv("QUARANTINE_DIR", "error_cvs"),
			LogPath:       getEnv("BATCH_LOG", "processed_files.log"),
		},
		Reference: ReferenceConfig{
			NamesPath:      getEnv("GENDER_NAMES_FILE", ""),
			LocationDBPath: getEnv("LOCATION_DB", "locations.db"),
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
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

// Validate validates the loaded configuration for the server path.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GOOGLE_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
