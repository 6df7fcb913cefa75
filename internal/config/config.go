package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config chứa toàn bộ application configuration.
// Populated từ environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	AI        AIConfig
	Transcode TranscodeConfig
	Media     MediaConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string // ows-media
	UseSSL    bool
}

// AuthConfig mô tả identity-provider boundary: token đã được verify
// bằng shared secret, groups nằm trong một claim có thể đổi tên.
type AuthConfig struct {
	JWTSecret     string
	GroupsClaim   string // claim carrying role groups, e.g. "cognito:groups"
	WebhookSecret string // shared secret for the transcode callback
}

type AIConfig struct {
	Endpoint string // caption service URL; empty disables captions
	Timeout  time.Duration
}

type TranscodeConfig struct {
	Endpoint string // video thumbnail job submission URL; empty disables
}

type MediaConfig struct {
	PresignExpiry time.Duration
	ImportMaxSize int64 // bytes
	MaxFiles      int
}

// Load đọc config từ environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "OWS API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "ows"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "ows-media"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			GroupsClaim:   getEnv("JWT_GROUPS_CLAIM", "cognito:groups"),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		},
		AI: AIConfig{
			Endpoint: getEnv("AI_CAPTION_URL", ""),
			Timeout:  time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Transcode: TranscodeConfig{
			Endpoint: getEnv("TRANSCODE_URL", ""),
		},
		Media: MediaConfig{
			PresignExpiry: time.Duration(getEnvInt("PRESIGN_EXPIRY_SECONDS", 3600)) * time.Second,
			ImportMaxSize: int64(getEnvInt("IMPORT_MAX_MB", 50)) * 1024 * 1024,
			MaxFiles:      getEnvInt("MEDIA_MAX_FILES", 15),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Auth.JWTSecret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Auth.WebhookSecret == "" {
			fmt.Println("WARNING: WEBHOOK_SECRET not set - transcode callbacks will be rejected")
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
