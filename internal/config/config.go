package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backends understood by StorageBackend.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DBDriver    string
	DatabaseDSN string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string
	LogLevel    string

	StorageBackend string
	UploadDir      string
	MaxUploadMB    int
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string

	SeedSource string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN: getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/lostfound?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:     getEnvBool("RESET_DB", false),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageLocal),
		UploadDir:      getEnv("UPLOAD_DIR", "uploaded"),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 10),
		S3Bucket:       getEnv("S3_BUCKET", "lostfound"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),

		SeedSource: getEnv("SEED_SOURCE", "seed.json"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
