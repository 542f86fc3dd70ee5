package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Client   ClientConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	Enabled    bool
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type StorageConfig struct {
	DataPath          string
	JDPath            string
	ResumePath        string
	MaxFileSize       int64
	MaxRequestSize    int64
	AllowedExtensions []string
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	StaleRunAge       time.Duration
	SweepInterval     time.Duration
}

// ClientConfig drives the scan front-end talking to the API.
type ClientConfig struct {
	APIBaseURL       string
	SettleDelay      time.Duration
	RequestTimeout   time.Duration
	UploadRetryScope string
	LogFile          string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	dataPath := getEnv("DATA_PATH", filepath.Join(os.TempDir(), "ats_data"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			Env:          getEnv("ENV", "development"),
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ats_scanner"),
		},
		Qdrant: QdrantConfig{
			Enabled:    getEnvAsBool("QDRANT_ENABLED", false),
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "ats_resumes"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			DataPath:          dataPath,
			JDPath:            getEnv("JD_PATH", filepath.Join(dataPath, "job_descriptions")),
			ResumePath:        getEnv("RESUME_PATH", filepath.Join(dataPath, "original_resumes")),
			MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 15*1024*1024),
			MaxRequestSize:    getEnvAsInt64("MAX_REQUEST_SIZE", 100*1024*1024),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", "pdf,docx"),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 4),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
			StaleRunAge:       getEnvAsDuration("STALE_RUN_AGE", "15m"),
			SweepInterval:     getEnvAsDuration("SWEEP_INTERVAL", "5m"),
		},
		Client: ClientConfig{
			APIBaseURL:       getEnv("API_BASE_URL", "http://127.0.0.1:5000"),
			SettleDelay:      getEnvAsDuration("SCAN_SETTLE_DELAY", "300ms"),
			RequestTimeout:   getEnvAsDuration("REQUEST_TIMEOUT", "5m"),
			UploadRetryScope: getEnv("UPLOAD_RETRY_SCOPE", "failed"),
			LogFile:          getEnv("SCAN_LOG_FILE", "scan.log"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		part = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), ".")))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
