package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"go-hiring-ingest/internal/llm"
	"go-hiring-ingest/pkg/storage"
)

type Config struct {
	Port  string
	DBUrl string
	// Redis Configuration (rate limiting)
	RedisURL      string
	RedisPassword string
	// Object storage (S3-compatible: AWS, Wasabi, R2)
	Storage storage.Config
	// Hosted language model (chat-completions compatible)
	LLM llm.Config
	// Rate Limiting Configuration
	SignRequestsPerMinute int // per IP
	SignRequestsPerDay    int // per actor
}

func LoadConfig() (*Config, error) {
	// Load .env file (effective locally, ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		Storage: storage.Config{
			Bucket:          getEnv("STORAGE_BUCKET", ""),
			Endpoint:        strings.TrimRight(getEnv("STORAGE_ENDPOINT", ""), "/"),
			Region:          getEnv("STORAGE_REGION", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			SessionToken:    getEnv("STORAGE_SESSION_TOKEN", ""),
			PublicBaseURL:   strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
		},
		LLM: llm.Config{
			BaseURL:     strings.TrimRight(getEnv("LLM_BASE_URL", "https://api.openai.com/v1"), "/"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.1),
			Pricing: llm.Pricing{
				PromptPer1K:        getEnvFloat("LLM_PRICE_PROMPT_PER_1K", 0),
				CompletionPer1K:    getEnvFloat("LLM_PRICE_COMPLETION_PER_1K", 0),
				CurrencyMultiplier: getEnvFloat("LLM_CURRENCY_MULTIPLIER", 1),
				Currency:           getEnv("LLM_CURRENCY", "USD"),
			},
		},
		SignRequestsPerMinute: getEnvInt("SIGN_REQUESTS_PER_MINUTE", 10),
		SignRequestsPerDay:    getEnvInt("SIGN_REQUESTS_PER_DAY", 100),
	}

	// Basic validation to avoid confusing failures later
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.LLM.APIKey == "" {
		log.Println("WARNING: LLM_API_KEY is missing. Description processing will fail.")
	}

	return cfg, nil
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

// getEnvFloat returns a float environment variable or fallback if not set/invalid
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}
