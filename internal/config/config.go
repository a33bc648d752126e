package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Index    IndexConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	MaxUploadSizeMB    int
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	LLMProvider          string // "groq" or "ollama"
	LLMModel             string // e.g. "llama-3.3-70b-versatile", "llama3"
	GroqAPIKey           string
	Temperature          float64
	MaxTokens            int
}

type IndexConfig struct {
	Backend      string // "memory" or "pgvector"
	SnapshotPath string // memory backend only; "" disables snapshots
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			MaxUploadSizeMB:    getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:          getEnv("LLM_PROVIDER", "groq"),
			LLMModel:             getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			GroqAPIKey:           getEnv("GROQ_API_KEY", ""),
			Temperature:          getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			MaxTokens:            getEnvAsInt("LLM_MAX_TOKENS", 1024),
		},
		Index: IndexConfig{
			Backend:      getEnv("INDEX_BACKEND", "memory"),
			SnapshotPath: getEnv("INDEX_SNAPSHOT_PATH", "data/index_snapshot.json"),
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 100),
			TopK:         getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
