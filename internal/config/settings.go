package config

import (
	"os"
	"strconv"
	"time"
)

// ModelProvider selects which hosted-model vendor backs the embedder and the
// chat llm. Calling code never branches on this - it is resolved once in main.
type ModelProvider string

const (
	ProviderOpenAI ModelProvider = "OPENAI"
	ProviderGemini ModelProvider = "GEMINI"
)

// Settings is built once at process start and handed to each constructor.
// No package reads the environment after this point.
type Settings struct {
	ListenAddr string

	Provider ModelProvider

	OpenAIAPIKey         string
	OpenAIBaseURL        string //empty means the vendor default endpoint
	OpenAIChatModel      string
	OpenAIEmbeddingModel string

	GeminiAPIKey         string
	GeminiModelName      string
	GoogleEmbeddingModel string

	QdrantHost string
	QdrantPort int

	IndexName string

	RedisAddr     string
	RedisPassword string

	AuthToken string

	SessionTTL time.Duration

	Temperature float32
}

func LoadSettings() Settings {
	s := Settings{
		ListenAddr:           getEnv("LISTEN_ADDR", ServerListenAddr),
		Provider:             ModelProvider(getEnv("MODEL_PROVIDER", string(ProviderOpenAI))),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		OpenAIChatModel:      getEnv("OPENAI_CHAT_DEPLOYMENT", "gpt-4o-mini"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_DEPLOYMENT", "text-embedding-3-small"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModelName:      getEnv("GEMINI_MODEL_NAME", "gemini-2.5-flash-lite-preview-09-2025"),
		GoogleEmbeddingModel: getEnv("GOOGLE_EMBEDDING_MODEL", "gemini-embedding-001"),
		QdrantHost:           getEnv("QDRANT_HOST", QdrantHost),
		QdrantPort:           getEnvInt("QDRANT_PORT", QdrantGrpcPort),
		IndexName:            getEnv("INDEX_NAME", "hr-docs"),
		RedisAddr:            getEnv("REDIS_ADDR", RedisAddr),
		RedisPassword:        getEnv("REDIS_PASSWORD", RedisPassword),
		AuthToken:            os.Getenv("AUTH_TOKEN"),
		SessionTTL:           getEnvDuration("SESSION_TTL", SessionTTL),
		Temperature:          ModelTemperature,
	}
	return s
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
