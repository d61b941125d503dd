package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	AgentLogFilePath   string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	WorkDir            string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini  string
	Serper        string
	PushoverUser  string
	PushoverToken string
	IndexTopic    string // Document indexing topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", etc
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

// AgentConfig holds the control loop safety bounds. All of them are
// environment-driven so operators can tune them without a rebuild.
type AgentConfig struct {
	MaxIterations        int           // Decision steps per user message
	MaxToolCallsPerTurn  int           // Dispatch batch cap
	MaxToolCallsPerChat  int           // Total invocations per user message
	DecisionTimeout      time.Duration
	ToolTimeout          time.Duration
	ConcurrentDispatch   bool
	CodeExecutionEnabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AgentLogFilePath:   getEnv("AGENT_LOG_FILE_PATH", "logs/agent_loop.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			WorkDir:            getEnv("AGENT_WORK_DIR", "sandbox"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Serper:        getEnv("SERPER_API_KEY", ""),
			PushoverUser:  getEnv("PUSHOVER_USER", ""),
			PushoverToken: getEnv("PUSHOVER_TOKEN", ""),
			IndexTopic:    getEnv("INDEX_DOCUMENT_TOPIC_NAME", "INDEX_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Agent: AgentConfig{
			MaxIterations:        getEnvAsInt("AGENT_MAX_ITERATIONS", 5),
			MaxToolCallsPerTurn:  getEnvAsInt("AGENT_MAX_TOOL_CALLS_PER_TURN", 8),
			MaxToolCallsPerChat:  getEnvAsInt("AGENT_MAX_TOOL_CALLS_PER_CHAT", 20),
			DecisionTimeout:      getEnvAsDuration("AGENT_DECISION_TIMEOUT", 60*time.Second),
			ToolTimeout:          getEnvAsDuration("AGENT_TOOL_TIMEOUT", 30*time.Second),
			ConcurrentDispatch:   getEnvAsBool("AGENT_CONCURRENT_DISPATCH", true),
			CodeExecutionEnabled: getEnvAsBool("AGENT_CODE_EXECUTION_ENABLED", false),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
