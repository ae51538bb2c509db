package config

import (
	"flag"
	"fmt"
	"time"

	pkgRetry "github.com/avolkov/rag-backend/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`

	// Chunking configuration
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"200"`

	// Memory configuration
	MemoryCfg MemoryConfig `envPrefix:"MEMORY_"`

	// Retrieval configuration
	DefaultMaxContext int `env:"DEFAULT_MAX_CONTEXT" envDefault:"3"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional, used by cmd/telegram-bot only)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// LLMConnectorConfig configures the chat-completion connector
type LLMConnectorConfig struct {
	HTTPClientConfig
	CompletionsEndpoint string               `env:"COMPLETIONS_ENDPOINT" envDefault:"/v1/chat/completions"`
	Model               string               `env:"MODEL" envDefault:"gpt-4o"`
	Temperature         float64              `env:"TEMPERATURE" envDefault:"0.7"`
	MaxTokens           int                  `env:"MAX_TOKENS" envDefault:"1500"`
	TopP                float64              `env:"TOP_P" envDefault:"0.9"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// EmbeddingConnectorConfig configures the embedding connector
type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbeddingsEndpoint string               `env:"EMBEDDINGS_ENDPOINT" envDefault:"/v1/embeddings"`
	Model              string               `env:"MODEL" envDefault:"text-embedding-3-large"`
	Dimensions         int                  `env:"DIMENSIONS" envDefault:"1536"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// MemoryConfig bounds the conversation history fed to the prompt assembler
type MemoryConfig struct {
	// MaxHistory is the number of recent messages kept verbatim in the
	// context window; older history is condensed into a summary message.
	MaxHistory        int `env:"MAX_HISTORY" envDefault:"10"`
	DefaultPageSize   int `env:"DEFAULT_PAGE_SIZE" envDefault:"50"`
	CleanupMaxAgeDays int `env:"CLEANUP_MAX_AGE_DAYS" envDefault:"30"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"5242880"`    // 5 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB multipart memory cap
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"30"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ConversationTTL    time.Duration `env:"CONVERSATION_TTL" envDefault:"12h"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.ChunkSize < 1 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", cfg.ChunkSize)
	}

	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", cfg.ChunkOverlap)
	}

	if cfg.DefaultMaxContext < 1 {
		return fmt.Errorf("DEFAULT_MAX_CONTEXT must be positive, got %d", cfg.DefaultMaxContext)
	}

	if cfg.MemoryCfg.MaxHistory < 1 {
		return fmt.Errorf("MEMORY_MAX_HISTORY must be positive, got %d", cfg.MemoryCfg.MaxHistory)
	}

	if cfg.EmbeddingConnectorCfg.Dimensions < 1 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive, got %d", cfg.EmbeddingConnectorCfg.Dimensions)
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
