package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avolkov/rag-backend/internal/api"
	chatapi "github.com/avolkov/rag-backend/internal/api/chat"
	conversationapi "github.com/avolkov/rag-backend/internal/api/conversation"
	documentapi "github.com/avolkov/rag-backend/internal/api/document"
	healthapi "github.com/avolkov/rag-backend/internal/api/health"
	maintenanceapi "github.com/avolkov/rag-backend/internal/api/maintenance"
	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/integration/embedding"
	"github.com/avolkov/rag-backend/internal/integration/llm"
	"github.com/avolkov/rag-backend/internal/pkg/chunker"
	"github.com/avolkov/rag-backend/internal/pkg/formatter"
	"github.com/avolkov/rag-backend/internal/pkg/validator"
	"github.com/avolkov/rag-backend/internal/repository"
	"github.com/avolkov/rag-backend/internal/telegram"
	"github.com/avolkov/rag-backend/internal/usecase/chat"
	"github.com/avolkov/rag-backend/internal/usecase/conversation"
	"github.com/avolkov/rag-backend/internal/usecase/document"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, documentRepo, conversationRepo, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	chatUC, documentUC, conversationUC, err := setupUsecases(cfg, documentRepo, conversationRepo, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Setup API handlers
	handlers := api.Handlers{
		Document:     documentapi.NewHandler(documentUC, cfg.FileUploadCfg),
		Conversation: conversationapi.NewHandler(conversationUC),
		Chat:         chatapi.NewHandler(chatUC),
		Maintenance:  maintenanceapi.NewHandler(conversationUC),
		Health:       healthapi.NewHandler(documentRepo, conversationRepo),
	}
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(handlers, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	db, documentRepo, conversationRepo, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	chatUC, _, conversationUC, err := setupUsecases(cfg, documentRepo, conversationRepo, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, chatUC, conversationUC, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

func setupStorage(
	ctx context.Context, cfg *config.Config, logger *zap.Logger,
) (*pgxpool.Pool, *repository.DocumentPostgres, *repository.ConversationPostgres, error) {
	pool, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	documentRepo := repository.NewDocumentPostgres(pool)
	conversationRepo := repository.NewConversationPostgres(pool)
	logger.Info("Repositories initialized")

	return pool, documentRepo, conversationRepo, nil
}

func setupUsecases(
	cfg *config.Config,
	documentRepo *repository.DocumentPostgres,
	conversationRepo *repository.ConversationPostgres,
	logger *zap.Logger,
) (*chat.ChatUsecase, *document.DocumentUsecase, *conversation.ConversationUsecase, error) {
	// Initialize external service connectors (with mock support)
	var llmConnector chat.LLMConnector
	var embeddingConnector interface {
		chat.EmbeddingConnector
		document.EmbeddingConnector
	}

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		llmConnector = llm.NewMockConnector(logger)
		embeddingConnector = embedding.NewMockConnector(cfg.EmbeddingConnectorCfg.Dimensions, logger)
	} else {
		logger.Info("Using real connectors for external services")
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
		embeddingConnector = embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
	}

	textChunker, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup chunker: %w", err)
	}

	fileValidator := validator.New(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	documentUC := document.NewUsecase(
		documentRepo,
		textChunker,
		embeddingConnector,
		fileValidator,
		logger,
	)

	conversationUC := conversation.NewUsecase(
		conversationRepo,
		formatter.NewFactory(),
		cfg.MemoryCfg,
		logger,
	)

	chatUC := chat.NewUsecase(
		documentRepo,
		conversationUC,
		embeddingConnector,
		llmConnector,
		fileValidator,
		cfg,
		logger,
	)
	logger.Info("Use cases initialized")

	return chatUC, documentUC, conversationUC, nil
}
