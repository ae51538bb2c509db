package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	msgWelcome = "Hi! Ask me anything about the indexed documents.\n\n" +
		"/new - start a fresh conversation\n" +
		"/export - download the current conversation transcript\n" +
		"/help - show this message"
	msgNewConversation = "Started a new conversation. Ask away."
	msgNoConversation  = "No active conversation yet. Ask a question first."
	msgGeneric         = "Something went wrong. Please try again."
)

// Bot answers questions over the document index in Telegram chats. Each
// chat maps to one backend conversation so follow-up questions carry
// history.
type Bot struct {
	api            *tgbotapi.BotAPI
	cfg            *config.TelegramConfig
	chatUC         ChatUsecase
	conversationUC ConversationUsecase
	sessions       *sessionStore
	logger         *zap.Logger
	loggingMW      *middleware.LoggingMiddleware
	recoveryMW     *middleware.RecoveryMiddleware
	rateLimitMW    *middleware.RateLimiterMiddleware
	updatesChan    tgbotapi.UpdatesChannel
	stopChan       chan struct{}
	wg             sync.WaitGroup
}

// NewBot creates a new Telegram bot
func NewBot(
	cfg *config.TelegramConfig,
	chatUC ChatUsecase,
	conversationUC ConversationUsecase,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:            api,
		cfg:            cfg,
		chatUC:         chatUC,
		conversationUC: conversationUC,
		sessions:       newSessionStore(cfg.ConversationTTL),
		logger:         logger,
		stopChan:       make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)
	b.updatesChan = updates

	ctx = ctxzap.ToContext(ctx, b.logger)

	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	// Wait for all active handlers to complete
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(b.cfg.ShutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", b.cfg.ShutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(u3)
			})
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		b.handleCommand(ctx, update.Message)
		return
	}

	b.handleQuestion(ctx, update.Message)
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", message.From.ID),
	)

	switch command {
	case "start", "help":
		b.sendMessage(message.Chat.ID, msgWelcome)
	case "new":
		b.handleNewCommand(ctx, message)
	case "export":
		b.handleExportCommand(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help")
	}
}

// handleNewCommand drops the chat's conversation binding and starts a new one
func (b *Bot) handleNewCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	b.sessions.reset(chatID)

	resp, err := b.conversationUC.Create(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to create conversation",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		b.sendMessage(chatID, msgGeneric)
		return
	}

	b.sessions.bind(chatID, resp.ConversationID)
	b.sendMessage(chatID, msgNewConversation)
}

// handleExportCommand sends the current conversation transcript as a document
func (b *Bot) handleExportCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	conversationID, ok := b.sessions.conversationID(chatID)
	if !ok {
		b.sendMessage(chatID, msgNoConversation)
		return
	}

	result, err := b.conversationUC.Export(ctx, conversationID, entity.ExportMarkdown)
	if err != nil {
		ctxzap.Error(ctx, "failed to export conversation",
			zap.Error(err),
			zap.String("conversation_id", conversationID),
		)
		b.sendMessage(chatID, msgGeneric)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  result.Filename,
		Bytes: result.Data,
	})
	if _, err := b.api.Send(doc); err != nil {
		ctxzap.Error(ctx, "failed to send transcript",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		b.sendMessage(chatID, msgGeneric)
	}
}

// handleQuestion answers a free-text question within the chat's conversation
func (b *Bot) handleQuestion(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.Text == "" {
		b.sendMessage(chatID, "Please send your question as text.")
		return
	}

	conversationID, ok := b.sessions.conversationID(chatID)
	if !ok {
		resp, err := b.conversationUC.Create(ctx)
		if err != nil {
			ctxzap.Error(ctx, "failed to create conversation",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			b.sendMessage(chatID, msgGeneric)
			return
		}
		conversationID = resp.ConversationID
		b.sessions.bind(chatID, conversationID)
	}

	// Show typing while retrieval and generation run
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		ctxzap.Debug(ctx, "failed to send chat action", zap.Error(err))
	}

	answer, err := b.chatUC.Ask(ctx, &entity.AskRequest{
		Question:       message.Text,
		ConversationID: conversationID,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to answer question",
			zap.Error(err),
			zap.String("conversation_id", conversationID),
		)
		b.sendMessage(chatID, msgGeneric)
		return
	}

	b.sendMessage(chatID, answer.Response)
}

// sendMessage sends a message to chat
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
