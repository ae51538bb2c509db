package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	Get(ctx context.Context, id string) (*entity.Conversation, error)
	// AppendMessages appends messages under a per-conversation row lock so
	// concurrent appends to the same conversation never interleave.
	AppendMessages(ctx context.Context, conversationID string, messages []*entity.Message) error
	GetMessages(ctx context.Context, conversationID string, window entity.MessageWindow) ([]*entity.Message, error)
	Update(ctx context.Context, id string, title *string, metadata map[string]string) (*entity.Conversation, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req entity.ListConversationsRequest) ([]*entity.Conversation, int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	Ping(ctx context.Context) error
}

var _ ConversationRepository = &ConversationPostgres{}

// ConversationPostgres implements ConversationRepository using PostgreSQL
type ConversationPostgres struct {
	db *pgxpool.Pool
}

func NewConversationPostgres(db *pgxpool.Pool) *ConversationPostgres {
	return &ConversationPostgres{db: db}
}

func (r *ConversationPostgres) Create(ctx context.Context, conv *entity.Conversation) error {
	convID, err := uuid.Parse(conv.ID)
	if err != nil {
		return fmt.Errorf("invalid conversation ID: %w", err)
	}

	metadata := conv.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO conversations (id, title, metadata, created_at, last_interaction)
		 VALUES ($1, $2, $3, $4, $4)`,
		convID, conv.Title, metadata, conv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	return nil
}

func (r *ConversationPostgres) Get(ctx context.Context, id string) (*entity.Conversation, error) {
	convID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: conversation id %q", entity.ErrInvalidParameter, id)
	}

	row := r.db.QueryRow(ctx,
		`SELECT c.id, c.title, c.metadata, c.created_at, c.last_interaction,
		        (SELECT count(*) FROM messages m WHERE m.conversation_id = c.id)
		 FROM conversations c WHERE c.id = $1`,
		convID,
	)

	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return conv, nil
}

func (r *ConversationPostgres) AppendMessages(
	ctx context.Context, conversationID string, messages []*entity.Message,
) error {
	convID, err := uuid.Parse(conversationID)
	if err != nil {
		return fmt.Errorf("%w: conversation id %q", entity.ErrInvalidParameter, conversationID)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", entity.ErrStorageFailure, err)
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent appends to the same conversation
	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM conversations WHERE id = $1 FOR UPDATE`, convID,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ErrConversationNotFound
		}
		return fmt.Errorf("lock conversation: %w", err)
	}

	var lastAt time.Time
	for _, msg := range messages {
		metadata := msg.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO messages (id, conversation_id, role, content, metadata, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.MustParse(msg.ID), convID, string(msg.Role), msg.Content, metadata, msg.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		lastAt = msg.CreatedAt
	}

	if len(messages) > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE conversations SET last_interaction = $2 WHERE id = $1`,
			convID, lastAt,
		)
		if err != nil {
			return fmt.Errorf("update last interaction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", entity.ErrStorageFailure, err)
	}

	return nil
}

// GetMessages returns the most recent messages of the window in
// chronological order. A before-timestamp restricts the window to messages
// strictly older than the cutoff.
func (r *ConversationPostgres) GetMessages(
	ctx context.Context, conversationID string, window entity.MessageWindow,
) ([]*entity.Message, error) {
	convID, err := uuid.Parse(conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: conversation id %q", entity.ErrInvalidParameter, conversationID)
	}

	query := `SELECT id, conversation_id, role, content, metadata, created_at
	          FROM messages WHERE conversation_id = $1`
	args := []any{convID}

	if window.BeforeTimestamp != nil {
		query += ` AND created_at < $2`
		args = append(args, *window.BeforeTimestamp)
	}

	query += fmt.Sprintf(` ORDER BY seq DESC LIMIT $%d`, len(args)+1)
	args = append(args, window.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*entity.Message, 0, window.Limit)
	for rows.Next() {
		var (
			msgID uuid.UUID
			cID   uuid.UUID
			role  string
			msg   entity.Message
		)
		if err := rows.Scan(&msgID, &cID, &role, &msg.Content, &msg.Metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.ID = msgID.String()
		msg.ConversationID = cID.String()
		msg.Role = entity.MessageRole(role)
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Fetched newest-first; reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *ConversationPostgres) Update(
	ctx context.Context, id string, title *string, metadata map[string]string,
) (*entity.Conversation, error) {
	conv, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		conv.Title = *title
	}
	if conv.Metadata == nil {
		conv.Metadata = map[string]string{}
	}
	for k, v := range metadata {
		conv.Metadata[k] = v
	}

	_, err = r.db.Exec(ctx,
		`UPDATE conversations SET title = $2, metadata = $3 WHERE id = $1`,
		uuid.MustParse(conv.ID), conv.Title, conv.Metadata,
	)
	if err != nil {
		return nil, fmt.Errorf("update conversation: %w", err)
	}

	return conv, nil
}

func (r *ConversationPostgres) Delete(ctx context.Context, id string) error {
	convID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: conversation id %q", entity.ErrInvalidParameter, id)
	}

	// Messages cascade with the conversation row
	tag, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, convID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrConversationNotFound
	}

	return nil
}

func (r *ConversationPostgres) List(
	ctx context.Context, req entity.ListConversationsRequest,
) ([]*entity.Conversation, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM conversations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count conversations: %w", err)
	}

	orderColumn := map[entity.ConversationSort]string{
		entity.SortByLastInteraction: "c.last_interaction",
		entity.SortByCreatedAt:       "c.created_at",
		entity.SortByTotalMessages:   "total_messages",
	}[req.SortBy]
	if orderColumn == "" {
		orderColumn = "c.last_interaction"
	}

	direction := "ASC"
	if req.Descending {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT c.id, c.title, c.metadata, c.created_at, c.last_interaction,
		        (SELECT count(*) FROM messages m WHERE m.conversation_id = c.id) AS total_messages
		 FROM conversations c
		 ORDER BY %s %s, c.id
		 LIMIT $1 OFFSET $2`,
		orderColumn, direction,
	)

	rows, err := r.db.Query(ctx, query, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*entity.Conversation, 0, req.Limit)
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	return conversations, total, rows.Err()
}

func (r *ConversationPostgres) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM conversations WHERE last_interaction < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete old conversations: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func (r *ConversationPostgres) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanConversation(row pgx.Row) (*entity.Conversation, error) {
	var (
		id   uuid.UUID
		conv entity.Conversation
	)
	if err := row.Scan(&id, &conv.Title, &conv.Metadata, &conv.CreatedAt,
		&conv.LastInteraction, &conv.TotalMessages); err != nil {
		return nil, err
	}
	conv.ID = id.String()
	return &conv, nil
}
