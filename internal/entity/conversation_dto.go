package entity

import "time"

// CreateConversationResponse is the body of POST /conversation/create
type CreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

// ConversationDetail is the paginated message view of a conversation
type ConversationDetail struct {
	ConversationID  string            `json:"conversation_id"`
	Title           string            `json:"title,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	LastInteraction time.Time         `json:"last_interaction"`
	TotalMessages   int               `json:"total_messages"`
	Messages        []*Message        `json:"messages"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	HasMore         bool              `json:"has_more"`
}

// UpdateConversationRequest is the body of PATCH /conversation/{id}
type UpdateConversationRequest struct {
	Title    *string           `json:"title,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MessageWindow bounds a history fetch
type MessageWindow struct {
	Limit           int
	BeforeTimestamp *time.Time
}

// ConversationSort orders a conversation listing
type ConversationSort string

const (
	SortByLastInteraction ConversationSort = "last_interaction"
	SortByCreatedAt       ConversationSort = "created_at"
	SortByTotalMessages   ConversationSort = "total_messages"
)

func (s ConversationSort) IsValid() bool {
	switch s {
	case SortByLastInteraction, SortByCreatedAt, SortByTotalMessages:
		return true
	default:
		return false
	}
}

// ListConversationsRequest parameterizes GET /conversations
type ListConversationsRequest struct {
	Limit      int
	Offset     int
	SortBy     ConversationSort
	Descending bool
}

// ListConversationsResponse pairs a page of conversations with its metadata
type ListConversationsResponse struct {
	Conversations []*Conversation `json:"conversations"`
	Metadata      ListMetadata    `json:"metadata"`
}

type ListMetadata struct {
	Total    int    `json:"total"`
	Returned int    `json:"returned"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
	SortBy   string `json:"sort_by"`
	Order    string `json:"order"`
}

// CleanupResult reports a maintenance sweep
type CleanupResult struct {
	DeletedCount int `json:"deleted_count"`
	MaxAgeDays   int `json:"max_age_days"`
}
