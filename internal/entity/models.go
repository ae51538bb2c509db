package entity

import (
	"fmt"
	"time"
)

// MessageRole identifies who produced a message in a conversation
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func (r MessageRole) Validate() error {
	switch r {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: unknown message role %q", ErrInvalidParameter, r)
	}
}

// PromptStrategy selects the instructional framing of the prompt
type PromptStrategy string

const (
	StrategyStandard   PromptStrategy = "standard"
	StrategyAcademic   PromptStrategy = "academic"
	StrategyConcise    PromptStrategy = "concise"
	StrategyCreative   PromptStrategy = "creative"
	StrategyStepByStep PromptStrategy = "step_by_step"
)

func (s PromptStrategy) Validate() error {
	switch s {
	case StrategyStandard, StrategyAcademic, StrategyConcise, StrategyCreative, StrategyStepByStep:
		return nil
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidParameter, s)
	}
}

// ResponseFormat is the structural shape requested of the model's output.
// It is a request to the model, not a guarantee: the service does not
// validate that the generated answer actually conforms.
type ResponseFormat string

const (
	FormatDefault      ResponseFormat = "default"
	FormatJSON         ResponseFormat = "json"
	FormatMarkdown     ResponseFormat = "markdown"
	FormatBulletPoints ResponseFormat = "bullet_points"
)

func (f ResponseFormat) Validate() error {
	switch f {
	case FormatDefault, FormatJSON, FormatMarkdown, FormatBulletPoints:
		return nil
	default:
		return fmt.Errorf("%w: unknown response format %q", ErrInvalidParameter, f)
	}
}

// ContextMode controls whether the model may answer beyond the retrieved chunks
type ContextMode string

const (
	ModeStrict   ContextMode = "strict"
	ModeFlexible ContextMode = "flexible"
)

func (m ContextMode) Validate() error {
	switch m {
	case ModeStrict, ModeFlexible:
		return nil
	default:
		return fmt.Errorf("%w: unknown context mode %q", ErrInvalidParameter, m)
	}
}

// ExportFormat selects the transcript export rendering
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportJSON     ExportFormat = "json"
	ExportDocx     ExportFormat = "docx"
	ExportPDF      ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportMarkdown, ExportJSON, ExportDocx, ExportPDF:
		return true
	default:
		return false
	}
}

// Document is the metadata record of an uploaded document. The text itself
// lives in the chunks table next to its embeddings.
type Document struct {
	ID          string     `json:"document_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Filename    string     `json:"filename"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	EmbeddedAt  *time.Time `json:"embedded_at,omitempty"`
	ChunkCount  int        `json:"chunk_count"`
}

// Chunk is one retrievable span of a document. Immutable once indexed;
// re-processing a document regenerates its chunks wholesale.
type Chunk struct {
	ID         string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Position   int    `json:"position"`
	Content    string `json:"content"`
}

// RetrievedChunk is a chunk returned by similarity search
type RetrievedChunk struct {
	Chunk
	Distance float64 `json:"distance"`
}

// Conversation groups an append-only sequence of messages
type Conversation struct {
	ID              string            `json:"conversation_id"`
	Title           string            `json:"title,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	LastInteraction time.Time         `json:"last_interaction"`
	TotalMessages   int               `json:"total_messages"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Message is a single turn in a conversation. Insertion order is the
// conversation order; historical messages are never edited in place.
type Message struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id"`
	Role           MessageRole       `json:"role"`
	Content        string            `json:"content"`
	CreatedAt      time.Time         `json:"timestamp"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}
