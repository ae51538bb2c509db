package entity

// AskRequest is the body of POST /ask and POST /conversation/{id}/continue
type AskRequest struct {
	Question       string         `json:"question"`
	ConversationID string         `json:"conversation_id,omitempty"`
	MaxContext     int            `json:"max_context,omitempty"`
	Strategy       PromptStrategy `json:"strategy,omitempty"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
	ContextMode    ContextMode    `json:"context_mode,omitempty"`
}

// ApplyDefaults fills unset optional fields before validation
func (r *AskRequest) ApplyDefaults(defaultMaxContext int) {
	if r.MaxContext == 0 {
		r.MaxContext = defaultMaxContext
	}
	if r.Strategy == "" {
		r.Strategy = StrategyStandard
	}
	if r.ResponseFormat == "" {
		r.ResponseFormat = FormatDefault
	}
	if r.ContextMode == "" {
		r.ContextMode = ModeStrict
	}
}

// AskResponse carries the generated answer plus assembly metadata
type AskResponse struct {
	Response string      `json:"response"`
	Metadata AskMetadata `json:"metadata"`
}

type AskMetadata struct {
	Strategy               PromptStrategy `json:"strategy"`
	ResponseFormat         ResponseFormat `json:"response_format"`
	ContextMode            ContextMode    `json:"context_mode"`
	UsesOutsideContext     bool           `json:"uses_outside_context"`
	ContextChunksUsed      int            `json:"context_chunks_used"`
	HasConversationHistory bool           `json:"has_conversation_history"`
	Model                  string         `json:"model"`
	ConversationID         string         `json:"conversation_id,omitempty"`
}
