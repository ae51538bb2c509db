package chat

import (
	"context"
	"testing"
	"time"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDocumentRepo struct {
	chunks []*entity.RetrievedChunk
}

func (f *fakeDocumentRepo) CreateWithChunks(context.Context, *entity.Document, []entity.Chunk, [][]float32) error {
	return nil
}
func (f *fakeDocumentRepo) Get(context.Context, string) (*entity.Document, error) { return nil, nil }
func (f *fakeDocumentRepo) List(context.Context) ([]*entity.Document, error)      { return nil, nil }
func (f *fakeDocumentRepo) Delete(context.Context, string) error                  { return nil }
func (f *fakeDocumentRepo) Ping(context.Context) error                            { return nil }

func (f *fakeDocumentRepo) QuerySimilar(_ context.Context, _ []float32, limit int) ([]*entity.RetrievedChunk, error) {
	if limit > len(f.chunks) {
		limit = len(f.chunks)
	}
	return f.chunks[:limit], nil
}

type fakeMemory struct {
	conversations map[string][]*entity.Message
	appended      map[string][]string
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{
		conversations: make(map[string][]*entity.Message),
		appended:      make(map[string][]string),
	}
}

func (f *fakeMemory) Get(_ context.Context, id string) (*entity.Conversation, error) {
	if _, ok := f.conversations[id]; !ok {
		return nil, entity.ErrConversationNotFound
	}
	return &entity.Conversation{ID: id}, nil
}

func (f *fakeMemory) ContextWindow(_ context.Context, id string) ([]*entity.Message, error) {
	return f.conversations[id], nil
}

func (f *fakeMemory) Append(_ context.Context, id, question, answer string, _ map[string]string) error {
	f.appended[id] = append(f.appended[id], question, answer)
	return nil
}

type fakeEmbedder struct{ calls int }

func (f *fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeLLM struct {
	lastMessages []entity.ChatMessage
}

func (f *fakeLLM) Complete(_ context.Context, messages []entity.ChatMessage) (string, string, error) {
	f.lastMessages = messages
	return "the generated answer", "test-model", nil
}

func (f *fakeLLM) Model() string { return "test-model" }

func chunk(content string) *entity.RetrievedChunk {
	return &entity.RetrievedChunk{
		Chunk: entity.Chunk{
			ID:      uuid.New().String(),
			Content: content,
		},
	}
}

func newTestSetup(chunks ...*entity.RetrievedChunk) (*ChatUsecase, *fakeDocumentRepo, *fakeMemory, *fakeEmbedder, *fakeLLM) {
	repo := &fakeDocumentRepo{chunks: chunks}
	memory := newFakeMemory()
	embedder := &fakeEmbedder{}
	llm := &fakeLLM{}

	cfg := &config.Config{DefaultMaxContext: 3}
	uc := NewUsecase(repo, memory, embedder, llm,
		validator.New(config.FileUploadConfig{MaxFileSize: 1024}), cfg, zap.NewNop())

	return uc, repo, memory, embedder, llm
}

func TestAskDefaults(t *testing.T) {
	uc, _, _, _, _ := newTestSetup(chunk("context a"), chunk("context b"))

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "what is a?"})
	require.NoError(t, err)

	assert.Equal(t, "the generated answer", resp.Response)
	assert.Equal(t, entity.StrategyStandard, resp.Metadata.Strategy)
	assert.Equal(t, entity.FormatDefault, resp.Metadata.ResponseFormat)
	assert.Equal(t, entity.ModeStrict, resp.Metadata.ContextMode)
	assert.False(t, resp.Metadata.UsesOutsideContext)
	assert.Equal(t, 2, resp.Metadata.ContextChunksUsed)
	assert.False(t, resp.Metadata.HasConversationHistory)
	assert.Equal(t, "test-model", resp.Metadata.Model)
	assert.Empty(t, resp.Metadata.ConversationID)
}

func TestAskFlexibleMode(t *testing.T) {
	uc, _, _, _, _ := newTestSetup(chunk("context a"))

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:    "what is a?",
		ContextMode: entity.ModeFlexible,
	})
	require.NoError(t, err)

	assert.True(t, resp.Metadata.UsesOutsideContext)
}

func TestAskValidation(t *testing.T) {
	uc, _, _, _, _ := newTestSetup()

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "   "})
	require.ErrorIs(t, err, entity.ErrMissingField)

	_, err = uc.Ask(context.Background(), &entity.AskRequest{
		Question: "ok",
		Strategy: "theatrical",
	})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestAskMaxContextCapsAtAvailable(t *testing.T) {
	uc, _, _, _, _ := newTestSetup(chunk("only one"))

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:   "what is there?",
		MaxContext: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Metadata.ContextChunksUsed)
}

func TestAskWithConversation(t *testing.T) {
	uc, _, memory, _, llm := newTestSetup(chunk("context a"))
	ctx := context.Background()

	convID := uuid.New().String()
	memory.conversations[convID] = nil

	t.Run("first turn has no history", func(t *testing.T) {
		resp, err := uc.Ask(ctx, &entity.AskRequest{
			Question:       "first question",
			ConversationID: convID,
		})
		require.NoError(t, err)

		assert.False(t, resp.Metadata.HasConversationHistory)
		assert.Equal(t, convID, resp.Metadata.ConversationID)
		assert.Equal(t, []string{"first question", "the generated answer"}, memory.appended[convID])
	})

	t.Run("follow-up replays history", func(t *testing.T) {
		now := time.Now().UTC()
		memory.conversations[convID] = []*entity.Message{
			{Role: entity.RoleUser, Content: "first question", CreatedAt: now},
			{Role: entity.RoleAssistant, Content: "the generated answer", CreatedAt: now},
		}

		resp, err := uc.Continue(ctx, convID, &entity.AskRequest{Question: "and then?"})
		require.NoError(t, err)

		assert.True(t, resp.Metadata.HasConversationHistory)

		// system + 2 history + final user turn
		require.Len(t, llm.lastMessages, 4)
		assert.Equal(t, "system", llm.lastMessages[0].Role)
		assert.Equal(t, "first question", llm.lastMessages[1].Content)
		assert.Contains(t, llm.lastMessages[3].Content, "and then?")
	})

	t.Run("unknown conversation fails before upstream calls", func(t *testing.T) {
		embedderCallsBefore := 0
		uc2, _, _, embedder2, _ := newTestSetup(chunk("context"))
		_, err := uc2.Continue(ctx, uuid.New().String(), &entity.AskRequest{Question: "hello?"})
		require.ErrorIs(t, err, entity.ErrConversationNotFound)
		assert.Equal(t, embedderCallsBefore, embedder2.calls)
	})
}
