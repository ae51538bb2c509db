package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/formatter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeConversationRepo keeps conversations and messages in memory with the
// same windowing semantics as the Postgres implementation.
type fakeConversationRepo struct {
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

func (f *fakeConversationRepo) Create(_ context.Context, conv *entity.Conversation) error {
	f.conversations[conv.ID] = conv
	return nil
}

func (f *fakeConversationRepo) Get(_ context.Context, id string) (*entity.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, entity.ErrConversationNotFound
	}
	copied := *conv
	copied.TotalMessages = len(f.messages[id])
	return &copied, nil
}

func (f *fakeConversationRepo) AppendMessages(_ context.Context, conversationID string, messages []*entity.Message) error {
	conv, ok := f.conversations[conversationID]
	if !ok {
		return entity.ErrConversationNotFound
	}
	f.messages[conversationID] = append(f.messages[conversationID], messages...)
	if len(messages) > 0 {
		conv.LastInteraction = messages[len(messages)-1].CreatedAt
	}
	return nil
}

func (f *fakeConversationRepo) GetMessages(_ context.Context, conversationID string, window entity.MessageWindow) ([]*entity.Message, error) {
	all := f.messages[conversationID]

	var eligible []*entity.Message
	for _, msg := range all {
		if window.BeforeTimestamp != nil && !msg.CreatedAt.Before(*window.BeforeTimestamp) {
			continue
		}
		eligible = append(eligible, msg)
	}

	if len(eligible) > window.Limit {
		eligible = eligible[len(eligible)-window.Limit:]
	}
	return eligible, nil
}

func (f *fakeConversationRepo) Update(_ context.Context, id string, title *string, metadata map[string]string) (*entity.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, entity.ErrConversationNotFound
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
	return conv, nil
}

func (f *fakeConversationRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.conversations[id]; !ok {
		return entity.ErrConversationNotFound
	}
	delete(f.conversations, id)
	delete(f.messages, id)
	return nil
}

func (f *fakeConversationRepo) List(_ context.Context, req entity.ListConversationsRequest) ([]*entity.Conversation, int, error) {
	var all []*entity.Conversation
	for _, conv := range f.conversations {
		all = append(all, conv)
	}
	total := len(all)
	if req.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[req.Offset:]
	if len(all) > req.Limit {
		all = all[:req.Limit]
	}
	return all, total, nil
}

func (f *fakeConversationRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	deleted := 0
	for id, conv := range f.conversations {
		if conv.LastInteraction.Before(cutoff) {
			delete(f.conversations, id)
			delete(f.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeConversationRepo) Ping(_ context.Context) error { return nil }

func newTestUsecase(repo *fakeConversationRepo) *ConversationUsecase {
	return NewUsecase(repo, formatter.NewFactory(), config.MemoryConfig{
		MaxHistory:        4,
		DefaultPageSize:   10,
		CleanupMaxAgeDays: 30,
	}, zap.NewNop())
}

func seedConversation(t *testing.T, repo *fakeConversationRepo, messageCount int) string {
	t.Helper()

	id := uuid.New().String()
	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Create(context.Background(), &entity.Conversation{
		ID:        id,
		CreatedAt: base,
	}))

	for i := 0; i < messageCount; i++ {
		role := entity.RoleUser
		content := fmt.Sprintf("question %d", i/2+1)
		if i%2 == 1 {
			role = entity.RoleAssistant
			content = fmt.Sprintf("answer %d", i/2+1)
		}
		require.NoError(t, repo.AppendMessages(context.Background(), id, []*entity.Message{{
			ID:             uuid.New().String(),
			ConversationID: id,
			Role:           role,
			Content:        content,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}}))
	}

	return id
}

func TestDetailWindowing(t *testing.T) {
	repo := newFakeConversationRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	id := seedConversation(t, repo, 6)

	t.Run("window smaller than history reports has_more", func(t *testing.T) {
		detail, err := uc.Detail(ctx, id, entity.MessageWindow{Limit: 4})
		require.NoError(t, err)

		assert.Len(t, detail.Messages, 4)
		assert.True(t, detail.HasMore)
		assert.Equal(t, 6, detail.TotalMessages)

		// Window holds the most recent messages in chronological order
		assert.Equal(t, "question 2", detail.Messages[0].Content)
		assert.Equal(t, "answer 3", detail.Messages[3].Content)
	})

	t.Run("window covering everything has no more", func(t *testing.T) {
		detail, err := uc.Detail(ctx, id, entity.MessageWindow{Limit: 10})
		require.NoError(t, err)

		assert.Len(t, detail.Messages, 6)
		assert.False(t, detail.HasMore)
	})

	t.Run("before_timestamp pages backwards", func(t *testing.T) {
		full, err := uc.Detail(ctx, id, entity.MessageWindow{Limit: 10})
		require.NoError(t, err)

		cutoff := full.Messages[2].CreatedAt
		detail, err := uc.Detail(ctx, id, entity.MessageWindow{Limit: 10, BeforeTimestamp: &cutoff})
		require.NoError(t, err)

		require.Len(t, detail.Messages, 2)
		for _, msg := range detail.Messages {
			assert.True(t, msg.CreatedAt.Before(cutoff))
		}
	})

	t.Run("unknown conversation", func(t *testing.T) {
		_, err := uc.Detail(ctx, uuid.New().String(), entity.MessageWindow{})
		require.ErrorIs(t, err, entity.ErrConversationNotFound)
	})
}

func TestContextWindow(t *testing.T) {
	repo := newFakeConversationRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	t.Run("short history passes through verbatim", func(t *testing.T) {
		id := seedConversation(t, repo, 4)

		window, err := uc.ContextWindow(ctx, id)
		require.NoError(t, err)

		require.Len(t, window, 4)
		for _, msg := range window {
			assert.NotEqual(t, "summary", msg.Metadata["synthetic"])
		}
	})

	t.Run("long history gets a summary prefix", func(t *testing.T) {
		id := seedConversation(t, repo, 10)

		window, err := uc.ContextWindow(ctx, id)
		require.NoError(t, err)

		// MaxHistory recent messages plus one synthetic summary
		require.Len(t, window, 5)
		summary := window[0]
		assert.Equal(t, entity.RoleAssistant, summary.Role)
		assert.Equal(t, "summary", summary.Metadata["synthetic"])
		assert.Contains(t, summary.Content, "question 1")
		assert.NotContains(t, summary.Content, "question 5")

		// Recent tail is untouched
		assert.Equal(t, "answer 5", window[4].Content)
	})

	t.Run("summary is deterministic", func(t *testing.T) {
		id := seedConversation(t, repo, 10)

		first, err := uc.ContextWindow(ctx, id)
		require.NoError(t, err)
		second, err := uc.ContextWindow(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, first[0].Content, second[0].Content)
	})
}

func TestAppendWritesBothTurns(t *testing.T) {
	repo := newFakeConversationRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	id := seedConversation(t, repo, 0)

	err := uc.Append(ctx, id, "why is the sky blue?", "Rayleigh scattering.", map[string]string{"model": "gpt-4o"})
	require.NoError(t, err)

	msgs := repo.messages[id]
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.RoleUser, msgs[0].Role)
	assert.Equal(t, entity.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "gpt-4o", msgs[1].Metadata["model"])
	assert.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt))
}

func TestListNormalization(t *testing.T) {
	repo := newFakeConversationRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedConversation(t, repo, 2)
	}

	t.Run("defaults applied", func(t *testing.T) {
		resp, err := uc.List(ctx, entity.ListConversationsRequest{})
		require.NoError(t, err)

		assert.Equal(t, 3, resp.Metadata.Total)
		assert.Equal(t, 3, resp.Metadata.Returned)
		assert.Equal(t, 10, resp.Metadata.Limit)
		assert.Equal(t, string(entity.SortByLastInteraction), resp.Metadata.SortBy)
		assert.Equal(t, "asc", resp.Metadata.Order)
	})

	t.Run("returned never exceeds limit or total", func(t *testing.T) {
		resp, err := uc.List(ctx, entity.ListConversationsRequest{Limit: 2})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.Metadata.Returned)
		assert.LessOrEqual(t, resp.Metadata.Returned, resp.Metadata.Limit)
		assert.LessOrEqual(t, resp.Metadata.Returned, resp.Metadata.Total)
	})

	t.Run("invalid sort rejected", func(t *testing.T) {
		_, err := uc.List(ctx, entity.ListConversationsRequest{SortBy: "color"})
		require.ErrorIs(t, err, entity.ErrInvalidParameter)
	})
}

func TestCleanup(t *testing.T) {
	repo := newFakeConversationRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	stale := uuid.New().String()
	require.NoError(t, repo.Create(ctx, &entity.Conversation{
		ID:              stale,
		CreatedAt:       time.Now().UTC().AddDate(0, 0, -90),
		LastInteraction: time.Now().UTC().AddDate(0, 0, -90),
	}))

	fresh := seedConversation(t, repo, 2)

	result, err := uc.Cleanup(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.DeletedCount)
	assert.Equal(t, 30, result.MaxAgeDays, "falls back to configured default")

	_, err = uc.Get(ctx, stale)
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
	_, err = uc.Get(ctx, fresh)
	assert.NoError(t, err)
}

func TestUpdateMergesMetadata(t *testing.T) {
	repo := newFakeConversationRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	id := seedConversation(t, repo, 0)
	_, err := uc.Update(ctx, id, &entity.UpdateConversationRequest{
		Metadata: map[string]string{"topic": "physics"},
	})
	require.NoError(t, err)

	title := "light scattering"
	conv, err := uc.Update(ctx, id, &entity.UpdateConversationRequest{
		Title:    &title,
		Metadata: map[string]string{"level": "intro"},
	})
	require.NoError(t, err)

	assert.Equal(t, "light scattering", conv.Title)
	assert.Equal(t, "physics", conv.Metadata["topic"])
	assert.Equal(t, "intro", conv.Metadata["level"])
}

func TestExport(t *testing.T) {
	repo := newFakeConversationRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	id := seedConversation(t, repo, 4)

	t.Run("markdown transcript", func(t *testing.T) {
		result, err := uc.Export(ctx, id, entity.ExportMarkdown)
		require.NoError(t, err)

		assert.Equal(t, "text/markdown; charset=utf-8", result.ContentType)
		assert.Equal(t, "conversation_"+id+".md", result.Filename)
		assert.Contains(t, string(result.Data), "question 1")
		assert.Contains(t, string(result.Data), "answer 2")
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		_, err := uc.Export(ctx, id, "csv")
		require.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		_, err := uc.Export(ctx, uuid.New().String(), entity.ExportMarkdown)
		require.ErrorIs(t, err, entity.ErrConversationNotFound)
	})
}
