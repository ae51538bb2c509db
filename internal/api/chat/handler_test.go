package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatUsecase struct {
	resp *entity.AskResponse
	err  error

	lastConversationID string
	lastRequest        *entity.AskRequest
}

func (s *stubChatUsecase) Ask(_ context.Context, req *entity.AskRequest) (*entity.AskResponse, error) {
	s.lastRequest = req
	return s.resp, s.err
}

func (s *stubChatUsecase) Continue(_ context.Context, conversationID string, req *entity.AskRequest) (*entity.AskResponse, error) {
	s.lastConversationID = conversationID
	s.lastRequest = req
	return s.resp, s.err
}

func newTestRouter(uc ChatUsecase) *chi.Mux {
	h := NewHandler(uc)
	r := chi.NewRouter()
	r.Post("/ask", h.Ask)
	r.Post("/conversation/{id}/continue", h.Continue)
	return r
}

func TestAskHandler(t *testing.T) {
	stub := &stubChatUsecase{
		resp: &entity.AskResponse{
			Response: "an answer",
			Metadata: entity.AskMetadata{ContextChunksUsed: 2},
		},
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"what is this?","max_context":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body entity.AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "an answer", body.Response)
	assert.Equal(t, 2, body.Metadata.ContextChunksUsed)

	require.NotNil(t, stub.lastRequest)
	assert.Equal(t, "what is this?", stub.lastRequest.Question)
	assert.Equal(t, 5, stub.lastRequest.MaxContext)
}

func TestAskHandlerRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&stubChatUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskHandlerMapsDomainErrors(t *testing.T) {
	router := newTestRouter(&stubChatUsecase{err: entity.ErrConversationNotFound})

	req := httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"hello","conversation_id":"missing"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContinueHandler(t *testing.T) {
	stub := &stubChatUsecase{resp: &entity.AskResponse{Response: "follow-up answer"}}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/conversation/conv-42/continue",
		strings.NewReader(`{"question":"and then?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "conv-42", stub.lastConversationID)
	assert.Equal(t, "and then?", stub.lastRequest.Question)
}
