package conversation

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageWindow(t *testing.T) {
	t.Run("defaults to zero window", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/conversation/x/detail", nil)
		window, err := parseMessageWindow(r)
		require.NoError(t, err)
		assert.Zero(t, window.Limit)
		assert.Nil(t, window.BeforeTimestamp)
	})

	t.Run("parses limit and timestamp", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/conversation/x/detail?message_limit=25&before_timestamp=2026-03-01T09:30:00Z", nil)
		window, err := parseMessageWindow(r)
		require.NoError(t, err)
		assert.Equal(t, 25, window.Limit)
		require.NotNil(t, window.BeforeTimestamp)
		assert.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), window.BeforeTimestamp.UTC())
	})

	t.Run("rejects bad values", func(t *testing.T) {
		for _, query := range []string{
			"message_limit=0",
			"message_limit=-5",
			"message_limit=abc",
			"before_timestamp=yesterday",
		} {
			r := httptest.NewRequest("GET", "/conversation/x/detail?"+query, nil)
			_, err := parseMessageWindow(r)
			assert.Error(t, err, query)
		}
	})
}

func TestParseListRequest(t *testing.T) {
	t.Run("defaults to descending", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/conversations", nil)
		req, err := parseListRequest(r)
		require.NoError(t, err)
		assert.True(t, req.Descending)
		assert.Zero(t, req.Limit)
		assert.Zero(t, req.Offset)
		assert.Equal(t, entity.ConversationSort(""), req.SortBy)
	})

	t.Run("parses full query", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/conversations?limit=10&offset=20&sort_by=created_at&order=asc", nil)
		req, err := parseListRequest(r)
		require.NoError(t, err)
		assert.Equal(t, 10, req.Limit)
		assert.Equal(t, 20, req.Offset)
		assert.Equal(t, entity.SortByCreatedAt, req.SortBy)
		assert.False(t, req.Descending)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		for _, query := range []string{
			"limit=0",
			"limit=x",
			"offset=-1",
			"order=sideways",
		} {
			r := httptest.NewRequest("GET", "/conversations?"+query, nil)
			_, err := parseListRequest(r)
			assert.Error(t, err, query)
		}
	})
}
