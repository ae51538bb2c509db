package telegram

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// sessionStore binds Telegram chats to backend conversations. Bindings
// expire after the configured TTL so abandoned chats start fresh instead
// of resurrecting a stale conversation.
type sessionStore struct {
	cache *cache.Cache
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (s *sessionStore) conversationID(chatID int64) (string, bool) {
	v, ok := s.cache.Get(strconv.FormatInt(chatID, 10))
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (s *sessionStore) bind(chatID int64, conversationID string) {
	s.cache.SetDefault(strconv.FormatInt(chatID, 10), conversationID)
}

func (s *sessionStore) reset(chatID int64) {
	s.cache.Delete(strconv.FormatInt(chatID, 10))
}
