package assistant

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"

	"github.com/go-redis/redis/v8"
)

const conversationPrefix = "assistant:conv:"

// ConversationStore persists the mapping from a conversation id to its
// runtime thread between turns. The core receives and returns the
// conversation handle; the shell decides where it lives.
type ConversationStore interface {
	Get(ctx context.Context, conversationID string) (*models.ConversationState, error)
	Set(ctx context.Context, conversationID string, state *models.ConversationState) error
	Clear(ctx context.Context, conversationID string) error
}

// RedisConversationStore keeps conversation state in Redis with a TTL.
type RedisConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisConversationStore(client *redis.Client, ttl time.Duration) *RedisConversationStore {
	return &RedisConversationStore{client: client, ttl: ttl}
}

func (s *RedisConversationStore) Get(ctx context.Context, conversationID string) (*models.ConversationState, error) {
	key := conversationPrefix + conversationID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisConversationStore) Set(ctx context.Context, conversationID string, state *models.ConversationState) error {
	key := conversationPrefix + conversationID
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisConversationStore) Clear(ctx context.Context, conversationID string) error {
	key := conversationPrefix + conversationID
	return s.client.Del(ctx, key).Err()
}

// MemoryConversationStore is the in-process store used by the CLI shell
// and tests.
type MemoryConversationStore struct {
	mu     sync.Mutex
	states map[string]models.ConversationState
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{states: make(map[string]models.ConversationState)}
}

func (s *MemoryConversationStore) Get(_ context.Context, conversationID string) (*models.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[conversationID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *MemoryConversationStore) Set(_ context.Context, conversationID string, state *models.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[conversationID] = *state
	return nil
}

func (s *MemoryConversationStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, conversationID)
	return nil
}
