package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"forfriends-bot/internal/flow"
)

// stateKV is the subset of the Redis client the wizard state store
// needs. Get reports a missing key as (nil, nil).
type stateKV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// StateStorage persists the per-chat wizard state in Redis. Wizard state
// is transient, unlike the session store, so it carries a TTL.
type StateStorage struct {
	redis stateKV
	ttl   time.Duration
}

func NewStateStorage(kv stateKV, ttl time.Duration) *StateStorage {
	return &StateStorage{
		redis: kv,
		ttl:   ttl,
	}
}

func (s *StateStorage) Save(ctx context.Context, chatID int64, state flow.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := s.redis.Set(ctx, stateKey(chatID), data, s.ttl); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Get returns the chat's wizard state; an idle zero state when none is stored.
func (s *StateStorage) Get(ctx context.Context, chatID int64) (flow.State, error) {
	data, err := s.redis.Get(ctx, stateKey(chatID))
	if err != nil {
		return flow.State{}, fmt.Errorf("get state: %w", err)
	}
	if data == nil {
		return flow.State{}, nil
	}

	var state flow.State
	if err := json.Unmarshal(data, &state); err != nil {
		return flow.State{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return state, nil
}

func (s *StateStorage) Clear(ctx context.Context, chatID int64) error {
	if err := s.redis.Del(ctx, stateKey(chatID)); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}
