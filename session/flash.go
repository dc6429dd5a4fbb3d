package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Message is a one-shot notice shown on the next rendered page.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Store queues flash messages per session id. Pop returns and clears them.
type Store interface {
	Push(ctx context.Context, sid string, msg Message) error
	Pop(ctx context.Context, sid string) ([]Message, error)
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func flashKey(sid string) string {
	return "blogly:flash:" + sid
}

func (s *RedisStore) Push(ctx context.Context, sid string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := flashKey(sid)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("flash push: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, sid string) ([]Message, error) {
	key := flashKey(sid)
	pipe := s.rdb.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("flash pop: %w", err)
	}

	msgs := make([]Message, 0, len(items.Val()))
	for _, raw := range items.Val() {
		var m Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// MemoryStore keeps flashes in process. Used when no Redis is configured.
type MemoryStore struct {
	mu   sync.Mutex
	msgs map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{msgs: make(map[string][]Message)}
}

func (s *MemoryStore) Push(ctx context.Context, sid string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[sid] = append(s.msgs[sid], msg)
	return nil
}

func (s *MemoryStore) Pop(ctx context.Context, sid string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.msgs[sid]
	delete(s.msgs, sid)
	return msgs, nil
}
