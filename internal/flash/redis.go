package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "flash:"

// RedisStore keeps one list per session. Every push refreshes the TTL.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (r *RedisStore) Push(ctx context.Context, sessionID string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode flash message: %w", err)
	}

	key := keyPrefix + sessionID
	_, err = r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, r.TTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash message: %w", err)
	}
	return nil
}

// Pop reads and deletes the session's list in one MULTI/EXEC.
func (r *RedisStore) Pop(ctx context.Context, sessionID string) ([]Message, error) {
	key := keyPrefix + sessionID
	var values *redis.StringSliceCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		values = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop flash messages: %w", err)
	}

	raw := values.Val()
	if len(raw) == 0 {
		return nil, nil
	}
	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode flash message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
