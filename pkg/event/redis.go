package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/delish/config"
)

// RedisPublisher appends each event to a list (a durable feed other
// processes can drain) and publishes it on a channel of the same name.
type RedisPublisher struct {
	rdb *redis.Client
	key string
}

func NewRedisPublisher(rdb *redis.Client, key string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, key: key}
}

// Connect opens a client from REDIS_ADDR / REDIS_PASSWORD and checks it.
func Connect(ctx context.Context) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("event/redis: ping %s: %w", config.RedisAddr(), err)
	}
	return rdb, nil
}

// Key is the list and channel name.
func (p *RedisPublisher) Key() string { return p.key }

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("event/redis: marshal %s: %w", e.Name, err)
	}

	pipe := p.rdb.TxPipeline()
	pipe.RPush(ctx, p.key, data)
	pipe.Publish(ctx, p.key, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("event/redis: publish %s: %w", e.Name, err)
	}
	return nil
}

// Recent returns up to n of the newest events in the list, oldest first.
func (p *RedisPublisher) Recent(ctx context.Context, n int) ([]Event, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := p.rdb.LRange(ctx, p.key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("event/redis: read %s: %w", p.key, err)
	}
	out := make([]Event, 0, len(raw))
	for _, s := range raw {
		var e Event
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("event/redis: decode %s: %w", p.key, err)
		}
		out = append(out, e)
	}
	return out, nil
}
