package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis key for the verified-voter set.
const verifiedSetKey = "votegate:verified"

// RedisLedger keeps verified voter ids in a Redis set, making the
// duplicate-verification guard survive restarts and work across instances.
// SADD is atomic and reports whether the member was newly added, which gives
// the first-marking election for free.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) IsVerified(ctx context.Context, voterID string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, verifiedSetKey, voterID).Result()
	if err != nil {
		return false, fmt.Errorf("ledger membership check: %w", err)
	}
	return ok, nil
}

func (l *RedisLedger) MarkVerified(ctx context.Context, voterID string) (bool, error) {
	added, err := l.client.SAdd(ctx, verifiedSetKey, voterID).Result()
	if err != nil {
		return false, fmt.Errorf("ledger mark verified: %w", err)
	}
	return added == 1, nil
}
