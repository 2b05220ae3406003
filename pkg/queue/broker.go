package queue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var errEmpty = errors.New("queue: empty")

// broker is the storage the queue runs on: lists for pending and dead messages,
// a sorted set scored by due time for retries.
type broker interface {
	Ping(ctx context.Context) error
	Push(ctx context.Context, list string, data []byte) error
	Pop(ctx context.Context, list string, timeout time.Duration) ([]byte, error)
	Schedule(ctx context.Context, set string, at time.Time, data []byte) error
	Due(ctx context.Context, set string, now time.Time) ([]string, error)
	Promote(ctx context.Context, set, list, member string) error
	ListLen(ctx context.Context, list string) (int64, error)
	SetLen(ctx context.Context, set string) (int64, error)
}

type redisBroker struct {
	client *redis.Client
}

func (b redisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b redisBroker) Push(ctx context.Context, list string, data []byte) error {
	return b.client.LPush(ctx, list, data).Err()
}

func (b redisBroker) Pop(ctx context.Context, list string, timeout time.Duration) ([]byte, error) {
	result, err := b.client.BRPop(ctx, timeout, list).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded) {
			return nil, errEmpty
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, errEmpty
	}
	return []byte(result[1]), nil
}

func (b redisBroker) Schedule(ctx context.Context, set string, at time.Time, data []byte) error {
	return b.client.ZAdd(ctx, set, redis.Z{Score: float64(at.Unix()), Member: data}).Err()
}

func (b redisBroker) Due(ctx context.Context, set string, now time.Time) ([]string, error) {
	return b.client.ZRangeByScore(ctx, set, &redis.ZRangeBy{
		Min: "0",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
}

// Promote moves member from the retry set back to the pending list atomically.
func (b redisBroker) Promote(ctx context.Context, set, list, member string) error {
	pipe := b.client.TxPipeline()
	pipe.ZRem(ctx, set, member)
	pipe.LPush(ctx, list, member)
	_, err := pipe.Exec(ctx)
	return err
}

func (b redisBroker) ListLen(ctx context.Context, list string) (int64, error) {
	return b.client.LLen(ctx, list).Result()
}

func (b redisBroker) SetLen(ctx context.Context, set string) (int64, error) {
	return b.client.ZCard(ctx, set).Result()
}
