package ledger

import (
	"context"
	"fmt"
	"strconv"

	redis "github.com/redis/go-redis/v9"
)

type RedisLedger struct {
	rdb    *redis.Client
	prefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewRedisLedger(cfg RedisConfig) *RedisLedger {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisLedger{rdb: rdb, prefix: cfg.Prefix}
}

func (l *RedisLedger) key(orderID, itemID int64) string {
	return fmt.Sprintf("%ssubmitted:%d:%d", l.prefix, orderID, itemID)
}

// Reserve claims the pair with SETNX. Keys never expire: a submitted pair
// stays claimed across redeliveries for good.
func (l *RedisLedger) Reserve(ctx context.Context, orderID, itemID int64) (bool, error) {
	return l.rdb.SetNX(ctx, l.key(orderID, itemID), "pending", 0).Result()
}

func (l *RedisLedger) MarkSubmitted(ctx context.Context, orderID, itemID, providerOrderID int64) error {
	return l.rdb.Set(ctx, l.key(orderID, itemID), strconv.FormatInt(providerOrderID, 10), 0).Err()
}

func (l *RedisLedger) Release(ctx context.Context, orderID, itemID int64) error {
	return l.rdb.Del(ctx, l.key(orderID, itemID)).Err()
}

func (l *RedisLedger) Close() error {
	return l.rdb.Close()
}
