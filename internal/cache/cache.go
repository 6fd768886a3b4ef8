package cache

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	productListPattern = "products:*"
	cartKeyFormat      = "cart:%s"
	orderDetailFormat  = "orders:detail:%s"
)

// Invalidator drops read-through cache entries after a commit. Every method
// is best-effort: a missing or unreachable Redis never fails the caller, so
// all errors end up in the log and nowhere else.
type Invalidator struct {
	client *redis.Client
	logger *log.Logger
}

// New connects to Redis at addr. An empty addr disables invalidation.
func New(addr string, logger *log.Logger) *Invalidator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if addr == "" {
		return &Invalidator{logger: logger}
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	return &Invalidator{client: client, logger: logger}
}

// InvalidateProducts drops all product-list keys. Called after any commit
// that changed stock so list reads cannot serve stale availability.
func (i *Invalidator) InvalidateProducts(ctx context.Context) {
	i.deletePattern(ctx, productListPattern)
}

// InvalidateCart drops the user's cart cache entry.
func (i *Invalidator) InvalidateCart(ctx context.Context, userID string) {
	i.deleteKeys(ctx, fmt.Sprintf(cartKeyFormat, userID))
}

// InvalidateOrder drops the cached detail for one order.
func (i *Invalidator) InvalidateOrder(ctx context.Context, orderID string) {
	i.deleteKeys(ctx, fmt.Sprintf(orderDetailFormat, orderID))
}

func (i *Invalidator) deleteKeys(ctx context.Context, keys ...string) {
	if i.client == nil {
		return
	}
	if err := i.client.Del(ctx, keys...).Err(); err != nil {
		i.logger.Printf("cache: delete keys=%v error=%v", keys, err)
	}
}

func (i *Invalidator) deletePattern(ctx context.Context, pattern string) {
	if i.client == nil {
		return
	}
	iter := i.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		i.logger.Printf("cache: scan pattern=%s error=%v", pattern, err)
		return
	}
	if len(keys) > 0 {
		i.deleteKeys(ctx, keys...)
	}
}

// Close releases the underlying connection.
func (i *Invalidator) Close() error {
	if i.client == nil {
		return nil
	}
	return i.client.Close()
}
