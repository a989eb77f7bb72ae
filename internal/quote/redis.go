// Package quote keeps the storefront cart (quote) linked to the gateway
// transaction created for it, so a returning checkout can reuse it.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wakala/paysync/internal/domain"
)

// DefaultTTL bounds how long an abandoned cart keeps its link.
const DefaultTTL = 7 * 24 * time.Hour

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(quoteID string) string {
	return "quote:" + quoteID
}

// AttachTransaction records tx as the transaction of the quote. An empty quote
// id is ignored.
func (s *RedisStore) AttachTransaction(ctx context.Context, quoteID string, tx *domain.Transaction) error {
	if quoteID == "" || tx == nil {
		return nil
	}
	k := key(quoteID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"space_id", tx.SpaceID,
			"transaction_id", tx.ID,
			"state", string(tx.State),
		)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("attach transaction to quote %s: %w", quoteID, err)
	}
	return nil
}
