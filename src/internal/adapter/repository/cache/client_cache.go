package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/redis/go-redis/v9"
)

const clientKeyPrefix = "client:"
const scanBatchSize = 200

// RedisClientCache stores client records as JSON under "client:<id>". Entries
// are overwritten unconditionally (last-writer-wins) because the feed delivers
// the authoritative current state, not deltas. Lookups degrade to absent when
// the store is unreachable; callers surface NotFound instead of hanging.
type RedisClientCache struct {
	client *redis.Client
}

func NewRedisClientCache(client *redis.Client) *RedisClientCache {
	return &RedisClientCache{client: client}
}

func clientKey(id int64) string {
	return clientKeyPrefix + strconv.FormatInt(id, 10)
}

func (c *RedisClientCache) Upsert(ctx context.Context, record domain.ClientRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode client record: %w", err)
	}

	if err := c.client.Set(ctx, clientKey(record.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("store client record: %w", err)
	}

	return nil
}

func (c *RedisClientCache) GetByID(ctx context.Context, id int64) (domain.ClientRecord, error) {
	raw, err := c.client.Get(ctx, clientKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error("client cache get failed", err, logger.Fields{"clientId": id})
		}
		return domain.ClientRecord{}, commons.ErrRecordNotFound
	}

	var record domain.ClientRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		logger.Error("client cache holds malformed record", err, logger.Fields{"clientId": id})
		return domain.ClientRecord{}, commons.ErrRecordNotFound
	}

	return record, nil
}

func (c *RedisClientCache) Exists(ctx context.Context, id int64) (bool, error) {
	count, err := c.client.Exists(ctx, clientKey(id)).Result()
	if err != nil {
		logger.Error("client cache exists check failed", err, logger.Fields{"clientId": id})
		return false, nil
	}
	return count > 0, nil
}

func (c *RedisClientCache) FindIDByName(ctx context.Context, name string) (int64, error) {
	return c.findID(ctx, func(record domain.ClientRecord) bool {
		return record.Name == name
	})
}

func (c *RedisClientCache) FindIDByIdentification(ctx context.Context, identification string) (int64, error) {
	return c.findID(ctx, func(record domain.ClientRecord) bool {
		return record.Identification == identification
	})
}

// findID scans all cached records for exact matches. The cache holds one
// record per client, so the scan is bounded by the client population.
func (c *RedisClientCache) findID(ctx context.Context, match func(domain.ClientRecord) bool) (int64, error) {
	var cursor uint64
	var matched []int64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, clientKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			logger.Error("client cache scan failed", err, nil)
			return 0, commons.ErrRecordNotFound
		}

		for _, key := range keys {
			raw, err := c.client.Get(ctx, key).Bytes()
			if err != nil {
				if !errors.Is(err, redis.Nil) {
					logger.Error("client cache get during scan failed", err, logger.Fields{"key": key})
				}
				continue
			}

			var record domain.ClientRecord
			if err := json.Unmarshal(raw, &record); err != nil {
				continue
			}
			if match(record) {
				matched = append(matched, record.ID)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	switch len(matched) {
	case 0:
		return 0, commons.ErrRecordNotFound
	case 1:
		return matched[0], nil
	default:
		return 0, commons.ErrAmbiguousClientName
	}
}
