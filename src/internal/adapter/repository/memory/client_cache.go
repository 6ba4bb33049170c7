package memory

import (
	"context"
	"sync"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
)

// ClientCache is an in-process stand-in for the redis-backed cache with the
// same last-writer-wins and exact-match semantics.
type ClientCache struct {
	mu      sync.RWMutex
	records map[int64]domain.ClientRecord
}

func NewClientCache() *ClientCache {
	return &ClientCache{records: make(map[int64]domain.ClientRecord)}
}

func (c *ClientCache) Upsert(_ context.Context, record domain.ClientRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.ID] = record
	return nil
}

func (c *ClientCache) GetByID(_ context.Context, id int64) (domain.ClientRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	if !ok {
		return domain.ClientRecord{}, commons.ErrRecordNotFound
	}
	return record, nil
}

func (c *ClientCache) Exists(_ context.Context, id int64) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.records[id]
	return ok, nil
}

func (c *ClientCache) FindIDByName(_ context.Context, name string) (int64, error) {
	return c.findID(func(record domain.ClientRecord) bool {
		return record.Name == name
	})
}

func (c *ClientCache) FindIDByIdentification(_ context.Context, identification string) (int64, error) {
	return c.findID(func(record domain.ClientRecord) bool {
		return record.Identification == identification
	})
}

func (c *ClientCache) findID(match func(domain.ClientRecord) bool) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matched []int64
	for _, record := range c.records {
		if match(record) {
			matched = append(matched, record.ID)
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
