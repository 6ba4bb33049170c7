package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/segmentio/kafka-go"
)

// ClientConsumer keeps the identity cache warm from the client-change topic.
// Delivery is at-least-once and records carry full state, so every message is
// upserted unconditionally. A malformed message is logged and skipped; it must
// never stop the loop.
type ClientConsumer struct {
	reader *kafka.Reader
	cache  repo_interfaces.ClientCache
}

func NewClientConsumer(brokers []string, topic, groupID string, cache repo_interfaces.ClientCache) *ClientConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})

	return &ClientConsumer{reader: reader, cache: cache}
}

// Run blocks consuming messages until ctx is canceled.
func (c *ClientConsumer) Run(ctx context.Context) {
	logger.Info("client consumer started", logger.Fields{"topic": c.reader.Config().Topic})

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				logger.Info("client consumer stopped", nil)
				return
			}
			logger.Error("client consumer read failed", err, nil)
			continue
		}

		c.handle(ctx, msg.Value)
	}
}

func (c *ClientConsumer) handle(ctx context.Context, value []byte) {
	var record domain.ClientRecord
	if err := json.Unmarshal(value, &record); err != nil {
		logger.Error("client consumer dropped malformed message", err, logger.Fields{
			"payload": string(value),
		})
		return
	}
	if record.ID == 0 {
		logger.Error("client consumer dropped message without client id", nil, logger.Fields{
			"payload": string(value),
		})
		return
	}

	if err := c.cache.Upsert(ctx, record); err != nil {
		logger.Error("client consumer upsert failed", err, logger.Fields{"clientId": record.ID})
		return
	}

	logger.Info("client record cached", logger.Fields{"clientId": record.ID})
}

func (c *ClientConsumer) Close() error {
	return c.reader.Close()
}
