// Package publisher delivers relayed audit events to downstream consumers.
package publisher

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
)

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher produces each event payload to a Kafka topic, keyed by event
// id so consumers can deduplicate redeliveries.
type KafkaPublisher struct {
	client producer
	topic  string
}

// NewKafkaPublisher connects a franz-go client to brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(entry.EventID.String()),
		Value: entry.Payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce audit event %s: %w", entry.EventID, err)
	}
	return nil
}

// Close releases the client connections.
func (k *KafkaPublisher) Close() {
	k.client.Close()
}
