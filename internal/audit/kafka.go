package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"reunion/internal/platform/config"
)

// KafkaPublisher delivers audit events to a Kafka topic. Production sink;
// delivery is fire-and-forget so a slow broker never blocks request handling.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafka creates a publisher from the Kafka configuration.
// Returns nil if no brokers are configured (audit events then only go to the
// structured log).
func NewKafka(cfg config.Kafka) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &KafkaPublisher{client: client, topic: cfg.Topic}, nil
}

func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Action),
		Value: value,
	}
	p.client.Produce(ctx, record, nil)
	return nil
}

// Close flushes pending records and releases the client.
func (p *KafkaPublisher) Close() {
	p.client.Flush(context.Background())
	p.client.Close()
}
