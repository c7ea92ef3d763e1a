package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaPublisher writes one message per snapshot, keyed by tick.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	if brokers == "" {
		return nil, errors.New("kafka publisher: brokers must not be empty")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic must not be empty")
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           3,
		"linger.ms":         5,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: create producer: %w", err)
	}

	return &KafkaPublisher{producer: producer, topic: topic}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, snap *domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("kafka publish: marshal snapshot tick=%d: %w", snap.Tick, err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatUint(snap.Tick, 10)),
		Value:          payload,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("kafka publish: produce tick=%d: %w", snap.Tick, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("kafka publish: unexpected delivery event %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("kafka publish: delivery tick=%d: %w", snap.Tick, m.TopicPartition.Error)
		}
	}

	return nil
}

func (k *KafkaPublisher) Close() error {
	k.producer.Flush(5000)
	k.producer.Close()
	return nil
}

var _ ports.SnapshotPublisher = (*KafkaPublisher)(nil)
