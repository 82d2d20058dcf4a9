package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.6.1"

// KafkaContainer is a single-broker Kafka for publisher tests.
type KafkaContainer struct {
	Container *tckafka.KafkaContainer
	Brokers   []string
}

// NewKafkaContainer starts Kafka for the lifetime of t. Tests calling it are
// skipped under -short.
func NewKafkaContainer(ctx context.Context, t *testing.T) *KafkaContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("container-backed test skipped in short mode")
	}

	ctr, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("loan-risk-test"))
	if err != nil {
		t.Fatalf("start %s: %v", kafkaImage, err)
	}
	kc := &KafkaContainer{Container: ctr}
	t.Cleanup(func() { kc.terminate(t) })

	if kc.Brokers, err = ctr.Brokers(ctx); err != nil {
		t.Fatalf("kafka brokers: %v", err)
	}
	return kc
}

// CreateTopic creates a single-partition topic through the cluster controller.
func (kc *KafkaContainer) CreateTopic(t *testing.T, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", kc.Brokers[0])
	if err != nil {
		t.Fatalf("dial kafka: %v", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		t.Fatalf("kafka controller: %v", err)
	}
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		t.Fatalf("dial kafka controller: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}); err != nil {
		t.Fatalf("create topic %s: %v", topic, err)
	}
}

// ReadMessages reads n messages from the start of topic's only partition.
func (kc *KafkaContainer) ReadMessages(ctx context.Context, t *testing.T, topic string, n int) []kafkago.Message {
	t.Helper()

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   kc.Brokers,
		Topic:     topic,
		Partition: 0,
		MaxWait:   500 * time.Millisecond,
	})
	defer r.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out := make([]kafkago.Message, 0, n)
	for len(out) < n {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			t.Fatalf("read %s after %d of %d messages: %v", topic, len(out), n, err)
		}
		out = append(out, msg)
	}
	return out
}

func (kc *KafkaContainer) terminate(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := kc.Container.Terminate(ctx); err != nil {
		t.Logf("terminate kafka container: %v", err)
	}
}
