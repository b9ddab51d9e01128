package utils

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/segmentio/kafka-go"
)

var pushWriter *kafka.Writer

// PushTopic is the topic push notification send requests are produced to
const PushTopic = "push-notifications"

// InitializeKafka sets up the shared writer for the push notification topic.
// Without KAFKA_BROKERS the writer stays nil and sends fall back to the
// synchronous path.
func InitializeKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("ℹ️ KAFKA_BROKERS not set, push dispatch queue disabled")
		return
	}

	topic := os.Getenv("KAFKA_PUSH_TOPIC")
	if topic == "" {
		topic = PushTopic
	}

	pushWriter = &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("✅ Kafka writer initialized for topic %s", topic)
}

// IsKafkaEnabled checks if the push dispatch queue is available
func IsKafkaEnabled() bool {
	return pushWriter != nil
}

// PublishPushMessage produces one send request to the push topic
func PublishPushMessage(ctx context.Context, key string, payload []byte) error {
	if pushWriter == nil {
		return nil
	}
	return pushWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// NewPushReader creates a consumer for the push topic
func NewPushReader() *kafka.Reader {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}

	topic := os.Getenv("KAFKA_PUSH_TOPIC")
	if topic == "" {
		topic = PushTopic
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(brokers, ","),
		GroupID: "push-notification-sender",
		Topic:   topic,
	})
}
