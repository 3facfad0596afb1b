package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"fyyur/internal/logger"
)

// Publisher sends a domain event after a change has been committed.
type Publisher interface {
	Publish(ctx context.Context, topic string, id int64, payload interface{}) error
}

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the envelope written to every topic.
type Event struct {
	Type       string      `json:"type"`
	ID         int64       `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// PublishTimeout bounds how long Publish may wait on the broker. Even an async
// writer looks up topic metadata before queueing.
const PublishTimeout = 2 * time.Second

type Producer struct {
	Writer  MessageWriter
	Prefix  string
	Logger  *logger.Logger
	Now     func() time.Time
	Timeout time.Duration
}

// NewProducer builds an async writer: Publish only queues the message and
// delivery results are reported through delivered.
func NewProducer(brokers []string, prefix string, log *logger.Logger) *Producer {
	p := &Producer{Prefix: prefix, Logger: log, Now: time.Now, Timeout: PublishTimeout}
	p.Writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		MaxAttempts:            3,
		Async:                  true,
		Completion:             p.delivered,
	}
	return p
}

func (p *Producer) delivered(messages []kafka.Message, err error) {
	for _, m := range messages {
		if err != nil {
			p.Logger.Error("KAFKA", fmt.Sprintf("Failed to deliver %s key=%s: %v", m.Topic, m.Key, err))
			continue
		}
		p.Logger.LogKafka("DELIVERED", m.Topic, fmt.Sprintf("id=%s", m.Key))
	}
}

// Publish hands one event keyed by the entity id to the writer.
func (p *Producer) Publish(ctx context.Context, topic string, id int64, payload interface{}) error {
	name := TopicName(p.Prefix, topic)
	msgBytes, err := json.Marshal(Event{
		Type:       topic,
		ID:         id,
		OccurredAt: p.Now().UTC(),
		Data:       payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: name,
		Key:   []byte(strconv.FormatInt(id, 10)),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", name, err)
	}

	p.Logger.LogKafka("QUEUED", name, fmt.Sprintf("id=%d", id))
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NoopPublisher drops every event. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, int64, interface{}) error {
	return nil
}
