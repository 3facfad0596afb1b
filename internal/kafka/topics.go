package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"

	"fyyur/internal/logger"
)

const (
	TopicVenueCreated  = "venue.created"
	TopicVenueUpdated  = "venue.updated"
	TopicVenueDeleted  = "venue.deleted"
	TopicArtistCreated = "artist.created"
	TopicArtistUpdated = "artist.updated"
	TopicShowCreated   = "show.created"
)

// Topics lists every event topic, without prefix.
func Topics() []string {
	return []string{
		TopicVenueCreated,
		TopicVenueUpdated,
		TopicVenueDeleted,
		TopicArtistCreated,
		TopicArtistUpdated,
		TopicShowCreated,
	}
}

// TopicName joins the configured prefix and an event topic.
func TopicName(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}

// EnsureTopicsExist creates the prefixed topics on the cluster controller.
// Topics that already exist are skipped.
func EnsureTopicsExist(ctx context.Context, brokers []string, prefix string, log *logger.Logger) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial %s: %w", brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer controllerConn.Close()

	for _, topic := range Topics() {
		name := TopicName(prefix, topic)
		err := controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             name,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		switch {
		case errors.Is(err, kafka.TopicAlreadyExists):
			log.LogKafka("TOPIC", name, "already exists")
		case err != nil:
			log.Warn("KAFKA", fmt.Sprintf("Error creating topic %s: %v", name, err))
		default:
			log.LogKafka("TOPIC", name, "created")
		}
	}
	return nil
}
