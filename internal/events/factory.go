package events

import (
	"fmt"
	"strings"

	"github.com/chronidx/chronidx/internal/config"
	"github.com/chronidx/chronidx/internal/utils"
)

// NewPublisher creates a Publisher instance based on configuration.
// Default is the in-memory publisher if type is not specified.
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	publisherType := utils.PublisherType(strings.ToLower(cfg.Type))

	if publisherType == "" {
		publisherType = utils.PublisherTypeMemory
	}

	switch publisherType {
	case utils.PublisherTypeMemory:
		return NewMemoryPublisher(), nil

	case utils.PublisherTypeNATS:
		return NewNATSPublisher(cfg.URL)

	case utils.PublisherTypeRedis:
		return NewRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})

	case utils.PublisherTypeKafka:
		return NewKafkaPublisher(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
		})

	default:
		return nil, fmt.Errorf("unsupported events type: %s (supported: memory, nats, redis, kafka)", publisherType)
	}
}
