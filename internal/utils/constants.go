package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// StoreWriteTimeout is the timeout for store write operations
	StoreWriteTimeout = 10 * time.Second

	// EventPublishTimeout is the timeout for write-event publishing
	EventPublishTimeout = 5 * time.Second
)

// =============================================================================
// Store Type Constants
// =============================================================================

// StoreType represents the document store backend
type StoreType string

const (
	// StoreTypeMemory represents the in-process store (default, tests and development)
	StoreTypeMemory StoreType = "memory"

	// StoreTypeRedis represents the Redis-backed store
	StoreTypeRedis StoreType = "redis"
)

// =============================================================================
// Event Publisher Type Constants
// =============================================================================

// PublisherType represents the write-event publisher backend
type PublisherType string

const (
	// PublisherTypeMemory represents the in-memory publisher (default)
	PublisherTypeMemory PublisherType = "memory"

	// PublisherTypeNATS represents NATS JetStream
	PublisherTypeNATS PublisherType = "nats"

	// PublisherTypeRedis represents Redis Streams
	PublisherTypeRedis PublisherType = "redis"

	// PublisherTypeKafka represents Apache Kafka
	PublisherTypeKafka PublisherType = "kafka"
)
