package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATSPublisher implements Publisher using NATS JetStream. Each subject
// gets its own file-backed stream so published events are persisted until
// a downstream consumer picks them up.
type NATSPublisher struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	streams map[string]bool
	mu      sync.Mutex
}

// NewNATSPublisher connects to NATS and enables JetStream
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSPublisher{conn: conn, js: js, streams: make(map[string]bool)}, nil
}

// NewNATSPublisherWithConn wraps an existing connection (used in tests)
func NewNATSPublisherWithConn(conn *nats.Conn) (*NATSPublisher, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return &NATSPublisher{conn: conn, js: js, streams: make(map[string]bool)}, nil
}

// ensureStream creates the stream backing a subject if it does not exist yet
func (p *NATSPublisher) ensureStream(subject string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streams[subject] {
		return nil
	}

	streamName := "chronidx-" + sanitizeStreamName(subject)
	if _, err := p.js.StreamInfo(streamName); err != nil {
		_, err = p.js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream for subject %s: %w", subject, err)
		}
	}

	p.streams[subject] = true
	return nil
}

// Publish publishes a message to a subject using JetStream
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.ensureStream(subject); err != nil {
		return err
	}

	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// Close closes the NATS connection
func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// sanitizeStreamName replaces characters invalid in stream names.
// Stream names can only contain: A-Z, a-z, 0-9, dash (-) and underscore (_).
func sanitizeStreamName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
