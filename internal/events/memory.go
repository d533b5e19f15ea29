package events

import (
	"context"
	"fmt"
	"sync"
)

// MemoryPublisher implements Publisher with in-memory channels.
// It is the default backend and doubles as the delivery fixture for tests,
// which can subscribe to a subject and observe published events.
type MemoryPublisher struct {
	channels      map[string]chan []byte
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// NewMemoryPublisher creates an in-memory publisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		channels:      make(map[string]chan []byte),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

func (p *MemoryPublisher) getOrCreateChannel(subject string) chan []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ch, exists := p.channels[subject]; exists {
		return ch
	}

	ch := make(chan []byte, 10000)
	p.channels[subject] = ch
	return ch
}

// Publish publishes a message to an in-memory channel
func (p *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	ch := p.getOrCreateChannel(subject)

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	select {
	case ch <- dataCopy:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// Subscribe consumes messages published to a subject
func (p *MemoryPublisher) Subscribe(subject string, handler Handler) error {
	p.mu.Lock()
	if _, exists := p.subscriptions[subject]; exists {
		p.mu.Unlock()
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	p.mu.Unlock()

	ch := p.getOrCreateChannel(subject)
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.subscriptions[subject] = cancel
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				if err := handler(data); err != nil {
					continue
				}
			}
		}
	}()

	return nil
}

// Unsubscribe stops consuming a subject
func (p *MemoryPublisher) Unsubscribe(subject string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cancel, exists := p.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(p.subscriptions, subject)
	return nil
}

// Close cancels all subscriptions and closes all channels
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for subject, cancel := range p.subscriptions {
		cancel()
		delete(p.subscriptions, subject)
	}
	for subject, ch := range p.channels {
		close(ch)
		delete(p.channels, subject)
	}
	return nil
}

// Pending returns the number of undelivered messages for a subject (for testing)
func (p *MemoryPublisher) Pending(subject string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if ch, exists := p.channels[subject]; exists {
		return len(ch)
	}
	return 0
}
