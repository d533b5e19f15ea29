package events

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestEventEncodeDecode(t *testing.T) {
	e := Event{
		Type:       TypeDocumentWritten,
		Collection: "orders",
		Index:      "chronidx-orders-2019.06.22",
		ID:         "s1-100",
		Routing:    "s1",
		At:         1561161600,
	}

	data, err := e.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != e {
		t.Errorf("Round trip mismatch: %+v != %+v", got, e)
	}
}

func TestDecode_InvalidPayload(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("Expected error decoding invalid payload")
	}
}

func TestMemoryPublisher_PublishSubscribe(t *testing.T) {
	p := NewMemoryPublisher()
	defer func() { _ = p.Close() }()

	var mu sync.Mutex
	var received [][]byte

	err := p.Subscribe(SubjectWrites, func(data []byte) error {
		mu.Lock()
		received = append(received, data)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := p.Publish(ctx, SubjectWrites, []byte(`{"type":"document.written"}`)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 3 messages, got %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMemoryPublisher_PublishWithoutSubscriber(t *testing.T) {
	p := NewMemoryPublisher()
	defer func() { _ = p.Close() }()

	if err := p.Publish(context.Background(), SubjectWrites, []byte("a")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if got := p.Pending(SubjectWrites); got != 1 {
		t.Errorf("Expected 1 pending message, got %d", got)
	}
}

func TestMemoryPublisher_DuplicateSubscribe(t *testing.T) {
	p := NewMemoryPublisher()
	defer func() { _ = p.Close() }()

	handler := func(data []byte) error { return nil }
	if err := p.Subscribe(SubjectWrites, handler); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := p.Subscribe(SubjectWrites, handler); err == nil {
		t.Error("Expected error on duplicate subscribe")
	}
}

func TestMemoryPublisher_Unsubscribe(t *testing.T) {
	p := NewMemoryPublisher()
	defer func() { _ = p.Close() }()

	if err := p.Unsubscribe(SubjectWrites); err == nil {
		t.Error("Expected error unsubscribing without subscription")
	}

	if err := p.Subscribe(SubjectWrites, func(data []byte) error { return nil }); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := p.Unsubscribe(SubjectWrites); err != nil {
		t.Errorf("Unsubscribe failed: %v", err)
	}
}

func TestMemoryPublisher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	p := NewMemoryPublisher()
	defer func() { _ = p.Close() }()

	var mu sync.Mutex
	calls := 0

	err := p.Subscribe(SubjectWrites, func(data []byte) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return context.DeadlineExceeded
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := p.Publish(ctx, SubjectWrites, []byte("x")); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected handler to run twice, ran %d times", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
