package schema

import (
	"errors"
	"sync"
	"testing"
)

type order struct {
	StoreID string
	OrderNo string
	Region  string
}

func orderDescriptor() *Descriptor {
	return NewDescriptor("orders").
		Identity("store_id", 0, func(e any) any { return e.(*order).StoreID }).
		Identity("order_no", 1, func(e any) any { return e.(*order).OrderNo }).
		Routing("region", func(e any) any { return e.(*order).Region })
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()

	meta, err := r.Resolve(orderDescriptor())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if meta.Type != "orders" {
		t.Errorf("Expected type orders, got %s", meta.Type)
	}
	if len(meta.IdentityFields) != 2 {
		t.Fatalf("Expected 2 identity fields, got %d", len(meta.IdentityFields))
	}
	if meta.IdentityFields[0].Name != "store_id" || meta.IdentityFields[1].Name != "order_no" {
		t.Errorf("Unexpected identity field order: %s, %s",
			meta.IdentityFields[0].Name, meta.IdentityFields[1].Name)
	}
	if meta.Routing == nil || meta.Routing.Name != "region" {
		t.Errorf("Expected routing field region, got %+v", meta.Routing)
	}
	if !meta.HasIdentity() {
		t.Error("Expected HasIdentity to be true")
	}
}

func TestRegistry_OrdersBySequenceThenName(t *testing.T) {
	r := NewRegistry()

	d := NewDescriptor("events").
		Identity("b", 1, func(any) any { return "b" }).
		Identity("a", 0, func(any) any { return "a" }).
		Identity("z", 1, func(any) any { return "z" })

	meta, err := r.Resolve(d)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	got := []string{meta.IdentityFields[0].Name, meta.IdentityFields[1].Name, meta.IdentityFields[2].Name}
	want := []string{"a", "b", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestRegistry_DuplicateSequenceAndNameFails(t *testing.T) {
	r := NewRegistry()

	d := NewDescriptor("broken").
		Identity("a", 0, func(any) any { return nil }).
		Identity("a", 0, func(any) any { return nil })

	_, err := r.Resolve(d)
	if err == nil {
		t.Fatal("Expected ConfigurationError for duplicate (sequence, name)")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigurationError, got %T: %v", err, err)
	}
	if cfgErr.Type != "broken" {
		t.Errorf("Expected error type broken, got %s", cfgErr.Type)
	}
}

func TestRegistry_SameSequenceDifferentNamesAllowed(t *testing.T) {
	r := NewRegistry()

	d := NewDescriptor("ok").
		Identity("a", 0, func(any) any { return nil }).
		Identity("b", 0, func(any) any { return nil })

	meta, err := r.Resolve(d)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(meta.IdentityFields) != 2 {
		t.Errorf("Expected 2 identity fields, got %d", len(meta.IdentityFields))
	}
}

func TestRegistry_FieldMayBeIdentityAndRouting(t *testing.T) {
	r := NewRegistry()

	get := func(e any) any { return e.(*order).StoreID }
	d := NewDescriptor("pinned").
		Identity("store_id", 0, get).
		Routing("store_id", get)

	meta, err := r.Resolve(d)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if meta.Routing == nil || meta.Routing.Name != "store_id" {
		t.Errorf("Expected routing field store_id, got %+v", meta.Routing)
	}
	if len(meta.IdentityFields) != 1 {
		t.Errorf("Expected 1 identity field, got %d", len(meta.IdentityFields))
	}
}

func TestRegistry_NoIdentityFields(t *testing.T) {
	r := NewRegistry()

	meta, err := r.Resolve(NewDescriptor("anonymous"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if meta.HasIdentity() {
		t.Error("Expected HasIdentity to be false")
	}
}

func TestRegistry_ResolveIsMemoized(t *testing.T) {
	r := NewRegistry()

	first, err := r.Resolve(orderDescriptor())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// A second descriptor with the same type name must not replace the
	// cached metadata.
	second, err := r.Resolve(NewDescriptor("orders"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if first != second {
		t.Error("Expected the cached metadata instance on repeated resolution")
	}

	cached, ok := r.Lookup("orders")
	if !ok || cached != first {
		t.Error("Expected Lookup to return the cached metadata")
	}
}

func TestRegistry_ConcurrentFirstUse(t *testing.T) {
	r := NewRegistry()

	const goroutines = 32
	results := make([]*Metadata, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meta, err := r.Resolve(orderDescriptor())
			if err != nil {
				t.Errorf("Resolve failed: %v", err)
				return
			}
			results[i] = meta
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatal("Concurrent resolution produced divergent metadata")
		}
	}
}
