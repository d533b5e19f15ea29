package identity

import (
	"errors"
	"testing"

	"github.com/chronidx/chronidx/internal/schema"
)

type reading struct {
	DeviceID string
	Channel  string
	Seq      int
	Site     *string
}

func resolveDescriptor(t *testing.T, d *schema.Descriptor) *schema.Metadata {
	t.Helper()
	meta, err := schema.NewRegistry().Resolve(d)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return meta
}

func readingMetadata(t *testing.T) *schema.Metadata {
	t.Helper()
	return resolveDescriptor(t, schema.NewDescriptor("readings").
		Identity("device_id", 0, func(e any) any {
			if v := e.(*reading).DeviceID; v != "" {
				return v
			}
			return nil
		}).
		Identity("channel", 1, func(e any) any {
			if v := e.(*reading).Channel; v != "" {
				return v
			}
			return nil
		}).
		Routing("site", func(e any) any {
			if v := e.(*reading).Site; v != nil {
				return *v
			}
			return nil
		}))
}

func TestPrimaryKey_Composite(t *testing.T) {
	meta := readingMetadata(t)
	b := NewBuilder()

	key, ok, err := b.PrimaryKey(meta, &reading{DeviceID: "dev-7", Channel: "temp"})
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a primary key")
	}
	if key != "dev-7-temp" {
		t.Errorf("Expected dev-7-temp, got %s", key)
	}
}

func TestPrimaryKey_SequenceOrdersBeforeDeclaration(t *testing.T) {
	// Declared a-then-b but sequenced b-then-a: the key follows the sequence.
	meta := resolveDescriptor(t, schema.NewDescriptor("pairs").
		Identity("a", 1, func(any) any { return "a" }).
		Identity("b", 0, func(any) any { return "b" }))

	key, ok, err := NewBuilder().PrimaryKey(meta, nil)
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if !ok || key != "b-a" {
		t.Errorf("Expected b-a, got %q (ok=%v)", key, ok)
	}
}

func TestPrimaryKey_SingleField(t *testing.T) {
	meta := resolveDescriptor(t, schema.NewDescriptor("single").
		Identity("x", 0, func(any) any { return "v" }))

	key, ok, err := NewBuilder().PrimaryKey(meta, nil)
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if !ok || key != "v" {
		t.Errorf("Expected v, got %q (ok=%v)", key, ok)
	}
}

func TestPrimaryKey_NoIdentityFields(t *testing.T) {
	meta := resolveDescriptor(t, schema.NewDescriptor("anonymous"))

	key, ok, err := NewBuilder().PrimaryKey(meta, nil)
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if ok {
		t.Errorf("Expected absent key for type without identity fields, got %q", key)
	}
}

func TestPrimaryKey_AbsentValuesKeepSegments(t *testing.T) {
	meta := readingMetadata(t)

	key, ok, err := NewBuilder().PrimaryKey(meta, &reading{DeviceID: "dev-7"})
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if !ok || key != "dev-7-" {
		t.Errorf("Expected dev-7-, got %q (ok=%v)", key, ok)
	}
}

func TestPrimaryKey_AllAbsentYieldsBareDelimiters(t *testing.T) {
	// Compatibility behavior: stored keys may depend on this exact string.
	meta := readingMetadata(t)

	key, ok, err := NewBuilder().PrimaryKey(meta, &reading{})
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if !ok || key != "-" {
		t.Errorf("Expected bare delimiter key -, got %q (ok=%v)", key, ok)
	}
}

func TestPrimaryKey_StrictRejectsAllAbsent(t *testing.T) {
	meta := readingMetadata(t)
	b := Builder{Delimiter: DefaultDelimiter, Strict: true}

	_, _, err := b.PrimaryKey(meta, &reading{})
	if !errors.Is(err, ErrIncompleteIdentity) {
		t.Errorf("Expected ErrIncompleteIdentity, got %v", err)
	}

	// A single present value is enough to pass strict mode.
	key, ok, err := b.PrimaryKey(meta, &reading{Channel: "temp"})
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if !ok || key != "-temp" {
		t.Errorf("Expected -temp, got %q (ok=%v)", key, ok)
	}
}

func TestPrimaryKey_CustomDelimiter(t *testing.T) {
	meta := readingMetadata(t)
	b := Builder{Delimiter: ":"}

	key, _, err := b.PrimaryKey(meta, &reading{DeviceID: "dev-7", Channel: "temp"})
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if key != "dev-7:temp" {
		t.Errorf("Expected dev-7:temp, got %s", key)
	}
}

func TestPrimaryKey_NonStringValues(t *testing.T) {
	meta := resolveDescriptor(t, schema.NewDescriptor("counters").
		Identity("seq", 0, func(e any) any { return e.(*reading).Seq }))

	key, _, err := NewBuilder().PrimaryKey(meta, &reading{Seq: 42})
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if key != "42" {
		t.Errorf("Expected 42, got %s", key)
	}
}

func TestPrimaryKey_JSONNumbers(t *testing.T) {
	// JSON decoding produces float64 values. Large whole numbers must render
	// in plain decimal, not exponent notation.
	var value float64
	meta := resolveDescriptor(t, schema.NewDescriptor("numeric").
		Identity("order_no", 0, func(any) any { return value }))

	cases := []struct {
		value float64
		want  string
	}{
		{100, "100"},
		{1561165200, "1561165200"},
		{3.5, "3.5"},
	}
	for _, tc := range cases {
		value = tc.value
		key, _, err := NewBuilder().PrimaryKey(meta, nil)
		if err != nil {
			t.Fatalf("PrimaryKey failed for %v: %v", tc.value, err)
		}
		if key != tc.want {
			t.Errorf("Expected %s for %v, got %s", tc.want, tc.value, key)
		}
	}
}

func TestPrimaryKey_Determinism(t *testing.T) {
	meta := readingMetadata(t)
	e := &reading{DeviceID: "dev-7", Channel: "temp"}

	first, _, _ := NewBuilder().PrimaryKey(meta, e)
	for i := 0; i < 100; i++ {
		again, _, _ := NewBuilder().PrimaryKey(meta, e)
		if again != first {
			t.Fatalf("PrimaryKey is not deterministic: %q vs %q", first, again)
		}
	}
}

func TestRoutingKey(t *testing.T) {
	meta := readingMetadata(t)

	site := "osaka"
	key, ok := NewBuilder().RoutingKey(meta, &reading{Site: &site})
	if !ok || key != "osaka" {
		t.Errorf("Expected osaka, got %q (ok=%v)", key, ok)
	}

	if _, ok := NewBuilder().RoutingKey(meta, &reading{}); ok {
		t.Error("Expected absent routing key when the value is nil")
	}
}

func TestRoutingKey_NoRoutingField(t *testing.T) {
	meta := resolveDescriptor(t, schema.NewDescriptor("unrouted").
		Identity("x", 0, func(any) any { return "v" }))

	if _, ok := NewBuilder().RoutingKey(meta, nil); ok {
		t.Error("Expected absent routing key when none is declared")
	}
}

func TestPackageLevelConvenience(t *testing.T) {
	meta := readingMetadata(t)

	key, ok := PrimaryKey(meta, &reading{DeviceID: "dev-7", Channel: "temp"})
	if !ok || key != "dev-7-temp" {
		t.Errorf("Expected dev-7-temp, got %q (ok=%v)", key, ok)
	}

	site := "osaka"
	routing, ok := RoutingKey(meta, &reading{Site: &site})
	if !ok || routing != "osaka" {
		t.Errorf("Expected osaka, got %q (ok=%v)", routing, ok)
	}
}
