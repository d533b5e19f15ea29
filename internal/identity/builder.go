// Package identity derives primary and routing keys from resolved entity
// metadata. All functions are pure: they read the entity through the
// metadata's accessors and never mutate either input.
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chronidx/chronidx/internal/schema"
)

// DefaultDelimiter joins identity field values into the composite key
const DefaultDelimiter = "-"

// ErrIncompleteIdentity is returned in strict mode when a type declares
// identity fields but every value resolves to absent
var ErrIncompleteIdentity = errors.New("identity: all identity field values are absent")

// Builder composes primary and routing keys. The zero value is not usable;
// use NewBuilder or set Delimiter explicitly.
type Builder struct {
	// Delimiter joins the identity segments
	Delimiter string

	// Strict rejects all-absent identity values instead of producing a key
	// of bare delimiters. Off by default: stored documents may depend on the
	// exact degenerate keys produced historically.
	Strict bool
}

// NewBuilder returns a builder with the default delimiter and lax behavior
func NewBuilder() Builder {
	return Builder{Delimiter: DefaultDelimiter}
}

// PrimaryKey composes the entity's primary key. The second return is false
// only when the type declares no identity fields; the store must then assign
// an identity itself. Absent field values contribute empty segments, so a
// partially-absent identity still yields a stable key.
func (b Builder) PrimaryKey(meta *schema.Metadata, entity any) (string, bool, error) {
	if !meta.HasIdentity() {
		return "", false, nil
	}

	segments := make([]string, len(meta.IdentityFields))
	absent := 0
	for i, f := range meta.IdentityFields {
		v := f.Get(entity)
		if v == nil {
			absent++
			continue
		}
		segments[i] = stringify(v)
	}

	if absent == len(meta.IdentityFields) && b.Strict {
		return "", false, fmt.Errorf("%w: type %q", ErrIncompleteIdentity, meta.Type)
	}

	return strings.Join(segments, b.Delimiter), true, nil
}

// RoutingKey returns the entity's routing key, or false when no routing field
// is declared or its value is absent.
func (b Builder) RoutingKey(meta *schema.Metadata, entity any) (string, bool) {
	if meta.Routing == nil {
		return "", false
	}
	v := meta.Routing.Get(entity)
	if v == nil {
		return "", false
	}
	return stringify(v), true
}

// PrimaryKey composes a primary key with the default builder
func PrimaryKey(meta *schema.Metadata, entity any) (string, bool) {
	key, ok, _ := NewBuilder().PrimaryKey(meta, entity)
	return key, ok
}

// RoutingKey returns a routing key with the default builder
func RoutingKey(meta *schema.Metadata, entity any) (string, bool) {
	return NewBuilder().RoutingKey(meta, entity)
}

// stringify renders a field value as a key segment. Floats are formatted in
// plain decimal because JSON decoding hands numeric fields to us as float64,
// and %v would switch to exponent notation for large values.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
