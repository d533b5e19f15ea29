// Package schema turns declarative entity descriptors into the immutable
// per-type metadata the identity builder and repository consume. Field values
// are read through explicit accessor functions, which covers stored fields
// and computed fields uniformly without reflection.
package schema

// Role describes how a declared field participates in document placement
type Role int

const (
	// RoleIdentity marks a field whose value contributes to the primary key
	RoleIdentity Role = iota

	// RoleRouting marks the field whose value pins the document to a shard
	RoleRouting

	// RoleTime marks the field whose value places the document in a time bucket
	RoleTime
)

// Accessor reads a field value from an entity instance. A nil result means
// the value is absent.
type Accessor func(entity any) any

// Field is one declared (name, role, sequence, accessor) entry
type Field struct {
	Name     string
	Role     Role
	Sequence int
	Get      Accessor
}

// Descriptor declares the identity, routing and time fields of one entity
// type. Build it once at registration time and resolve it through a Registry.
type Descriptor struct {
	typeName string
	fields   []Field
}

// NewDescriptor creates an empty descriptor for the named entity type
func NewDescriptor(typeName string) *Descriptor {
	return &Descriptor{typeName: typeName}
}

// TypeName returns the entity type the descriptor describes
func (d *Descriptor) TypeName() string {
	return d.typeName
}

// Identity declares an identity field. Sequence orders the field within the
// composite primary key; ties break on the field name. The same underlying
// field may also be declared as the routing field.
func (d *Descriptor) Identity(name string, sequence int, get Accessor) *Descriptor {
	d.fields = append(d.fields, Field{Name: name, Role: RoleIdentity, Sequence: sequence, Get: get})
	return d
}

// Routing declares the routing field. Declaring it more than once keeps the
// last declaration.
func (d *Descriptor) Routing(name string, get Accessor) *Descriptor {
	d.fields = append(d.fields, Field{Name: name, Role: RoleRouting, Get: get})
	return d
}

// Time declares the field that places documents in time buckets
func (d *Descriptor) Time(name string, get Accessor) *Descriptor {
	d.fields = append(d.fields, Field{Name: name, Role: RoleTime, Get: get})
	return d
}
