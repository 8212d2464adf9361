// Package field describes the per-entity data the id map translates.
//
// A Field is an opaque record as far as the map is concerned: only its basic
// value kind, its role and its element count decide whether id translation
// applies.
package field

import "fmt"

// BasicType is the storage kind of a field's values.
type BasicType uint8

const (
	Invalid BasicType = iota
	Real
	// Integer is a 32-bit signed integer field.
	Integer
	// Int64 is a 64-bit signed integer field.
	Int64
	String
	Character
)

func (t BasicType) String() string {
	switch t {
	case Real:
		return "real"
	case Integer:
		return "integer"
	case Int64:
		return "int64"
	case String:
		return "string"
	case Character:
		return "character"
	default:
		return "invalid"
	}
}

// Size returns the size in bytes of a single value, or 0 for variable sized kinds.
func (t BasicType) Size() int {
	switch t {
	case Real, Int64:
		return 8
	case Integer:
		return 4
	case Character:
		return 1
	default:
		return 0
	}
}

// Role is what a field is used for.
type Role uint8

const (
	Internal Role = iota
	Mesh
	Attribute
	Map
	Communication
	Reduction
	Transient
)

func (r Role) String() string {
	switch r {
	case Internal:
		return "internal"
	case Mesh:
		return "mesh"
	case Attribute:
		return "attribute"
	case Map:
		return "map"
	case Communication:
		return "communication"
	case Reduction:
		return "reduction"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Field is a named, typed array of per-entity values.
type Field struct {
	Name string
	Type BasicType
	Role Role
	// Count is the number of entities the field covers.
	Count int
	// Components is the number of values per entity. Zero is treated as one.
	Components int
}

// New returns a scalar field.
func New(name string, typ BasicType, role Role, count int) Field {
	return Field{
		Name:       name,
		Type:       typ,
		Role:       role,
		Count:      count,
		Components: 1,
	}
}

// RawCount returns the total number of values stored for the field.
func (f Field) RawCount() int {
	return f.Count * max(f.Components, 1)
}

// IsID reports whether the field's values are entity ids subject to
// global/local translation.
func (f Field) IsID() bool {
	if f.Type != Integer && f.Type != Int64 {
		return false
	}
	return f.Role == Mesh || f.Role == Map
}

func (f Field) String() string {
	return fmt.Sprintf("%s(%s, %s, %d)", f.Name, f.Type, f.Role, f.Count)
}
