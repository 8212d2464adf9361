package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField_IsID(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		want bool
	}{
		{"int mesh", New("ids", Integer, Mesh, 10), true},
		{"int64 map", New("ids", Int64, Map, 10), true},
		{"real mesh", New("coords", Real, Mesh, 10), false},
		{"int transient", New("flags", Integer, Transient, 10), false},
		{"int attribute", New("attr", Integer, Attribute, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.IsID())
		})
	}
}

func TestField_RawCount(t *testing.T) {
	assert.Equal(t, 10, New("x", Real, Mesh, 10).RawCount())
	assert.Equal(t, 30, Field{Name: "xyz", Type: Real, Role: Mesh, Count: 10, Components: 3}.RawCount())
	assert.Equal(t, 10, Field{Name: "x", Type: Real, Count: 10}.RawCount())
}

func TestBasicType_Size(t *testing.T) {
	assert.Equal(t, 4, Integer.Size())
	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, 0, String.Size())
	assert.Equal(t, "int64", Int64.String())
	assert.Equal(t, "mesh", Mesh.String())
}
