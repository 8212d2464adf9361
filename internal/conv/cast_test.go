package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToInt32(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := Int64ToInt32(27621)
		assert.NoError(t, err)
		assert.Equal(t, int32(27621), got)
	})

	t.Run("valid bounds", func(t *testing.T) {
		got, err := Int64ToInt32(math.MinInt32)
		assert.NoError(t, err)
		assert.Equal(t, int32(math.MinInt32), got)

		got, err = Int64ToInt32(math.MaxInt32)
		assert.NoError(t, err)
		assert.Equal(t, int32(math.MaxInt32), got)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := Int64ToInt32(8589934593)
		assert.Error(t, err)
	})

	t.Run("too small", func(t *testing.T) {
		_, err := Int64ToInt32(math.MinInt32 - 1)
		assert.Error(t, err)
	})
}

func TestIntToUint32(t *testing.T) {
	got, err := IntToUint32(123)
	assert.NoError(t, err)
	assert.Equal(t, uint32(123), got)

	_, err = IntToUint32(-1)
	assert.Error(t, err)
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(128)
	assert.NoError(t, err)
	assert.Equal(t, 128, got)

	_, err = Uint64ToInt(math.MaxUint64)
	assert.Error(t, err)
}
