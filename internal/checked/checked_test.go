package checked_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"strand/internal/checked"
)

func TestTryIncrement(t *testing.T) {
	tests := []struct {
		name string
		in   int32
		want int32
		ok   bool
	}{
		{"zero", 0, 1, true},
		{"negative", -1, 0, true},
		{"below max", math.MaxInt32 - 1, math.MaxInt32, true},
		{"at max", math.MaxInt32, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := checked.TryIncrement(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTryIncrementUnsigned(t *testing.T) {
	got, ok := checked.TryIncrement(uint8(254))
	assert.True(t, ok)
	assert.Equal(t, uint8(255), got)

	_, ok = checked.TryIncrement(uint8(255))
	assert.False(t, ok)
}

func TestTryDecrement(t *testing.T) {
	got, ok := checked.TryDecrement(int8(-127))
	assert.True(t, ok)
	assert.Equal(t, int8(-128), got)

	_, ok = checked.TryDecrement(int8(-128))
	assert.False(t, ok)

	_, ok = checked.TryDecrement(uint32(0))
	assert.False(t, ok)
}

func TestTryAdd(t *testing.T) {
	_, ok := checked.TryAdd(int64(math.MaxInt64), 1)
	assert.False(t, ok)

	_, ok = checked.TryAdd(int64(math.MinInt64), -1)
	assert.False(t, ok)

	got, ok := checked.TryAdd(int64(40), 2)
	assert.True(t, ok)
	assert.Equal(t, int64(42), got)

	sum, ok := checked.TryAdd(10, -3)
	assert.True(t, ok)
	assert.Equal(t, 7, sum)
}
