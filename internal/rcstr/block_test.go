package rcstr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneOverflowPanics(t *testing.T) {
	s := CopyString("x")
	s.blk.refs = math.MaxInt32
	assert.Panics(t, func() { _ = s.Clone() })

	s.blk.refs = soleOwner
	s.Release()
}

func TestFreedBlockIsPoisoned(t *testing.T) {
	s := CopyString("x")
	blk := s.blk
	s.Release()
	assert.Equal(t, freed, blk.refs)
	assert.Nil(t, blk.buf)
}

type shortAllocator struct{}

func (shortAllocator) Alloc(n int) []byte { return make([]byte, n-1) }
func (shortAllocator) Free([]byte)        {}

func TestShortAllocationIsFatal(t *testing.T) {
	assert.Panics(t, func() { NewFactory(shortAllocator{}).CopyString("abc") })
}
