package rcstr

import (
	"sync"
	"sync/atomic"
)

// Allocator hands out and takes back the byte buffers behind owned strings.
// Alloc must return a slice of exactly n bytes; running out of memory is not
// reported as an error. Free receives each buffer exactly once.
type Allocator interface {
	Alloc(n int) []byte
	Free(buf []byte)
}

// HeapAllocator allocates with make and lets the garbage collector reclaim
// freed buffers.
type HeapAllocator struct{}

// Alloc returns a fresh buffer of n bytes.
func (HeapAllocator) Alloc(n int) []byte { return make([]byte, n) }

// Free drops the buffer.
func (HeapAllocator) Free([]byte) {}

// Pool size tiers.
const (
	Size32  = 1 << 5
	Size128 = 1 << 7
	Size512 = 1 << 9
	Size4K  = 1 << 12
	Size64K = 1 << 16
)

var poolTiers = [...]int{Size32, Size128, Size512, Size4K, Size64K}

// PoolAllocator recycles buffers through size-tiered sync.Pools. Requests
// above the largest tier are allocated directly and never pooled.
type PoolAllocator struct {
	pools [len(poolTiers)]sync.Pool
}

// NewPoolAllocator returns a ready PoolAllocator.
func NewPoolAllocator() *PoolAllocator {
	p := &PoolAllocator{}
	for i, size := range poolTiers {
		p.pools[i].New = func() any { return make([]byte, size) }
	}
	return p
}

func tierFor(n int) int {
	for i, size := range poolTiers {
		if n <= size {
			return i
		}
	}
	return -1
}

// Alloc returns an n-byte buffer, pooled when n fits a tier.
func (p *PoolAllocator) Alloc(n int) []byte {
	i := tierFor(n)
	if i < 0 {
		return make([]byte, n)
	}
	return p.pools[i].Get().([]byte)[:n]
}

// Free returns buf to the pool matching its capacity.
func (p *PoolAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	for i, size := range poolTiers {
		if cap(buf) == size {
			p.pools[i].Put(buf[:size])
			return
		}
	}
	// oversized: left to the GC
}

// Stats is a snapshot of a CountingAllocator.
type Stats struct {
	Allocs     uint64
	Frees      uint64
	LiveBlocks int64
	LiveBytes  int64
}

// CountingAllocator wraps another Allocator and counts its traffic.
// Counters are atomic, so one CountingAllocator may serve several goroutines.
type CountingAllocator struct {
	next       Allocator
	allocs     atomic.Uint64
	frees      atomic.Uint64
	liveBlocks atomic.Int64
	liveBytes  atomic.Int64
}

// NewCountingAllocator wraps next; nil means HeapAllocator.
func NewCountingAllocator(next Allocator) *CountingAllocator {
	if next == nil {
		next = HeapAllocator{}
	}
	return &CountingAllocator{next: next}
}

// Alloc forwards to the wrapped allocator and records the allocation.
func (c *CountingAllocator) Alloc(n int) []byte {
	buf := c.next.Alloc(n)
	c.allocs.Add(1)
	c.liveBlocks.Add(1)
	c.liveBytes.Add(int64(len(buf)))
	return buf
}

// Free records the release and forwards to the wrapped allocator.
func (c *CountingAllocator) Free(buf []byte) {
	c.frees.Add(1)
	c.liveBlocks.Add(-1)
	c.liveBytes.Add(-int64(len(buf)))
	c.next.Free(buf)
}

// Stats returns the current counters.
func (c *CountingAllocator) Stats() Stats {
	return Stats{
		Allocs:     c.allocs.Load(),
		Frees:      c.frees.Load(),
		LiveBlocks: c.liveBlocks.Load(),
		LiveBytes:  c.liveBytes.Load(),
	}
}

type allocatorBox struct{ Allocator }

var defaultAllocator atomic.Pointer[allocatorBox]

func init() {
	defaultAllocator.Store(&allocatorBox{HeapAllocator{}})
}

// DefaultAllocator returns the allocator used by CopyFrom, CopyBytes and
// CopyString.
func DefaultAllocator() Allocator {
	return defaultAllocator.Load().Allocator
}

// SetDefaultAllocator replaces the default allocator and returns the old
// one. Blocks always go back to the allocator that created them, so the
// switch is safe while owned strings are alive. A nil alloc restores
// HeapAllocator.
func SetDefaultAllocator(alloc Allocator) Allocator {
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	return defaultAllocator.Swap(&allocatorBox{alloc}).Allocator
}
