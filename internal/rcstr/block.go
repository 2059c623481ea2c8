package rcstr

import (
	"fmt"

	"strand/internal/checked"
)

// refCount holds owners-1: a fresh block has one owner and a count of zero.
type refCount = int32

const (
	soleOwner refCount = 0
	// freed poisons a block after it went back to its allocator.
	freed refCount = -1
)

type block struct {
	refs  refCount
	buf   []byte // content + NUL
	alloc Allocator
}

func newBlock(alloc Allocator, content []byte) *block {
	size := len(content) + 1
	buf := alloc.Alloc(size)
	if len(buf) != size {
		panic(fmt.Errorf("rcstr: allocator returned %d bytes, want %d", len(buf), size))
	}
	copy(buf, content)
	buf[len(content)] = 0
	return &block{refs: soleOwner, buf: buf, alloc: alloc}
}

func (b *block) check() {
	if b.refs == freed {
		panic("rcstr: use of a released string")
	}
}

func (b *block) increment() {
	b.check()
	next, ok := checked.TryIncrement(b.refs)
	if !ok {
		panic(fmt.Errorf("rcstr: reference count overflow at %d", b.refs))
	}
	b.refs = next
}

func (b *block) decrement() {
	b.check()
	if b.refs == soleOwner {
		buf := b.buf
		b.refs = freed
		b.buf = nil
		b.alloc.Free(buf)
		return
	}
	b.refs--
}

func (b *block) content() []byte {
	b.check()
	n := len(b.buf) - 1
	return b.buf[:n:n]
}
