package rcstr

import (
	"bytes"
	"unsafe"
)

// Factory creates owned strings from a specific Allocator.
// The zero Factory uses DefaultAllocator at call time.
type Factory struct {
	alloc Allocator
}

// NewFactory returns a Factory bound to alloc. A nil alloc means the default.
func NewFactory(alloc Allocator) Factory {
	return Factory{alloc: alloc}
}

func (f Factory) allocator() Allocator {
	if f.alloc != nil {
		return f.alloc
	}
	return DefaultAllocator()
}

// CopyFrom copies the NUL-terminated string at p, terminator included.
// A nil p yields the empty string without allocating.
func (f Factory) CopyFrom(p *byte) String {
	if p == nil {
		return String{}
	}
	return f.own(unsafe.Slice(p, cstrlen(p)))
}

// CopyBytes copies b into a new block. Content after an embedded NUL is
// dropped, since readers stop at the first terminator anyway.
func (f Factory) CopyBytes(b []byte) String {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return f.own(b)
}

// CopyString is CopyBytes for a Go string.
func (f Factory) CopyString(s string) String {
	return f.CopyBytes(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (f Factory) own(content []byte) String {
	blk := newBlock(f.allocator(), content)
	return String{data: &blk.buf[0], blk: blk}
}
