package source

import (
	"bytes"
	"unsafe"

	"strand/internal/rcstr"
)

// Interner deduplicates byte strings into shared owned handles.
//
// The interner keeps one owner of every distinct string and hands out clones,
// so equal identifiers across a file share a single block. Map keys alias the
// block bytes and stay valid until Release. Not safe for concurrent use.
type Interner struct {
	factory rcstr.Factory
	index   map[string]rcstr.String
	lookups int
	hits    int
}

// NewInterner returns an interner allocating through factory.
func NewInterner(factory rcstr.Factory) *Interner {
	return &Interner{
		factory: factory,
		index:   make(map[string]rcstr.String),
	}
}

// Intern returns a handle to b's content; the caller owns it and must
// Release it. Content stops at the first NUL; the empty string is returned
// borrowed.
func (i *Interner) Intern(b []byte) rcstr.String {
	if j := bytes.IndexByte(b, 0); j >= 0 {
		b = b[:j]
	}
	if len(b) == 0 {
		return rcstr.Empty()
	}
	i.lookups++
	if s, ok := i.index[string(b)]; ok {
		i.hits++
		return s.Clone()
	}
	s := i.factory.CopyBytes(b)
	key := s.Bytes()
	i.index[unsafe.String(&key[0], len(key))] = s
	return s.Clone()
}

// InternString is Intern for a Go string.
func (i *Interner) InternString(s string) rcstr.String {
	return i.Intern(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// Lookup returns a new handle for s if it was interned before.
func (i *Interner) Lookup(s string) (rcstr.String, bool) {
	h, ok := i.index[s]
	if !ok {
		return rcstr.Empty(), false
	}
	return h.Clone(), true
}

// Len returns the number of distinct strings held.
func (i *Interner) Len() int {
	return len(i.index)
}

// Hits returns how many Intern calls were served from the table, out of how
// many non-empty lookups.
func (i *Interner) Hits() (hits, lookups int) {
	return i.hits, i.lookups
}

// Release drops the interner's owners. Handles previously returned stay
// valid; the interner is empty afterwards.
func (i *Interner) Release() {
	held := make([]rcstr.String, 0, len(i.index))
	for _, s := range i.index {
		held = append(held, s)
	}
	clear(i.index)
	for _, s := range held {
		s.Release()
	}
}
