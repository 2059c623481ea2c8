package rcstr

import (
	"bytes"
	"unsafe"
)

// Mode reports how a String holds its bytes.
type Mode uint8

const (
	// Borrowed strings point at memory they do not manage.
	Borrowed Mode = iota
	// Owned strings share a reference-counted block.
	Owned
)

func (m Mode) String() string {
	switch m {
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}

// emptyCString lives in read-only string data, so it stays "" for everyone.
var emptyCString = unsafe.StringData("\x00")

// String is a NUL-terminated byte string that either borrows or owns its
// storage. See the package documentation for the lifecycle methods.
type String struct {
	data *byte  // first content byte; nil means the empty string
	blk  *block // nil for borrowed strings
}

// Empty returns the empty borrowed string. It is equal to the zero value.
func Empty() String { return String{} }

// Adopt borrows the NUL-terminated string at p without copying it.
// A nil p yields the empty string.
func Adopt(p *byte) String {
	return String{data: p}
}

// AdoptBytes borrows b, which must end with a NUL byte. The content seen
// through the handle stops at the first NUL in b.
func AdoptBytes(b []byte) String {
	if len(b) == 0 || b[len(b)-1] != 0 {
		panic("rcstr: AdoptBytes requires a NUL-terminated slice")
	}
	return String{data: &b[0]}
}

// AdoptString borrows a Go string that ends with a NUL byte, typically a
// string literal such as "while\x00".
func AdoptString(s string) String {
	if len(s) == 0 || s[len(s)-1] != 0 {
		panic("rcstr: AdoptString requires a NUL-terminated string")
	}
	return String{data: unsafe.StringData(s)}
}

// CopyFrom copies the NUL-terminated string at p into a new block owned by
// the returned handle, using the default allocator.
func CopyFrom(p *byte) String { return Factory{}.CopyFrom(p) }

// CopyBytes copies b into a new owned block using the default allocator.
func CopyBytes(b []byte) String { return Factory{}.CopyBytes(b) }

// CopyString copies s into a new owned block using the default allocator.
func CopyString(s string) String { return Factory{}.CopyString(s) }

// Mode reports whether s is borrowed or owned.
func (s String) Mode() Mode {
	if s.blk != nil {
		return Owned
	}
	return Borrowed
}

// IsOwned reports whether s shares a reference-counted block.
func (s String) IsOwned() bool { return s.blk != nil }

// Owners returns how many handles share s's block, or 0 for borrowed strings.
func (s String) Owners() int {
	if s.blk == nil {
		return 0
	}
	s.blk.check()
	return int(s.blk.refs) + 1
}

// View returns a pointer to the NUL-terminated content. It stays valid while
// s or any of its clones is alive and must not be written through.
func (s String) View() *byte {
	if s.blk != nil {
		s.blk.check()
	}
	if s.data == nil {
		return emptyCString
	}
	return s.data
}

// Bytes returns the content without the terminator. The slice aliases the
// handle's storage and is read-only.
func (s String) Bytes() []byte {
	if s.blk != nil {
		return s.blk.content()
	}
	if s.data == nil {
		return nil
	}
	return unsafe.Slice(s.data, cstrlen(s.data))
}

// Len returns the content length in bytes. It is O(n) for borrowed strings.
func (s String) Len() int {
	if s.blk != nil {
		return len(s.blk.content())
	}
	if s.data == nil {
		return 0
	}
	return cstrlen(s.data)
}

// String returns a Go copy of the content.
func (s String) String() string {
	return string(s.Bytes())
}

// Equal reports whether s and other hold the same bytes.
func (s String) Equal(other String) bool {
	if s.data == other.data {
		return true
	}
	return bytes.Equal(s.Bytes(), other.Bytes())
}

// Clone returns a new handle to the same content. Owned strings gain an
// owner; overflowing the owner count panics.
func (s String) Clone() String {
	if s.blk != nil {
		s.blk.increment()
	}
	return s
}

// Assign makes s a copy of src, releasing whatever s held before.
// Assigning a handle to itself is a no-op.
func (s *String) Assign(src String) {
	if s.data == src.data && s.blk == src.blk {
		return
	}
	s.Release()
	*s = src.Clone()
}

// Take moves the handle out of s, leaving s empty. The owner count does not
// change.
func (s *String) Take() String {
	out := *s
	*s = String{}
	return out
}

// MoveFrom releases s's referent and moves src into s, leaving src empty.
// Moving a handle into itself is a no-op.
func (s *String) MoveFrom(src *String) {
	if s == src {
		return
	}
	s.Release()
	*s = src.Take()
}

// Release drops s's ownership and resets s to the empty string. The block is
// freed when s was its last owner. Releasing a borrowed or empty string only
// resets it.
func (s *String) Release() {
	if s.blk != nil {
		s.blk.decrement()
	}
	*s = String{}
}

func cstrlen(p *byte) int {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return n
}
