// Package rcstr implements a sometimes-reference-counted, NUL-terminated
// string handle.
//
// A String either borrows a foreign byte buffer (Adopt, AdoptBytes) or owns
// a heap block shared between its copies (CopyFrom, CopyBytes, CopyString).
// Borrowing never allocates and never frees; the caller keeps the borrowed
// buffer alive and unmodified for as long as any handle derived from it is
// used. Owned handles share one block whose count is bumped by Clone and
// dropped by Release; the block goes back to its Allocator on the release
// that finds the count at the sole-owner floor.
//
// Go has no copy constructors or destructors, so the value semantics are
// spelled out as methods:
//
//	copy construct   t := s.Clone()
//	copy assign      t.Assign(s)
//	move construct   t := s.Take()
//	move assign      t.MoveFrom(&s)
//	destroy          s.Release()
//
// Copying a String with plain Go assignment does not touch the count; such a
// copy is only valid while the original is alive. The zero value is the
// empty borrowed string and needs no Release.
//
// Strings are not safe for concurrent use. Borrowed handles over immutable
// data may be read from several goroutines; owned handles must stay on one
// goroutine or be guarded by the caller.
package rcstr
