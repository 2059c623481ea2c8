package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"strand/internal/source"
)

// Cursor walks the bytes of one file. Lookahead past the end reads as 0,
// which never matches a token byte.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor positions a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// At returns the byte k positions ahead, or 0 past the end.
func (c *Cursor) At(k uint32) byte {
	if k >= c.Limit-min(c.Off, c.Limit) {
		return 0
	}
	return c.File.Content[c.Off+k]
}

// Peek is At(0).
func (c *Cursor) Peek() byte { return c.At(0) }

// HasPrefix reports whether the remaining input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	if uint32(len(s)) > c.Limit-min(c.Off, c.Limit) {
		return false
	}
	return string(c.File.Content[c.Off:c.Off+uint32(len(s))]) == s
}

// Rune decodes the rune at the cursor. Invalid UTF-8 yields
// (utf8.RuneError, 1); EOF yields (utf8.RuneError, 0).
func (c *Cursor) Rune() (rune, int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// Advance moves n bytes forward, stopping at the limit.
func (c *Cursor) Advance(n int) {
	c.Off = min(c.Off+uint32(n), c.Limit)
}

// Bump advances one byte and returns the byte it stepped over.
func (c *Cursor) Bump() byte {
	b := c.At(0)
	c.Advance(1)
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Mark is a saved offset used to build spans.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// SkipToEOF moves the cursor to the end of input.
func (c *Cursor) SkipToEOF() { c.Off = c.Limit }
