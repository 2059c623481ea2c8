package lexer

import (
	"testing"
	"unicode/utf8"

	"strand/internal/source"
)

func TestCursorLookahead(t *testing.T) {
	fs := source.NewFileSet()
	c := NewCursor(fs.Get(fs.AddVirtual("c.js", []byte("aé*/"))))

	if c.At(0) != 'a' || c.At(3) != '*' || c.At(5) != 0 {
		t.Fatalf("At: %q %q %q", c.At(0), c.At(3), c.At(5))
	}
	start := c.Mark()
	c.Bump()
	if r, size := c.Rune(); r != 'é' || size != 2 {
		t.Fatalf("Rune = %q, %d", r, size)
	}
	c.Advance(2)
	if !c.HasPrefix("*/") || c.HasPrefix("*/x") {
		t.Fatal("HasPrefix")
	}
	if sp := c.SpanFrom(start); sp.Start != 0 || sp.End != 3 {
		t.Fatalf("span = %v", sp)
	}
	c.Advance(10)
	if !c.EOF() || c.Bump() != 0 || c.Eat('x') {
		t.Fatal("cursor should stay at EOF")
	}
	if r, size := c.Rune(); r != utf8.RuneError || size != 0 {
		t.Fatalf("Rune at EOF = %q, %d", r, size)
	}
	c.Reset(start)
	if !c.Eat('a') {
		t.Fatal("Eat after Reset")
	}
}
