package lexer

import (
	"strings"
	"testing"

	"strand/internal/diag"
	"strand/internal/source"
	"strand/internal/token"
)

func TestTokenTooLongSkipsRestOfFile(t *testing.T) {
	long := strings.Repeat("a", maxTokenLength+1)
	fs := source.NewFileSet()
	id := fs.AddVirtual("long.js", []byte(long+" b c"))
	bag := diag.NewBag(10)
	defer bag.Release()

	lx := New(fs.Get(id), Options{Reporter: &diag.BagReporter{Bag: bag}})
	defer lx.Close()

	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("kind = %v, want Invalid", tok.Kind)
	}
	if tok.Text.IsOwned() {
		t.Fatal("oversized token must not allocate its text")
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Fatalf("expected EOF after oversized token, got %v", next.Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexTokenTooLong {
		t.Fatal("expected one LexTokenTooLong")
	}
}

func TestMaxTokenLengthOption(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("opt.js", []byte(`"0123456789"`))
	bag := diag.NewBag(10)
	defer bag.Release()

	lx := New(fs.Get(id), Options{Reporter: &diag.BagReporter{Bag: bag}, MaxTokenLength: 4})
	defer lx.Close()
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("kind = %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic")
	}
}

func TestUnterminatedOversizedLiteralReportsOnce(t *testing.T) {
	for _, src := range []string{`"0123456789`, "`0123456789"} {
		fs := source.NewFileSet()
		id := fs.AddVirtual("open.js", []byte(src))
		bag := diag.NewBag(10)

		lx := New(fs.Get(id), Options{Reporter: &diag.BagReporter{Bag: bag}, MaxTokenLength: 4})
		if tok := lx.Next(); tok.Kind != token.Invalid {
			t.Errorf("%q: kind = %v", src, tok.Kind)
		}
		if bag.Len() != 1 || bag.Items()[0].Code != diag.LexTokenTooLong {
			t.Errorf("%q: want one LexTokenTooLong, got %d diagnostics", src, bag.Len())
		}
		lx.Close()
		bag.Release()
	}
}
