package fuzztests

import (
	"testing"

	"strand/internal/diag"
	"strand/internal/lexer"
	"strand/internal/rcstr"
	"strand/internal/source"
	"strand/internal/testkit"
	"strand/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(append([]byte(nil), input...))

		counting := rcstr.NewCountingAllocator(nil)
		prev := rcstr.SetDefaultAllocator(counting)
		defer rcstr.SetDefaultAllocator(prev)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.js", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{
			Reporter: &diag.BagReporter{Bag: bag},
			Factory:  rcstr.NewFactory(counting),
		})
		toks := lx.All()
		lx.Close()

		if err := testkit.CheckTokenInvariants(toks, file); err != nil {
			t.Fatal(err)
		}

		token.ReleaseAll(toks)
		bag.Release()
		if st := counting.Stats(); st.LiveBlocks != 0 || st.Allocs != st.Frees {
			t.Fatalf("leaked blocks: %+v", st)
		}
	})
}
