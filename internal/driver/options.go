package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"strand/internal/diag"
	"strand/internal/lexer"
	"strand/internal/observ"
	"strand/internal/rcstr"
	"strand/internal/source"
)

// Options controls Tokenize and TokenizeDir.
type Options struct {
	MaxDiagnostics  int
	Jobs            int      // 0 means GOMAXPROCS
	Extensions      []string // for TokenizeDir; default ".js"
	NormalizeIdents bool
	MaxTokenLength  int
	// MinSeverity drops diagnostics below it; duplicates are always dropped.
	MinSeverity diag.Severity
	// Mapped loads files with mmap where possible.
	Mapped bool
	// KeepTokens retains token streams in TokenizeDir results. Without it
	// tokens are summarized and released right after lexing.
	KeepTokens bool
	Factory    rcstr.Factory
	Cache      *DiskCache
	Progress   ProgressSink
	Timer      *observ.Timer
}

func (o Options) lexerOptions(bag *diag.Bag, interner *source.Interner) lexer.Options {
	return lexer.Options{
		Reporter:        diag.NewFilterReporter(diag.BagReporter{Bag: bag}, o.MinSeverity),
		Interner:        interner,
		Factory:         o.Factory,
		NormalizeIdents: o.NormalizeIdents,
		MaxTokenLength:  o.MaxTokenLength,
	}
}

func (o Options) load(fs *source.FileSet, path string) (source.FileID, error) {
	if o.Mapped {
		return fs.LoadMapped(path)
	}
	return fs.Load(path)
}

// track starts a timer phase; it is a no-op without a Timer.
func (o Options) track(name string) func(note string) {
	if o.Timer == nil {
		return func(string) {}
	}
	return o.Timer.Track(name)
}

// cacheKey mixes the file digest with every option that changes the
// lexer's output or the diagnostics kept from it.
func (o Options) cacheKey(content [32]byte) [32]byte {
	h := sha256.New()
	_, _ = h.Write(content[:])
	var buf [20]byte
	binary.LittleEndian.PutUint16(buf[0:], diskCacheSchemaVersion)
	if o.NormalizeIdents {
		buf[2] = 1
	}
	binary.LittleEndian.PutUint64(buf[3:], uint64(o.MaxTokenLength))
	buf[11] = byte(o.MinSeverity)
	binary.LittleEndian.PutUint64(buf[12:], uint64(max(o.MaxDiagnostics, 0)))
	_, _ = h.Write(buf[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
