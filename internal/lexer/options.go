package lexer

import (
	"strand/internal/diag"
	"strand/internal/rcstr"
	"strand/internal/source"
)

// maxTokenLength bounds a single lexeme; longer input is reported and the
// rest of the file is skipped.
const maxTokenLength = 64 * 1024

type Options struct {
	// Reporter receives lexical diagnostics; nil drops them.
	Reporter diag.Reporter
	// Interner shares identifier texts. When nil the lexer uses a private
	// interner released by Close.
	Interner *source.Interner
	// Factory allocates literal texts. The zero value uses the default allocator.
	Factory rcstr.Factory
	// NormalizeIdents rewrites identifiers to NFC and warns about the
	// original spelling.
	NormalizeIdents bool
	// MaxTokenLength overrides maxTokenLength when positive.
	MaxTokenLength int
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.report(code, diag.SevError, sp, diag.Static(msg))
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg rcstr.String) {
	if lx.opts.Reporter == nil {
		msg.Release()
		return
	}
	lx.opts.Reporter.Report(code, sev, sp, msg, nil)
}
