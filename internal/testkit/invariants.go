package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"strand/internal/source"
	"strand/internal/token"
)

// CheckTokenInvariants runs span and text invariants on a lexed file:
// 1) every span points at sf and lies within its content
// 2) spans are ordered and do not overlap
// 3) a non-empty token text equals its source bytes unless the lexeme holds
// a NUL or the identifier was normalized
// 4) the stream ends with exactly one EOF
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var last uint32
	for i, tok := range toks {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span points to file %d, want %d", i, sp.File, sf.ID)
		}
		if !sp.Within(lenContent) {
			return fmt.Errorf("token %d: span %d..%d outside content (len %d)", i, sp.Start, sp.End, lenContent)
		}
		if sp.Start < last {
			return fmt.Errorf("token %d: span starts at %d before previous end %d", i, sp.Start, last)
		}
		last = sp.End

		if tok.Kind == token.EOF {
			if i != len(toks)-1 {
				return fmt.Errorf("token %d: EOF before end of stream", i)
			}
			continue
		}
		raw := sf.Content[sp.Start:sp.End]
		if tok.Text.Len() == 0 || bytes.IndexByte(raw, 0) >= 0 {
			continue
		}
		if tok.Kind == token.Ident && !bytes.Equal(tok.Text.Bytes(), raw) {
			// normalized identifiers may differ from their source
			continue
		}
		if !bytes.Equal(tok.Text.Bytes(), raw) {
			return fmt.Errorf("token %d (%s): text %q does not match source %q", i, tok.Kind, tok.Text.Bytes(), raw)
		}
	}
	if toks[len(toks)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	return nil
}
