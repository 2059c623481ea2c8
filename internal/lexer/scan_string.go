package lexer

import (
	"strand/internal/rcstr"
	"strand/internal/token"
)

// scanString reads a single- or double-quoted literal. The token text is the
// raw lexeme including quotes; escapes are validated only for shape.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()

	for {
		if lx.cursor.EOF() || isLineTerminator(lx.cursor.Peek()) {
			return lx.unterminated(lx.cursor.SpanFrom(start), "unterminated string literal\x00")
		}
		ch := lx.cursor.Bump()
		switch ch {
		case quote:
			sp := lx.cursor.SpanFrom(start)
			return lx.finish(token.String, sp, func() rcstr.String { return lx.owned(sp) })
		case '\\':
			// Any escaped byte, including a line continuation.
			if lx.cursor.Bump() == '\r' {
				lx.cursor.Eat('\n')
			}
		}
	}
}

// scanTemplate reads a backtick literal. Substitutions are kept verbatim in
// the lexeme; a backtick inside ${...} ends the literal.
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()

	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '`':
			sp := lx.cursor.SpanFrom(start)
			return lx.finish(token.Template, sp, func() rcstr.String { return lx.owned(sp) })
		case '\\':
			lx.cursor.Bump()
		}
	}
	return lx.unterminated(lx.cursor.SpanFrom(start), "unterminated template literal\x00")
}
