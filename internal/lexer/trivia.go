package lexer

import (
	"unicode"

	"strand/internal/diag"
)

// skipTrivia drops whitespace, line comments, block comments and a leading
// "#!" line.
func (lx *Lexer) skipTrivia() {
	if lx.cursor.Off == 0 {
		if lx.cursor.HasPrefix("#!") {
			lx.skipLine()
		}
	}
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v':
			lx.cursor.Bump()
		case ch == '/':
			switch lx.cursor.At(1) {
			case '/':
				lx.skipLine()
			case '*':
				lx.skipBlockComment()
			default:
				return
			}
		case ch >= utf8RuneSelf:
			if r, size := lx.cursor.Rune(); r == '\uFEFF' || unicode.IsSpace(r) {
				lx.cursor.Advance(size)
				continue
			}
			return
		default:
			return
		}
	}
}

func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() && !isLineTerminator(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.Advance(2)
			return
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment\x00")
}
