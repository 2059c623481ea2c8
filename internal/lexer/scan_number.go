package lexer

import (
	"strand/internal/diag"
	"strand/internal/rcstr"
	"strand/internal/token"
)

func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.At(1))
}

// scanNumber reads decimal, hex (0x), octal (0o) and binary (0b) literals
// with '_' separators, an optional fraction and exponent, and the BigInt 'n'
// suffix. Malformed literals are reported but still produce a Number token.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	bad := false

	if b1 := lx.cursor.At(1); lx.cursor.Peek() == '0' && isRadixMarker(b1) {
		lx.cursor.Advance(2)
		digit := isHex
		switch b1 {
		case 'o', 'O':
			digit = isOct
		case 'b', 'B':
			digit = isBin
		}
		if !lx.scanDigits(digit) {
			bad = true
		}
		lx.cursor.Eat('n')
	} else {
		integer := false
		if isDec(lx.cursor.Peek()) {
			bad = !lx.scanDigits(isDec)
			integer = true
		}
		if lx.cursor.Peek() == '.' {
			integer = false
			lx.cursor.Bump()
			if isDec(lx.cursor.Peek()) && !lx.scanDigits(isDec) {
				bad = true
			}
		}
		if ch := lx.cursor.Peek(); ch == 'e' || ch == 'E' {
			integer = false
			lx.cursor.Bump()
			if ch := lx.cursor.Peek(); ch == '+' || ch == '-' {
				lx.cursor.Bump()
			}
			if !lx.scanDigits(isDec) {
				bad = true
			}
		}
		if integer {
			lx.cursor.Eat('n')
		}
	}

	// A number glued to an identifier ("3in", "0x1g") is one bad literal.
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
		bad = true
	}

	sp := lx.cursor.SpanFrom(start)
	if bad && sp.Len() <= lx.maxLen() {
		lx.report(diag.LexBadNumber, diag.SevError, sp,
			diag.Msgf("malformed number literal %q", lx.file.Slice(sp)))
	}
	return lx.finish(token.Number, sp, func() rcstr.String { return lx.owned(sp) })
}

// scanDigits consumes digits and single '_' separators between them. It
// reports false when no digit was read or a separator is misplaced.
func (lx *Lexer) scanDigits(digit func(byte) bool) bool {
	seen := false
	prevSep := false
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case digit(ch):
			seen = true
			prevSep = false
		case ch == '_':
			if !seen || prevSep {
				lx.cursor.Bump()
				return false
			}
			prevSep = true
		default:
			return seen && !prevSep
		}
		lx.cursor.Bump()
	}
	return seen && !prevSep
}

func isRadixMarker(b byte) bool {
	switch b {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

