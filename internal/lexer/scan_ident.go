package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"strand/internal/diag"
	"strand/internal/rcstr"
	"strand/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true
	first := true
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch < utf8RuneSelf {
			if !isIdentContinueByte(ch) || (first && isDec(ch)) {
				break
			}
			lx.cursor.Bump()
			first = false
			continue
		}
		r, size := lx.cursor.Rune()
		if !isIdentRune(r, first) {
			break
		}
		ascii = false
		lx.cursor.Advance(size)
		first = false
	}

	if first {
		// Not an identifier start: consume one rune and report it.
		return lx.scanUnknown()
	}

	sp := lx.cursor.SpanFrom(start)
	lexeme := lx.file.Slice(sp)
	if ascii {
		if kind, ok := token.LookupKeyword(string(lexeme)); ok {
			return token.Token{Kind: kind, Span: sp, Text: kind.Text()}
		}
	}
	return lx.finish(token.Ident, sp, func() rcstr.String {
		if !ascii && lx.opts.NormalizeIdents && !norm.NFC.IsNormal(lexeme) {
			nfc := norm.NFC.Bytes(lexeme)
			lx.report(diag.LexNonNormalizedIdent, diag.SevWarning, sp,
				diag.Msgf("identifier %q is not in NFC form, using %q", lexeme, nfc))
			return lx.interner.Intern(nfc)
		}
		return lx.interner.Intern(lexeme)
	})
}

func isIdentRune(r rune, first bool) bool {
	if r == utf8.RuneError {
		return false
	}
	if unicode.IsLetter(r) {
		return true
	}
	if first {
		return false
	}
	// ZWNJ and ZWJ are allowed after the first character.
	return unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) ||
		unicode.Is(unicode.Pc, r) || r == '\u200C' || r == '\u200D'
}

func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	_, size := lx.cursor.Rune()
	lx.cursor.Advance(max(size, 1))
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnknownChar, diag.SevError, sp,
		diag.Msgf("unknown character %q", lx.file.Slice(sp)))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.owned(sp)}
}
