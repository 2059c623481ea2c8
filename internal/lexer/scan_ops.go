package lexer

import (
	"strand/internal/token"
)

type opEntry struct {
	text string
	kind token.Kind
}

// Longest spellings first within each table.
var (
	ops3 = []opEntry{
		{"...", token.DotDotDot},
		{"===", token.EqEqEq},
		{"!==", token.BangEqEq},
		{">>>", token.UShr},
	}
	ops2 = []opEntry{
		{"?.", token.QuestionDot},
		{"??", token.QuestionQuestion},
		{"=>", token.Arrow},
		{"==", token.EqEq},
		{"!=", token.BangEq},
		{"<=", token.LtEq},
		{">=", token.GtEq},
		{"<<", token.Shl},
		{">>", token.Shr},
		{"**", token.StarStar},
		{"++", token.PlusPlus},
		{"--", token.MinusMinus},
		{"&&", token.AndAnd},
		{"||", token.OrOr},
		{"+=", token.PlusAssign},
		{"-=", token.MinusAssign},
		{"*=", token.StarAssign},
		{"/=", token.SlashAssign},
		{"%=", token.PercentAssign},
		{"&=", token.AmpAssign},
		{"|=", token.PipeAssign},
		{"^=", token.CaretAssign},
	}
	ops1 = [utf8RuneSelf]token.Kind{
		'(': token.LParen,
		')': token.RParen,
		'{': token.LBrace,
		'}': token.RBrace,
		'[': token.LBracket,
		']': token.RBracket,
		';': token.Semicolon,
		',': token.Comma,
		'.': token.Dot,
		':': token.Colon,
		'?': token.Question,
		'=': token.Assign,
		'!': token.Bang,
		'<': token.Lt,
		'>': token.Gt,
		'+': token.Plus,
		'-': token.Minus,
		'*': token.Star,
		'/': token.Slash,
		'%': token.Percent,
		'&': token.Amp,
		'|': token.Pipe,
		'^': token.Caret,
		'~': token.Tilde,
		'@': token.At,
		'#': token.Hash,
	}
)

// scanOperatorOrPunct matches greedily: three bytes, then two, then one.
// A slash is always an operator; regular expression literals are not lexed.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	b0, b1, b2 := lx.cursor.At(0), lx.cursor.At(1), lx.cursor.At(2)
	if kind, hit := match(ops3, b0, b1, b2); hit {
		lx.cursor.Advance(3)
		return lx.fixed(kind, start)
	}
	if kind, hit := match(ops2, b0, b1, 0); hit && !lx.optionalChainBeforeDigit(kind) {
		lx.cursor.Advance(2)
		return lx.fixed(kind, start)
	}
	ch := lx.cursor.Peek()
	if ch < utf8RuneSelf {
		if kind := ops1[ch]; kind != token.Invalid {
			lx.cursor.Bump()
			return lx.fixed(kind, start)
		}
	}
	return lx.scanUnknown()
}

func (lx *Lexer) fixed(kind token.Kind, start Mark) token.Token {
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: kind.Text()}
}

// "a?.5:b" is a conditional, not optional chaining.
func (lx *Lexer) optionalChainBeforeDigit(kind token.Kind) bool {
	if kind != token.QuestionDot {
		return false
	}
	return isDec(lx.cursor.At(2))
}

func match(table []opEntry, b0, b1, b2 byte) (token.Kind, bool) {
	for _, op := range table {
		if op.text[0] != b0 || op.text[1] != b1 {
			continue
		}
		if len(op.text) == 3 && op.text[2] != b2 {
			continue
		}
		return op.kind, true
	}
	return token.Invalid, false
}
