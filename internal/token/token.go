package token

import (
	"strand/internal/rcstr"
	"strand/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text rcstr.String
}

// IsLiteral reports whether the token is a numeric, boolean, null or string literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool { return t.Kind.IsPunct() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Release drops the token's ownership of its text.
func (t *Token) Release() { t.Text.Release() }

// ReleaseAll releases every token in toks.
func ReleaseAll(toks []Token) {
	for i := range toks {
		toks[i].Release()
	}
}
