package lexer

import (
	"strand/internal/diag"
	"strand/internal/rcstr"
	"strand/internal/source"
	"strand/internal/token"
)

// Lexer turns a source.File into tokens. Tokens returned by Next belong to
// the caller, who releases them (token.ReleaseAll).
type Lexer struct {
	file     *source.File
	cursor   Cursor
	opts     Options
	interner *source.Interner
	private  bool         // interner created by New
	look     *token.Token // one-token lookahead
}

func New(file *source.File, opts Options) *Lexer {
	lx := &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		opts:     opts,
		interner: opts.Interner,
	}
	if lx.interner == nil {
		lx.interner = source.NewInterner(opts.Factory)
		lx.private = true
	}
	return lx
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	case ch == '`':
		return lx.scanTemplate()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it. The returned value is a
// view: it stays owned by the lexer until Next hands it out.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		t := lx.Next()
		lx.look = &t
	}
	return *lx.look
}

// All lexes up to and including EOF.
func (lx *Lexer) All() []token.Token {
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Interner returns the interner used for identifiers.
func (lx *Lexer) Interner() *source.Interner {
	return lx.interner
}

// Close releases a pending lookahead token and the private interner.
// Tokens already returned stay valid.
func (lx *Lexer) Close() {
	if lx.look != nil {
		lx.look.Release()
		lx.look = nil
	}
	if lx.private {
		lx.interner.Release()
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) maxLen() uint32 {
	if lx.opts.MaxTokenLength > 0 {
		return uint32(lx.opts.MaxTokenLength)
	}
	return maxTokenLength
}

// owned copies the lexeme under sp into a new block.
func (lx *Lexer) owned(sp source.Span) rcstr.String {
	return lx.opts.Factory.CopyBytes(lx.file.Slice(sp))
}

// finish builds the token for sp, enforcing the length limit.
func (lx *Lexer) finish(kind token.Kind, sp source.Span, text func() rcstr.String) token.Token {
	if sp.Len() > lx.maxLen() {
		lx.errLex(diag.LexTokenTooLong, sp, "token too long\x00")
		lx.cursor.SkipToEOF()
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	return token.Token{Kind: kind, Span: sp, Text: text()}
}

// unterminated reports an unclosed literal. An oversized one is reported
// once, as too long.
func (lx *Lexer) unterminated(sp source.Span, msg string) token.Token {
	if sp.Len() <= lx.maxLen() {
		lx.errLex(diag.LexUnterminatedString, sp, msg)
	}
	return lx.finish(token.Invalid, sp, func() rcstr.String { return lx.owned(sp) })
}
