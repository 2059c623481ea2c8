package token

import (
	"strings"

	"strand/internal/rcstr"
)

// Each entry ends with NUL so the text can be borrowed as-is.
var fixedText = [kindCount]string{
	KwAwait:      "await\x00",
	KwBreak:      "break\x00",
	KwCase:       "case\x00",
	KwCatch:      "catch\x00",
	KwClass:      "class\x00",
	KwConst:      "const\x00",
	KwContinue:   "continue\x00",
	KwDefault:    "default\x00",
	KwDelete:     "delete\x00",
	KwDo:         "do\x00",
	KwElse:       "else\x00",
	KwExport:     "export\x00",
	KwExtends:    "extends\x00",
	KwFalse:      "false\x00",
	KwFinally:    "finally\x00",
	KwFor:        "for\x00",
	KwFunction:   "function\x00",
	KwIf:         "if\x00",
	KwImport:     "import\x00",
	KwIn:         "in\x00",
	KwInstanceof: "instanceof\x00",
	KwLet:        "let\x00",
	KwNew:        "new\x00",
	KwNull:       "null\x00",
	KwReturn:     "return\x00",
	KwSwitch:     "switch\x00",
	KwThis:       "this\x00",
	KwThrow:      "throw\x00",
	KwTrue:       "true\x00",
	KwTry:        "try\x00",
	KwTypeof:     "typeof\x00",
	KwVar:        "var\x00",
	KwVoid:       "void\x00",
	KwWhile:      "while\x00",
	KwYield:      "yield\x00",

	LParen:           "(\x00",
	RParen:           ")\x00",
	LBrace:           "{\x00",
	RBrace:           "}\x00",
	LBracket:         "[\x00",
	RBracket:         "]\x00",
	Semicolon:        ";\x00",
	Comma:            ",\x00",
	Dot:              ".\x00",
	DotDotDot:        "...\x00",
	Colon:            ":\x00",
	Question:         "?\x00",
	QuestionDot:      "?.\x00",
	QuestionQuestion: "??\x00",
	Arrow:            "=>\x00",
	Assign:           "=\x00",
	EqEq:             "==\x00",
	EqEqEq:           "===\x00",
	Bang:             "!\x00",
	BangEq:           "!=\x00",
	BangEqEq:         "!==\x00",
	Lt:               "<\x00",
	LtEq:             "<=\x00",
	Gt:               ">\x00",
	GtEq:             ">=\x00",
	Shl:              "<<\x00",
	Shr:              ">>\x00",
	UShr:             ">>>\x00",
	Plus:             "+\x00",
	Minus:            "-\x00",
	Star:             "*\x00",
	StarStar:         "**\x00",
	Slash:            "/\x00",
	Percent:          "%\x00",
	PlusPlus:         "++\x00",
	MinusMinus:       "--\x00",
	Amp:              "&\x00",
	Pipe:             "|\x00",
	Caret:            "^\x00",
	Tilde:            "~\x00",
	AndAnd:           "&&\x00",
	OrOr:             "||\x00",
	PlusAssign:       "+=\x00",
	MinusAssign:      "-=\x00",
	StarAssign:       "*=\x00",
	SlashAssign:      "/=\x00",
	PercentAssign:    "%=\x00",
	AmpAssign:        "&=\x00",
	PipeAssign:       "|=\x00",
	CaretAssign:      "^=\x00",
	At:               "@\x00",
	Hash:             "#\x00",
}

var (
	keywords        = map[string]Kind{}
	keywordSpelling [kindCount]string
)

func init() {
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		word := strings.TrimSuffix(fixedText[k], "\x00")
		keywords[word] = k
		keywordSpelling[k] = strings.ToUpper(word[:1]) + word[1:]
	}
}

// LookupKeyword reports whether ident is a reserved word. Keywords are
// case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Text borrows the fixed spelling of a keyword or punctuator. Other kinds
// have no fixed text and yield the empty string.
func (k Kind) Text() rcstr.String {
	if k >= kindCount || fixedText[k] == "" {
		return rcstr.Empty()
	}
	return rcstr.AdoptString(fixedText[k])
}
