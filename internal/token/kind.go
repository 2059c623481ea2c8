package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// Number represents a numeric literal.
	Number
	// String represents a quoted string literal.
	String
	// Template represents a backtick template literal, substitutions included.
	Template

	keywordBegin
	KwAwait // await
	KwBreak // break
	KwCase
	KwCatch
	KwClass
	KwConst
	KwContinue
	KwDefault
	KwDelete
	KwDo
	KwElse
	KwExport
	KwExtends
	KwFalse
	KwFinally
	KwFor
	KwFunction
	KwIf
	KwImport
	KwIn
	KwInstanceof
	KwLet
	KwNew
	KwNull
	KwReturn
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwVar
	KwVoid
	KwWhile
	KwYield
	keywordEnd

	punctBegin
	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Semicolon
	Comma
	Dot
	DotDotDot
	Colon
	Question
	QuestionDot
	QuestionQuestion
	Arrow // =>
	Assign
	EqEq
	EqEqEq
	Bang
	BangEq
	BangEqEq
	Lt
	LtEq
	Gt
	GtEq
	Shl
	Shr
	UShr
	Plus
	Minus
	Star
	StarStar
	Slash
	Percent
	PlusPlus
	MinusMinus
	Amp
	Pipe
	Caret
	Tilde
	AndAnd
	OrOr
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpAssign
	PipeAssign
	CaretAssign
	At
	Hash
	punctEnd

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:  "Invalid",
	EOF:      "EOF",
	Ident:    "Ident",
	Number:   "Number",
	String:   "String",
	Template: "Template",

	LParen:           "LParen",
	RParen:           "RParen",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
	Semicolon:        "Semicolon",
	Comma:            "Comma",
	Dot:              "Dot",
	DotDotDot:        "DotDotDot",
	Colon:            "Colon",
	Question:         "Question",
	QuestionDot:      "QuestionDot",
	QuestionQuestion: "QuestionQuestion",
	Arrow:            "Arrow",
	Assign:           "Assign",
	EqEq:             "EqEq",
	EqEqEq:           "EqEqEq",
	Bang:             "Bang",
	BangEq:           "BangEq",
	BangEqEq:         "BangEqEq",
	Lt:               "Lt",
	LtEq:             "LtEq",
	Gt:               "Gt",
	GtEq:             "GtEq",
	Shl:              "Shl",
	Shr:              "Shr",
	UShr:             "UShr",
	Plus:             "Plus",
	Minus:            "Minus",
	Star:             "Star",
	StarStar:         "StarStar",
	Slash:            "Slash",
	Percent:          "Percent",
	PlusPlus:         "PlusPlus",
	MinusMinus:       "MinusMinus",
	Amp:              "Amp",
	Pipe:             "Pipe",
	Caret:            "Caret",
	Tilde:            "Tilde",
	AndAnd:           "AndAnd",
	OrOr:             "OrOr",
	PlusAssign:       "PlusAssign",
	MinusAssign:      "MinusAssign",
	StarAssign:       "StarAssign",
	SlashAssign:      "SlashAssign",
	PercentAssign:    "PercentAssign",
	AmpAssign:        "AmpAssign",
	PipeAssign:       "PipeAssign",
	CaretAssign:      "CaretAssign",
	At:               "At",
	Hash:             "Hash",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "Kind(?)"
	}
	if k.IsKeyword() {
		return "Kw" + keywordSpelling[k]
	}
	if name := kindNames[k]; name != "" {
		return name
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }

// IsPunct reports whether k is a punctuator or operator.
func (k Kind) IsPunct() bool { return k > punctBegin && k < punctEnd }

// IsLiteral reports whether k is a literal (numbers, strings, true/false/null).
func (k Kind) IsLiteral() bool {
	switch k {
	case Number, String, Template, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}
