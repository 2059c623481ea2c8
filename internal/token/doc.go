// Package token defines lexical token kinds for the strand front end.
// Invariants:
//   - Token.Span covers the lexeme exactly (Start..End).
//   - Keyword and punctuator tokens borrow their text from static
//     NUL-terminated tables; they never allocate.
//   - Identifier, number and string tokens own their text (shared through
//     the lexer's interner for identifiers) and must be released.
package token
