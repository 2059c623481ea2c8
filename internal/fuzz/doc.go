// Package fuzztests holds fuzz harnesses for the string handle and the
// lexer. They check that arbitrary input never panics, that token texts
// match their source spans, and that every allocated block is freed.
package fuzztests
