package source

import "fmt"

// Span is a half-open byte range [Start, End) in one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool    { return s.Start == s.End }
func (s Span) Len() uint32    { return s.End - s.Start }
func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Within reports whether s is well formed and ends at or before limit.
func (s Span) Within(limit uint32) bool {
	return s.Start <= s.End && s.End <= limit
}
