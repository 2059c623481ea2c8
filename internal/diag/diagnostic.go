package diag

import (
	"fmt"

	"strand/internal/rcstr"
	"strand/internal/source"
)

type Note struct {
	Span source.Span
	Msg  rcstr.String
}

// Diagnostic owns its message and note texts; Release drops them.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  rcstr.String
	Primary  source.Span
	Notes    []Note
}

// Release drops the diagnostic's strings.
func (d *Diagnostic) Release() {
	d.Message.Release()
	for i := range d.Notes {
		d.Notes[i].Msg.Release()
	}
	d.Notes = nil
}

// Clone returns a copy sharing the message blocks.
func (d Diagnostic) Clone() Diagnostic {
	out := d
	out.Message = d.Message.Clone()
	if len(d.Notes) > 0 {
		out.Notes = make([]Note, len(d.Notes))
		for i, n := range d.Notes {
			out.Notes[i] = Note{Span: n.Span, Msg: n.Msg.Clone()}
		}
	}
	return out
}

// Static borrows a NUL-terminated literal as a message without allocating,
// e.g. Static("unterminated string literal\x00").
func Static(msg string) rcstr.String {
	return rcstr.AdoptString(msg)
}

// Msgf formats a message into an owned string.
func Msgf(format string, args ...any) rcstr.String {
	return rcstr.CopyString(fmt.Sprintf(format, args...))
}
