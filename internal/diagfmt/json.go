package diagfmt

import (
	"encoding/json"
	"io"

	"strand/internal/diag"
	"strand/internal/source"
)

// LocationJSON is a file location in JSON output. Line and column fields are
// present only with JSONOpts.IncludePositions.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output. Count, Errors and
// Warnings describe the emitted diagnostics; Dropped counts the rest.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Dropped     int              `json:"dropped,omitempty"`
}

// locator turns spans into locations, formatting each file path once.
type locator struct {
	fs        *source.FileSet
	mode      PathMode
	positions bool
	paths     map[source.FileID]string
}

func (l *locator) locate(sp source.Span) LocationJSON {
	path, ok := l.paths[sp.File]
	if !ok {
		path = formatPath(l.fs.Get(sp.File), l.fs, l.mode)
		l.paths[sp.File] = path
	}
	loc := LocationJSON{File: path, StartByte: sp.Start, EndByte: sp.End}
	if l.positions {
		start, end := l.fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
// Message texts are copied out of their handles, so the result outlives
// the bag.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	loc := &locator{fs: fs, mode: opts.PathMode, positions: opts.IncludePositions, paths: make(map[source.FileID]string)}

	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Dropped:     bag.Dropped() + bag.Len() - len(items),
	}
	for _, d := range items {
		entry := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message.String(),
			Location: loc.locate(d.Primary),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				entry.Notes = append(entry.Notes, NoteJSON{Message: note.Msg.String(), Location: loc.locate(note.Span)})
			}
		}
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
		out.Diagnostics = append(out.Diagnostics, entry)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
