package driver

import (
	"strand/internal/diag"
	"strand/internal/rcstr"
	"strand/internal/source"
	"strand/internal/token"
)

// Summary condenses one lexed file. It holds plain values only, so it can
// be cached and compared without touching string handles.
type Summary struct {
	Tokens        int
	Idents        int
	UniqueIdents  int
	Literals      int
	OwnedTexts    int
	BorrowedTexts int
	Diagnostics   []CachedDiagnostic
	// Dropped counts diagnostics the bag discarded at its limit.
	Dropped int
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Start    uint32
	End      uint32
	Message  string
	Notes    []CachedNote
}

type CachedNote struct {
	Start   uint32
	End     uint32
	Message string
}

// Summarize counts tokens by storage mode and copies the diagnostics out.
func Summarize(toks []token.Token, bag *diag.Bag, interner *source.Interner) Summary {
	var s Summary
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		s.Tokens++
		switch {
		case tok.Kind == token.Ident:
			s.Idents++
		case tok.IsLiteral():
			s.Literals++
		}
		if tok.Text.IsOwned() {
			s.OwnedTexts++
		} else if tok.Text.Len() > 0 {
			s.BorrowedTexts++
		}
	}
	if interner != nil {
		s.UniqueIdents = interner.Len()
	}
	if bag != nil {
		s.Dropped = bag.Dropped()
		s.Diagnostics = make([]CachedDiagnostic, 0, bag.Len())
		for _, d := range bag.Items() {
			cd := CachedDiagnostic{
				Severity: uint8(d.Severity),
				Code:     uint16(d.Code),
				Start:    d.Primary.Start,
				End:      d.Primary.End,
				Message:  d.Message.String(),
			}
			for _, n := range d.Notes {
				cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Message: n.Msg.String()})
			}
			s.Diagnostics = append(s.Diagnostics, cd)
		}
	}
	return s
}

// restore adds the cached diagnostics of file to bag as owned copies, along
// with the drop count of the run that produced them.
func (s Summary) restore(bag *diag.Bag, file source.FileID, f rcstr.Factory) {
	for _, cd := range s.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  f.CopyString(cd.Message),
			Primary:  source.Span{File: file, Start: cd.Start, End: cd.End},
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Span: source.Span{File: file, Start: n.Start, End: n.End},
				Msg:  f.CopyString(n.Message),
			})
		}
		bag.Add(d)
	}
	bag.AddDropped(s.Dropped)
}
