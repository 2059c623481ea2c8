package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"strand/internal/source"
	"strand/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Mode  string      `json:"mode,omitempty"`
	Span  source.Span `json:"span"`
	Start string      `json:"start"`
}

// FormatTokensPretty prints one token per line with its text, storage mode
// and position.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-16s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text.Len() > 0 {
			fmt.Fprintf(w, " %-24q %-8s", tok.Text.String(), tok.Text.Mode())
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes tokens as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos, _ := fs.Resolve(tok.Span)
		out := TokenOutput{
			Kind:  tok.Kind.String(),
			Span:  tok.Span,
			Start: fmt.Sprintf("%d:%d", pos.Line, pos.Col),
		}
		if tok.Text.Len() > 0 {
			out.Text = tok.Text.String()
			out.Mode = tok.Text.Mode().String()
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
