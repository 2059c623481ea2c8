package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"strand/internal/diag"
	"strand/internal/lexer"
	"strand/internal/source"
	"strand/internal/token"
)

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("j.js", []byte("a\n  'b"))
	bag := newBag(t)
	diag.ReportError(&diag.BagReporter{Bag: bag}, diag.LexUnterminatedString,
		source.Span{File: id, Start: 4, End: 6}, diag.Msgf("unterminated %s", "string")).
		WithNote(source.Span{File: id, Start: 0, End: 1}, diag.Static("here\x00")).
		Emit()

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" || d.Message != "unterminated string" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 3 || d.Location.File != "j.js" {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "here" {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.js", []byte("@@@"))
	bag := newBag(t)
	r := &diag.BagReporter{Bag: bag}
	for i := range uint32(3) {
		diag.ReportError(r, diag.LexUnknownChar, source.Span{File: id, Start: i, End: i + 1},
			diag.Static("unknown character\x00")).Emit()
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Dropped != 1 || out.Errors != 2 || out.Warnings != 0 {
		t.Fatalf("count=%d dropped=%d errors=%d warnings=%d", out.Count, out.Dropped, out.Errors, out.Warnings)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Error("positions included without IncludePositions")
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.js", []byte("x = 'a"))
	bag := newBag(t)
	diag.ReportError(&diag.BagReporter{Bag: bag}, diag.LexUnterminatedString,
		source.Span{File: id, Start: 4, End: 6}, diag.Static("unterminated string literal\x00")).Emit()

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "strand", ToolVersion: "test", InvocationArgs: []string{"diag", "s.js"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "strand" || len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "LEX1002" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Results) != 1 || run.Results[0].Level != "error" {
		t.Fatalf("results = %+v", run.Results)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartColumn != 5 || region.ByteLength != 2 {
		t.Errorf("region = %+v", region)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("errors present, execution should not be successful")
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.js", []byte("let n = 42;"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	toks := lx.All()
	defer token.ReleaseAll(toks)
	lx.Close()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	text := pretty.String()
	for _, want := range []string{"KwLet", `"let"`, "borrowed", `"42"`, "owned", "EOF", "at 1:9-1:11"} {
		if !bytes.Contains(pretty.Bytes(), []byte(want)) {
			t.Errorf("pretty output missing %q:\n%s", want, text)
		}
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks, fs); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 || out[3].Kind != "Number" || out[3].Text != "42" || out[3].Mode != "owned" {
		t.Fatalf("tokens = %+v", out)
	}
	if out[5].Kind != "EOF" || out[5].Text != "" {
		t.Errorf("eof = %+v", out[5])
	}
}
