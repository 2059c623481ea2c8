package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"strand/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	files := []string{"a.js", "b.js", "c.js"}
	model := NewProgressModel("lexing", files, nil).(*progressModel)

	events := []driver.Event{
		{File: "a.js", Stage: driver.StageLex, Status: driver.StatusWorking},
		{File: "a.js", Stage: driver.StageLex, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond, Tokens: 10},
		{File: "b.js", Stage: driver.StageCache, Status: driver.StatusDone, Tokens: 5},
		{File: "c.js", Stage: driver.StageLex, Status: driver.StatusError, Tokens: 2, Diags: 1},
		{File: "c.js", Stage: driver.StageLex, Status: driver.StatusDone},
		{File: "unknown.js", Stage: driver.StageLex, Status: driver.StatusDone},
		{Stage: driver.StageLex, Status: driver.StatusWorking},
	}
	for _, ev := range events {
		model.applyEvent(ev)
	}

	got := []fileState{model.rows[0].state, model.rows[1].state, model.rows[2].state}
	if want := []fileState{stateOK, stateCached, stateFailed}; fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("states = %v, want %v", got, want)
	}
	if model.finished() != 3 {
		t.Fatalf("finished = %d", model.finished())
	}
	if model.totals.tokens != 17 || model.totals.diags != 1 {
		t.Fatalf("totals = %+v", model.totals)
	}
	if p := model.percent(); p != 1.0 {
		t.Fatalf("percent = %v", p)
	}
	view := model.View()
	for _, want := range []string{"lexing [3/3]", "a.js", "cached", "3ms", "17 tokens", "errors 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestVisibleRowsPrefersActive(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.js", i)
	}
	model := NewProgressModel("t", files, nil).(*progressModel)
	for i := range 12 {
		model.applyEvent(driver.Event{File: files[i], Stage: driver.StageLex, Status: driver.StatusDone})
	}
	model.applyEvent(driver.Event{File: files[15], Stage: driver.StageLex, Status: driver.StatusWorking})

	rows := model.visibleRows()
	if len(rows) != maxRows {
		t.Fatalf("visible = %d", len(rows))
	}
	if rows[0] != 15 || rows[1] != 11 {
		t.Fatalf("rows = %v, want active first then newest", rows)
	}
	if p := model.percent(); p <= 0.6 || p >= 0.65 {
		t.Fatalf("percent = %v", p)
	}
	if !strings.Contains(model.View(), "... 12 more") {
		t.Error("hidden rows not reported")
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	ch := make(chan driver.Event)
	close(ch)
	model := NewProgressModel("t", []string{"a.js"}, ch).(*progressModel)
	msg := model.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T", msg)
	}
	_, cmd := model.Update(msg)
	if !model.done || cmd == nil {
		t.Fatal("model should be done and quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
	if !strings.Contains(model.View(), "done: t [0/1]") {
		t.Errorf("view = %q", model.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.js", 20, "short.js"},
		{"very/long/path/file.js", 10, "very/lo..."},
		{"abcdef", 2, "ab"},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
