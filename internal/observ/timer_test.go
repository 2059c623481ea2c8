package observ_test

import (
	"strings"
	"testing"

	"strand/internal/observ"
	"strand/internal/rcstr"
)

func TestTimerPhases(t *testing.T) {
	tm := observ.NewTimer()
	done := tm.Track("load")
	done("2 files")
	idx := tm.Begin("lex")
	tm.End(idx, "")
	tm.End(99, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d", len(report.Phases))
	}
	if report.Phases[0].Name != "load" || report.Phases[0].Note != "2 files" {
		t.Errorf("phase 0 = %+v", report.Phases[0])
	}
	summary := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 2 files", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "alloc") {
		t.Error("alloc columns without an allocator")
	}
}

func TestTimerAllocationDeltas(t *testing.T) {
	counting := rcstr.NewCountingAllocator(nil)
	f := rcstr.NewFactory(counting)
	tm := observ.NewTimer().WithAllocator(counting)

	keep := f.CopyString("before")
	defer keep.Release()

	done := tm.Track("copy")
	a := f.CopyString("a")
	b := f.CopyString("b")
	a.Release()
	done("")
	b.Release()

	p := tm.Report().Phases[0]
	if p.Allocs != 2 || p.Frees != 1 {
		t.Fatalf("allocs=%d frees=%d", p.Allocs, p.Frees)
	}
	if !strings.Contains(tm.Summary(), "alloc") {
		t.Error("summary should show allocation columns")
	}
}

func TestEmptyReport(t *testing.T) {
	if r := observ.NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("report = %+v", r)
	}
}
