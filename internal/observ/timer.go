package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"strand/internal/rcstr"
)

// Phase records the duration of one pipeline step and, when the timer has
// a CountingAllocator, the string blocks allocated and freed during it.
type Phase struct {
	Name   string
	Start  time.Time
	Dur    time.Duration
	Note   string
	before rcstr.Stats
	Allocs uint64
	Frees  uint64
}

// Timer tracks pipeline phases. It is safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	alloc  *rcstr.CountingAllocator
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// WithAllocator makes every phase record allocation deltas from a.
func (t *Timer) WithAllocator(a *rcstr.CountingAllocator) *Timer {
	t.alloc = a
	return t
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	p := Phase{Name: name, Start: time.Now()}
	if t.alloc != nil {
		p.before = t.alloc.Stats()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, p)
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
	if t.alloc != nil {
		now := t.alloc.Stats()
		p.Allocs = now.Allocs - p.before.Allocs
		p.Frees = now.Frees - p.before.Frees
	}
}

// Track starts a phase and returns the function that ends it.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// Summary returns a human-readable table of all phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if t.alloc != nil {
			fmt.Fprintf(&b, "  %6d alloc %6d free", p.Allocs, p.Frees)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return b.String()
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Allocs     uint64  `json:"allocs,omitempty"`
	Frees      uint64  `json:"frees,omitempty"`
}

// Report aggregates all phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases and the total duration in milliseconds.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
			Allocs:     phase.Allocs,
			Frees:      phase.Frees,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
