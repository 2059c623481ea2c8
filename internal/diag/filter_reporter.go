package diag

import (
	"strand/internal/rcstr"
	"strand/internal/source"
)

type reportKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// FilterReporter forwards diagnostics at or above a minimum severity to
// another Reporter, dropping repeats of the same code, severity, primary
// span and message. Dropped messages are released.
type FilterReporter struct {
	next       Reporter
	min        Severity
	seen       map[reportKey]struct{}
	suppressed int
}

// NewFilterReporter wraps next. A zero min (SevInfo) only removes
// duplicates.
func NewFilterReporter(next Reporter, min Severity) *FilterReporter {
	return &FilterReporter{
		next: next,
		min:  min,
		seen: make(map[reportKey]struct{}),
	}
}

func (r *FilterReporter) Report(code Code, sev Severity, primary source.Span, msg rcstr.String, notes []Note) {
	if sev < r.min || r.next == nil {
		r.drop(code, sev, primary, msg, notes)
		return
	}
	key := reportKey{code: code, sev: sev, span: primary, msg: msg.String()}
	if _, dup := r.seen[key]; dup {
		r.drop(code, sev, primary, msg, notes)
		return
	}
	r.seen[key] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes)
}

func (r *FilterReporter) drop(code Code, sev Severity, primary source.Span, msg rcstr.String, notes []Note) {
	r.suppressed++
	NopReporter{}.Report(code, sev, primary, msg, notes)
}

// Suppressed returns how many diagnostics were filtered out.
func (r *FilterReporter) Suppressed() int { return r.suppressed }
