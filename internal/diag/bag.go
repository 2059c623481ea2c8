package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a limit. It owns the strings of every
// stored diagnostic; Release drops them.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add stores d, or releases it and returns false when the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		d.Release()
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// Dropped returns how many diagnostics were discarded because of the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// AddDropped counts n diagnostics discarded elsewhere, e.g. before a cached
// summary was written.
func (b *Bag) AddDropped(n int) {
	if n > 0 {
		b.dropped += n
	}
}

// HasErrors reports whether any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity >= Warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the stored diagnostics. The slice and its strings belong to
// the bag: read them, do not modify or release them.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge moves every diagnostic out of other into b, growing the limit if
// needed. other is empty afterwards.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		limit, err := safecast.Conv[uint16](newTotal)
		if err != nil {
			panic(fmt.Errorf("diagnostic bag overflow: %w", err))
		}
		b.max = limit
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
	clear(other.items)
	other.items = other.items[:0]
	other.dropped = 0
}

// Truncate keeps the first n diagnostics, releasing and counting the rest
// as dropped.
func (b *Bag) Truncate(n int) {
	if n < 0 || n >= len(b.items) {
		return
	}
	for i := n; i < len(b.items); i++ {
		b.items[i].Release()
	}
	b.dropped += len(b.items) - n
	clear(b.items[n:])
	b.items = b.items[:n]
}

// Sort orders diagnostics by file, start, end, severity (desc), code (asc).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops diagnostics with the same code and primary span as an earlier
// one, releasing the dropped ones.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span string
	}
	seen := make(map[key]bool)
	kept := b.items[:0]
	for i := range b.items {
		d := b.items[i]
		k := key{code: d.Code, span: d.Primary.String()}
		if seen[k] {
			d.Release()
			continue
		}
		seen[k] = true
		kept = append(kept, d)
	}
	clear(b.items[len(kept):])
	b.items = kept
}

// Release drops every stored diagnostic and empties the bag.
func (b *Bag) Release() {
	for i := range b.items {
		b.items[i].Release()
	}
	clear(b.items)
	b.items = b.items[:0]
}
