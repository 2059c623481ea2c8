package rcstr_test

import (
	"math/rand/v2"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strand/internal/rcstr"
)

var helloWorld = []byte("hello, world!\x00")

// cview returns the content at p including its terminator.
func cview(p *byte) []byte {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return unsafe.Slice(p, n+1)
}

func newCounting(t *testing.T) (*rcstr.CountingAllocator, rcstr.Factory) {
	t.Helper()
	alloc := rcstr.NewCountingAllocator(nil)
	return alloc, rcstr.NewFactory(alloc)
}

func TestDefaultIsEmptyString(t *testing.T) {
	var s rcstr.String
	require.NotNil(t, s.View())
	assert.Equal(t, byte(0), *s.View())
	assert.Equal(t, "", s.String())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, rcstr.Borrowed, s.Mode())

	e := rcstr.Empty()
	assert.True(t, e.Equal(s))
	s.Release()
	e.Release()
}

func TestEmptyHandlesShareSentinel(t *testing.T) {
	var zero rcstr.String
	empties := []rcstr.String{rcstr.Empty(), rcstr.Adopt(nil), rcstr.CopyFrom(nil)}
	for i, e := range empties {
		assert.Same(t, zero.View(), e.View(), "handle %d", i)
	}
	assert.Equal(t, "\x00", unsafe.String(zero.View(), 1))
}

func TestCopyFromCopies(t *testing.T) {
	s := rcstr.CopyFrom(&helloWorld[0])
	defer s.Release()

	assert.NotSame(t, &helloWorld[0], s.View())
	assert.Equal(t, helloWorld, cview(s.View()))
	assert.True(t, s.IsOwned())
	assert.Equal(t, 1, s.Owners())
}

func TestCopyFromNilIsEmpty(t *testing.T) {
	alloc, f := newCounting(t)
	s := f.CopyFrom(nil)
	assert.Equal(t, "", s.String())
	assert.False(t, s.IsOwned())
	assert.Equal(t, uint64(0), alloc.Stats().Allocs)
}

func TestAdoptShares(t *testing.T) {
	s := rcstr.Adopt(&helloWorld[0])
	assert.Same(t, &helloWorld[0], s.View())
	assert.Equal(t, "hello, world!", s.String())
	assert.Equal(t, rcstr.Borrowed, s.Mode())
	assert.Equal(t, 0, s.Owners())

	b := rcstr.AdoptBytes(helloWorld)
	assert.Same(t, &helloWorld[0], b.View())
}

func TestAdoptBytesRequiresTerminator(t *testing.T) {
	assert.Panics(t, func() { rcstr.AdoptBytes([]byte("abc")) })
	assert.Panics(t, func() { rcstr.AdoptBytes(nil) })
	assert.Panics(t, func() { rcstr.AdoptString("abc") })
}

func TestAdoptStringLiteral(t *testing.T) {
	s := rcstr.AdoptString("while\x00")
	assert.Equal(t, "while", s.String())
	assert.Equal(t, 5, s.Len())
	assert.False(t, s.IsOwned())

	allocs := testing.AllocsPerRun(100, func() {
		h := rcstr.AdoptString("return\x00")
		_ = h.Len()
	})
	assert.Zero(t, allocs)
}

func TestAdoptDoesNotAllocate(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		s := rcstr.Adopt(&helloWorld[0])
		c := s.Clone()
		_ = c.View()
		c.Release()
		s.Release()
	})
	assert.Zero(t, allocs)
}

func TestCopyRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		n := rng.IntN(300)
		content := make([]byte, n)
		for i := range content {
			content[i] = byte(1 + rng.IntN(255))
		}
		s := rcstr.CopyBytes(content)
		assert.Equal(t, append(append([]byte{}, content...), 0), cview(s.View()))
		assert.Equal(t, content, append([]byte{}, s.Bytes()...))
		assert.Equal(t, n, s.Len())
		s.Release()
	}
}

func TestCopyBytesStopsAtNUL(t *testing.T) {
	s := rcstr.CopyBytes([]byte("ab\x00cd"))
	defer s.Release()
	assert.Equal(t, "ab", s.String())
}

func TestCopyingSharesData(t *testing.T) {
	original := rcstr.CopyString("hello")
	copied := original.Clone()
	assert.Same(t, original.View(), copied.View())
	assert.Equal(t, "hello", copied.String())
	assert.Equal(t, 2, original.Owners())
	copied.Release()
	original.Release()
}

func TestMovingSharesData(t *testing.T) {
	original := rcstr.CopyString("hello")
	view := original.View()
	s := original.Take()
	defer s.Release()

	assert.Same(t, view, s.View())
	assert.Equal(t, "hello", s.String())
	assert.Equal(t, 1, s.Owners())
	assert.Equal(t, "", original.String())
	assert.False(t, original.IsOwned())
}

func TestCopyAssignSharesData(t *testing.T) {
	original := rcstr.CopyString("hello")
	var copied rcstr.String
	copied.Assign(original)
	assert.Same(t, original.View(), copied.View())
	assert.Equal(t, "hello", copied.String())
	copied.Release()
	original.Release()
}

func TestMoveAssignClearsOriginal(t *testing.T) {
	original := rcstr.CopyString("hello")
	view := original.View()
	var s rcstr.String
	s.MoveFrom(&original)
	defer s.Release()

	assert.Same(t, view, s.View())
	assert.Equal(t, "", original.String())
}

func TestAssignReleasesPrevious(t *testing.T) {
	alloc, f := newCounting(t)
	a := f.CopyString("first")
	b := f.CopyString("second")

	a.Assign(b)
	assert.Equal(t, uint64(1), alloc.Stats().Frees)
	assert.Equal(t, "second", a.String())
	assert.Equal(t, 2, b.Owners())

	a.MoveFrom(&b)
	assert.Equal(t, uint64(1), alloc.Stats().Frees)
	assert.Equal(t, 1, a.Owners())

	a.Assign(rcstr.Adopt(&helloWorld[0]))
	assert.Equal(t, uint64(2), alloc.Stats().Frees)
	assert.Equal(t, rcstr.Borrowed, a.Mode())
}

func TestSelfAssignment(t *testing.T) {
	alloc, f := newCounting(t)
	h := f.CopyString("hello")
	view := h.View()

	h.Assign(h)
	assert.Same(t, view, h.View())
	assert.Equal(t, "hello", h.String())
	assert.Equal(t, 1, h.Owners())

	h.MoveFrom(&h)
	assert.Same(t, view, h.View())
	assert.Equal(t, 1, h.Owners())
	assert.Zero(t, alloc.Stats().Frees)

	h.Release()
	assert.Equal(t, uint64(1), alloc.Stats().Frees)
}

func TestDestroyingCopyDoesNotChangeData(t *testing.T) {
	alloc, f := newCounting(t)
	a := f.CopyString("hello")
	view := a.View()
	b := a.Clone()
	assert.Equal(t, 2, a.Owners())

	a.Release()
	assert.Equal(t, "hello", b.String())
	assert.Same(t, view, b.View())
	assert.Equal(t, rcstr.Stats{Allocs: 1, Frees: 0, LiveBlocks: 1, LiveBytes: 6}, alloc.Stats())

	b.Release()
	assert.Equal(t, rcstr.Stats{Allocs: 1, Frees: 1}, alloc.Stats())
}

func TestReleaseIsIdempotentPerVariable(t *testing.T) {
	alloc, f := newCounting(t)
	s := f.CopyString("x")
	s.Release()
	s.Release()
	assert.Equal(t, uint64(1), alloc.Stats().Frees)
}

func TestStaleHandlePanics(t *testing.T) {
	a := rcstr.CopyString("hello")
	stale := a // plain Go copy: not an owner
	a.Release()
	assert.Panics(t, func() { _ = stale.View() })
	assert.Panics(t, func() { _ = stale.Clone() })
	assert.Panics(t, func() { stale.Release() })
}

func TestManyCopiesRandomOrder(t *testing.T) {
	const n = 10_000
	alloc, f := newCounting(t)
	rng := rand.New(rand.NewPCG(42, 7))

	root := f.CopyString("shared")
	live := []rcstr.String{root}
	created := 1
	for len(live) > 0 {
		if created < n && (len(live) == 1 || rng.IntN(3) > 0) {
			src := live[rng.IntN(len(live))]
			live = append(live, src.Clone())
			created++
		} else {
			i := rng.IntN(len(live))
			require.Equal(t, "shared", live[i].String())
			live[i].Release()
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		if len(live) > 0 {
			require.Equal(t, len(live), live[0].Owners())
			require.Zero(t, alloc.Stats().Frees)
		}
	}
	assert.Equal(t, rcstr.Stats{Allocs: 1, Frees: 1}, alloc.Stats())
}

func TestPoolAllocatorBackedStrings(t *testing.T) {
	pool := rcstr.NewPoolAllocator()
	counting := rcstr.NewCountingAllocator(pool)
	f := rcstr.NewFactory(counting)

	sizes := []int{0, 1, 31, 32, 100, 600, 5000, 70000}
	for _, size := range sizes {
		content := make([]byte, size)
		for i := range content {
			content[i] = 'a' + byte(i%26)
		}
		s := f.CopyBytes(content)
		require.Equal(t, content, append([]byte{}, s.Bytes()...))
		s.Release()
	}
	stats := counting.Stats()
	assert.Equal(t, uint64(len(sizes)), stats.Allocs)
	assert.Equal(t, uint64(len(sizes)), stats.Frees)
	assert.Zero(t, stats.LiveBytes)
}

func TestSetDefaultAllocator(t *testing.T) {
	counting := rcstr.NewCountingAllocator(nil)
	prev := rcstr.SetDefaultAllocator(counting)
	defer rcstr.SetDefaultAllocator(prev)

	s := rcstr.CopyString("abc")
	assert.Equal(t, uint64(1), counting.Stats().Allocs)

	// switching back must not strand the block
	rcstr.SetDefaultAllocator(prev)
	s.Release()
	assert.Equal(t, uint64(1), counting.Stats().Frees)
}

func TestEqual(t *testing.T) {
	a := rcstr.CopyString("hello")
	b := rcstr.AdoptBytes([]byte("hello\x00"))
	c := rcstr.CopyString("help")
	defer a.Release()
	defer c.Release()

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, rcstr.Empty().Equal(rcstr.AdoptBytes([]byte{0})))
}
