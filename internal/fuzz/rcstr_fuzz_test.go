package fuzztests

import (
	"bytes"
	"testing"

	"strand/internal/rcstr"
)

// FuzzStringOwnership replays a sequence of clone, move and release
// operations encoded in ops against copies of data.
func FuzzStringOwnership(f *testing.F) {
	f.Add([]byte("hello"), []byte{0, 0, 1, 2, 3})
	f.Add([]byte(""), []byte{0})
	f.Add([]byte("a\x00b"), []byte{3, 2, 1, 0, 3, 3})
	f.Fuzz(func(t *testing.T, data, ops []byte) {
		counting := rcstr.NewCountingAllocator(nil)
		factory := rcstr.NewFactory(counting)

		want := data
		if i := bytes.IndexByte(data, 0); i >= 0 {
			want = data[:i]
		}
		handles := []rcstr.String{factory.CopyBytes(data)}
		for _, op := range ops {
			i := int(op>>2) % len(handles)
			switch op & 3 {
			case 0:
				handles = append(handles, handles[i].Clone())
			case 1:
				var dst rcstr.String
				dst.MoveFrom(&handles[i])
				handles = append(handles, dst)
			case 2:
				handles[i].Assign(handles[len(handles)-1])
			case 3:
				handles[i].Release()
			}
			for _, h := range handles {
				if h.Len() > 0 && !bytes.Equal(h.Bytes(), want) {
					t.Fatalf("content changed: %q != %q", h.Bytes(), want)
				}
			}
		}
		for i := range handles {
			handles[i].Release()
		}
		if st := counting.Stats(); st.LiveBlocks != 0 || st.Allocs != st.Frees {
			t.Fatalf("leaked blocks: %+v", st)
		}
	})
}
