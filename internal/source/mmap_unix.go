//go:build unix

package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

// mapFile maps path with one extra byte past EOF. The tail of the last page
// reads as zero, which gives the NUL sentinel for free; when the size is a
// page multiple there is no such tail and ok is false.
func mapFile(path string) (data []byte, ok bool, err error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	size := st.Size()
	if size == 0 || size%int64(os.Getpagesize()) == 0 {
		return nil, false, nil
	}
	length, err := safecast.Conv[int](size + 1)
	if err != nil {
		return nil, false, fmt.Errorf("file too large to map: %w", err)
	}
	data, err = unix.Mmap(int(f.Fd()), 0, length, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}
