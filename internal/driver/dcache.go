package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when DiskPayload or Summary changes shape.
const diskCacheSchemaVersion uint16 = 2

// DiskCache keeps one msgpack record per lexed file under dir/lex. Keys are
// content digests mixed with the lexer options, see cacheKey.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the record stored per key.
type DiskPayload struct {
	Schema  uint16
	Path    string
	Summary Summary
}

// OpenDiskCache opens the cache for app under the user cache directory
// ($XDG_CACHE_HOME, falling back to ~/.cache).
func OpenDiskCache(app string) (*DiskCache, error) {
	base, ok := os.LookupEnv("XDG_CACHE_HOME")
	if !ok || base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache dir: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens the cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

// entryPath shards entries by the first key byte.
func (c *DiskCache) entryPath(key [32]byte) string {
	name := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "lex", name[:2], name+".mp")
}

// Put stores payload under key, stamping the current schema.
func (c *DiskCache) Put(key [32]byte, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	payload.Schema = diskCacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return writeAtomic(c.entryPath(key), data)
}

// writeAtomic writes data next to path and renames it into place, so readers
// never observe a partial entry.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Get loads the entry for key into out. A missing entry or one written with
// another schema is a miss; a corrupt entry is an error.
func (c *DiskCache) Get(key [32]byte, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entryPath(key))
	c.mu.RUnlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}

	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		*out = DiskPayload{}
		return false, nil
	}
	return true, nil
}

// Remove deletes the entry for key, if any.
func (c *DiskCache) Remove(key [32]byte) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.entryPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// DropAll empties the cache. The old tree is moved aside first so a
// concurrent process never sees a half-deleted directory.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	graveyard := c.dir + ".drop-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	err := os.Rename(c.dir, graveyard)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if mkErr := os.MkdirAll(c.dir, 0o755); mkErr != nil {
		return mkErr
	}
	if err != nil {
		return nil
	}
	return os.RemoveAll(graveyard)
}
