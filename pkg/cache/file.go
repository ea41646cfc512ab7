package cache

import (
	"context"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entryExt marks files owned by a FileCache.
const entryExt = ".logo"

// headerSize is the length of the expiry prefix on every entry file.
const headerSize = 8

// FileCache stores entries as files under a directory, sharded by the first
// two hex characters of the key digest.
//
// Each file holds an 8-byte big-endian Unix-nanosecond expiry (zero means the
// entry never expires) followed by the raw payload. PNG bytes are stored
// as-is, so a cached logo on disk is its encoded size plus eight bytes.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens (creating if needed) a cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Get returns the payload for key. Unreadable, truncated and expired entries
// are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p := c.path(key)
	raw, err := os.ReadFile(p)
	switch {
	case os.IsNotExist(err):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	data, ok := c.decode(raw)
	if !ok {
		_ = os.Remove(p)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes data under key. A non-positive ttl stores the entry without an
// expiry. Writes go through a temp file in the shard directory and a rename,
// so readers see either the old entry or the new one.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = c.now().Add(ttl).UnixNano()
	}
	buf := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint64(buf, uint64(expires))
	copy(buf[headerSize:], data)

	p := c.path(key)
	shard := filepath.Dir(p)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(shard, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (c *FileCache) Clear() (int, error) {
	return c.sweep(func(string) bool { return true })
}

// Prune removes expired and unreadable entries, leaving live ones in place.
func (c *FileCache) Prune() (int, error) {
	return c.sweep(func(p string) bool {
		raw, err := os.ReadFile(p)
		if err != nil {
			return true
		}
		_, ok := c.decode(raw)
		return !ok
	})
}

// sweep deletes entry files for which remove returns true, then drops any
// shard directories left empty.
func (c *FileCache) sweep(remove func(path string) bool) (int, error) {
	n := 0
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(p, entryExt) {
			return nil
		}
		if remove(p) && os.Remove(p) == nil {
			n++
		}
		return nil
	})
	if err != nil {
		return n, err
	}

	shards, _ := os.ReadDir(c.dir)
	for _, s := range shards {
		if s.IsDir() {
			// Fails harmlessly while the shard still has entries.
			_ = os.Remove(filepath.Join(c.dir, s.Name()))
		}
	}
	return n, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

func (c *FileCache) decode(raw []byte) ([]byte, bool) {
	if len(raw) < headerSize {
		return nil, false
	}
	expires := int64(binary.BigEndian.Uint64(raw))
	if expires != 0 && c.now().UnixNano() > expires {
		return nil, false
	}
	return raw[headerSize:], true
}

func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+entryExt)
}

var _ Cache = (*FileCache)(nil)
