package cache

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache keeps artifacts on disk, one file per key:
//
//	<dir>/<kind>/<hh>/<sha256 of key>.bin
//
// kind is the artifact kind named in the key ("model" or "drawing"), so STL
// files and 2D drawings can be inspected or pruned separately. Each file is an
// 8-byte big-endian expiry in Unix nanoseconds (zero for none) followed by the
// artifact bytes unchanged.
type FileCache struct {
	dir string
}

const expiryLen = 8

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the artifact for key. Expired and truncated files are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw) < expiryLen {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if exp := int64(binary.BigEndian.Uint64(raw)); exp != 0 && time.Now().UnixNano() > exp {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return raw[expiryLen:], true, nil
}

// Set stores data under key. The file is written beside its final name and
// renamed into place, so concurrent renders never read a partial artifact.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	buf := make([]byte, expiryLen+len(data))
	binary.BigEndian.PutUint64(buf, uint64(exp))
	copy(buf[expiryLen:], data)

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
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
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry, keeping the directory itself.
func (c *FileCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, keyKind(key), hash[:2], hash[2:]+".bin")
}

// keyKind extracts the artifact kind from keys shaped like
// "[scope:]kind:hash". Anything unrecognised is filed under "other".
func keyKind(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "other"
	}
	switch kind := parts[len(parts)-2]; kind {
	case kindModel, kindDrawing:
		return kind
	default:
		return "other"
	}
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
