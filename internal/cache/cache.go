// Package cache persists the AutoEq index between runs so the tool can
// revalidate with an ETag and keep working offline.
//
// The cache is a single flat directory holding two files: the index body
// and the ETag it was fetched with. All writes are best-effort; a cache
// that cannot be written only costs a refetch, never a failure.
package cache

import (
	"os"
	"path/filepath"
)

const (
	indexFileName = "autoeq_index.md"
	etagFileName  = "autoeq_index.etag"
)

// Cache stores the fetched index and its ETag under one directory.
//
// Example usage:
//
//	c := cache.New("/home/user/.autoeq-fiio")
//
//	etag := c.ReadETag()
//	// ... conditional GET with etag ...
//	c.WriteIndex(body, newETag)
type Cache struct {
	dir string
}

// New creates a Cache rooted at dir. The directory is created lazily on
// the first write.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// ReadIndex returns the cached index body.
// Returns an error when no cached copy exists.
func (c *Cache) ReadIndex() (string, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, indexFileName))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadETag returns the ETag the cached index was fetched with, or an
// empty string when none is stored.
func (c *Cache) ReadETag() string {
	data, err := os.ReadFile(filepath.Join(c.dir, etagFileName))
	if err != nil {
		return ""
	}
	return string(data)
}

// WriteIndex stores the index body and its ETag.
//
// An empty etag removes any stored one, so a server that stops sending
// ETags does not leave a stale validator behind. Returns the first write
// error; callers treat failures as a warning and continue uncached.
func (c *Cache) WriteIndex(body, etag string) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(c.dir, indexFileName), []byte(body), 0644); err != nil {
		return err
	}

	etagPath := filepath.Join(c.dir, etagFileName)
	if etag == "" {
		if err := os.Remove(etagPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	return os.WriteFile(etagPath, []byte(etag), 0644)
}

// Clear removes the cached index and ETag.
func (c *Cache) Clear() error {
	for _, name := range []string{indexFileName, etagFileName} {
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
