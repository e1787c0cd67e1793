package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrCacheMiss is returned by Read when no entry exists for the given key.
// Callers treat it as "compute the value and write it back".
var ErrCacheMiss = errors.New("cache miss")

// Cache categories. Each category maps to a subdirectory of the cache root
// holding one JSON file per key.
const (
	CategoryBooks  = "books"
	CategoryChunks = "chunks"
	CategoryGraphs = "graphs"
)

var categories = []string{CategoryBooks, CategoryChunks, CategoryGraphs}

// DiskCache is a keyed store of JSON-serializable values on the local
// filesystem, namespaced by category. There is no locking: concurrent
// writers to the same key race and the last write wins.
type DiskCache struct {
	root string
}

// Info describes the current contents of the cache.
type Info struct {
	Items     int   `json:"items"`
	SizeBytes int64 `json:"size_bytes"`
}

// New creates a DiskCache rooted at the given directory, creating the
// category subdirectories if they do not exist yet.
func New(root string) (*DiskCache, error) {
	c := &DiskCache{root: root}
	if err := c.ensureDirs(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *DiskCache) ensureDirs() error {
	for _, category := range categories {
		if err := os.MkdirAll(filepath.Join(c.root, category), 0o755); err != nil {
			return fmt.Errorf("failed to create cache dir: %w", err)
		}
	}
	return nil
}

// Root returns the cache root directory.
func (c *DiskCache) Root() string {
	return c.root
}

func (c *DiskCache) path(category, key string) string {
	return filepath.Join(c.root, category, sanitizeKey(key)+".json")
}

// sanitizeKey keeps keys safe to use as file names. Keys are derived from
// book ids and small enum parameters, so this only guards against
// separators and path traversal.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return replacer.Replace(key)
}

// Exists reports whether an entry is present for the given category and key.
func (c *DiskCache) Exists(category, key string) bool {
	_, err := os.Stat(c.path(category, key))
	return err == nil
}

// Read loads the entry for the given category and key into out.
// A missing entry returns ErrCacheMiss. A corrupt entry is removed
// and reported as a miss so the caller recomputes it.
func (c *DiskCache) Read(category, key string, out any) error {
	p := c.path(category, key)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to read cache entry: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		os.Remove(p)
		return ErrCacheMiss
	}
	return nil
}

// Write stores value under the given category and key, overwriting any
// previous entry.
func (c *DiskCache) Write(category, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	p := c.path(category, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Info walks the cache root and returns the number of entries and their
// total size in bytes.
func (c *DiskCache) Info() (Info, error) {
	info := Info{}
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		info.Items++
		info.SizeBytes += fi.Size()
		return nil
	})
	if err != nil {
		return Info{}, fmt.Errorf("failed to inspect cache: %w", err)
	}
	return info, nil
}

// Clear deletes every entry across all categories and recreates the empty
// category directories.
func (c *DiskCache) Clear() error {
	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return c.ensureDirs()
}
