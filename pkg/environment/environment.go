// Package environment provides the file access the document reader needs
// while building the tree, such as reading images that are inlined.
package environment

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/yaklabco/adocast/pkg/fsutil"
)

// ErrNotFound is returned when a path cannot be resolved.
var ErrNotFound = errors.New("file not found")

// Env reads files referenced by a document.
type Env interface {
	ReadToString(ctx context.Context, path string) (string, error)
}

// IO reads from the file system. Relative paths resolve against Dir when it
// is set, otherwise against the working directory.
type IO struct {
	Dir string
}

// NewIO returns an IO environment rooted at dir.
func NewIO(dir string) *IO {
	return &IO{Dir: dir}
}

// ReadToString reads the file at path.
func (e *IO) ReadToString(ctx context.Context, path string) (string, error) {
	if e.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.Dir, path)
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return "", err
	}

	return string(content), nil
}

// Cache serves files from memory. Misses are read through Fallback, when
// set, and remembered. It is safe for concurrent use; concurrent misses on
// one path share a single fallback read.
type Cache struct {
	Fallback Env

	group singleflight.Group

	mu    sync.Mutex
	files map[string]string
	reads int
}

// NewCache returns an empty cache reading misses through fallback, which
// may be nil.
func NewCache(fallback Env) *Cache {
	return &Cache{
		Fallback: fallback,
		files:    make(map[string]string),
	}
}

// Put stores content under path.
func (c *Cache) Put(path, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.files == nil {
		c.files = make(map[string]string)
	}
	c.files[path] = content
}

// ReadToString returns the cached content of path.
func (c *Cache) ReadToString(ctx context.Context, path string) (string, error) {
	if content, ok := c.lookup(path); ok {
		return content, nil
	}
	if c.Fallback == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	value, err, _ := c.group.Do(path, func() (any, error) {
		if content, ok := c.lookup(path); ok {
			return content, nil
		}

		content, err := c.Fallback.ReadToString(ctx, path)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.reads++
		if c.files == nil {
			c.files = make(map[string]string)
		}
		c.files[path] = content

		return content, nil
	})
	if err != nil {
		return "", err
	}

	content, _ := value.(string)
	return content, nil
}

func (c *Cache) lookup(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	content, ok := c.files[path]
	return content, ok
}

// FallbackReads returns how many misses were read through Fallback.
func (c *Cache) FallbackReads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}
