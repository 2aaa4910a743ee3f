package engine

import (
	"crypto/md5"
	"encoding/base64"
	"os"
	"sync"
)

// unreadablePlaceholder is the digest substituted for a file that cannot be
// read (removed, permission denied, never existed).
const unreadablePlaceholder = "path:x"

// HashCache memoizes file-content digests by path for the lifetime of one
// process. Entries are invalidated explicitly, immediately before a task
// writes the corresponding path.
type HashCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewHashCache constructs an empty HashCache.
func NewHashCache() *HashCache {
	return &HashCache{entries: make(map[string]string)}
}

// Invalidate discards any memoized digest for path. Safe to call for a path
// with no existing entry.
func (c *HashCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// HashFile returns the memoized "path:"-prefixed base64 MD5 digest of path's
// content, computing and caching it if absent. A file that cannot be read
// yields unreadablePlaceholder.
func (c *HashCache) HashFile(path string) string {
	c.mu.Lock()
	if d, ok := c.entries[path]; ok {
		c.mu.Unlock()
		return d
	}
	c.mu.Unlock()

	digest := computeDigest(path)

	c.mu.Lock()
	c.entries[path] = digest
	c.mu.Unlock()
	return digest
}

func computeDigest(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return unreadablePlaceholder
	}
	sum := md5.Sum(b)
	return "path:" + base64.StdEncoding.EncodeToString(sum[:])
}

// HashFiles returns digests for targets in input order, skipping abstract
// targets entirely — they contribute nothing to a signature.
func (c *HashCache) HashFiles(targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if IsAbstract(t) {
			continue
		}
		out = append(out, c.HashFile(t))
	}
	return out
}
