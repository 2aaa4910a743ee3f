package engine

import (
	"encoding/json"
	"errors"
	"os"
)

// CacheStore is the Persistent Cache Store: it loads prior per-target keys
// from a JSON file at process start and writes surviving keys back at the
// end of a run. The on-disk schema is {target: key, ...}; there is no
// schema version.
type CacheStore struct {
	Path string
}

// NewCacheStore constructs a store backed by path.
func NewCacheStore(path string) *CacheStore {
	return &CacheStore{Path: path}
}

// Load reads the cache file and assigns each registered task's cachedKey
// from any entry naming one of its targets. A missing file is a benign
// fresh start; any other read or parse error is logged but not fatal —
// the run proceeds as if the cache were empty. Returns the count of
// entries whose target name is unknown to e ("removed").
func (s *CacheStore) Load(e *Engine) (removed int) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			e.Logger.Warn("cache file unreadable, starting fresh", "path", s.Path, "error", err)
		}
		return 0
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		e.Logger.Warn("cache file corrupt, starting fresh", "path", s.Path, "error", err)
		return 0
	}

	for target, rawKey := range data {
		task, ok := e.lookup(target)
		if !ok {
			removed++
			continue
		}
		e.setCachedKey(task, KeyFromCacheValue(rawKey))
	}
	return removed
}

// Flush serializes {target: task.cachedKey} for every registered task that
// has a non-nil cachedKey and writes it to the cache file. A task that was
// never reached this run keeps whatever cachedKey it loaded; a task that
// failed has none, since the scheduler's failTask clears any loaded key.
// Write errors are fatal (returned).
func (s *CacheStore) Flush(e *Engine) error {
	out := make(map[string]any)
	for _, task := range e.AllTasks() {
		k := e.CachedKey(task)
		if k == nil {
			continue
		}
		for _, target := range e.sortedTargetsFor(task) {
			out[target] = []any(k)
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, b, 0o644)
}
