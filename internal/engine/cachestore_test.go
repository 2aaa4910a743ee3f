package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStoreLoadMissingFileIsBenign(t *testing.T) {
	e := New(t.TempDir(), Linux, 1, ColorNever, nil)
	store := NewCacheStore(filepath.Join(t.TempDir(), "maek-cache.json"))
	removed := store.Load(e)
	assert.Equal(t, 0, removed)
}

func TestCacheStoreLoadAssignsKnownTargetsAndCountsUnknown(t *testing.T) {
	e := New(t.TempDir(), Linux, 1, ColorNever, nil)
	task := &Task{Label: "T objs/a.o", Targets: []string{"objs/a.o"}}
	e.Register(task)

	cachePath := filepath.Join(t.TempDir(), "maek-cache.json")
	data, _ := json.Marshal(map[string]any{
		"objs/a.o":   []any{"cmd", "path:abc"},
		"objs/b.o":   []any{"cmd", "path:def"}, // not registered -> removed
		":abstract":  []any{"should never apply to an abstract owner"},
	})
	require.NoError(t, os.WriteFile(cachePath, data, 0o644))

	store := NewCacheStore(cachePath)
	removed := store.Load(e)
	assert.Equal(t, 2, removed)
	assert.True(t, Equal(e.CachedKey(task), Key{"cmd", "path:abc"}))
}

func TestCacheStoreFlushExcludesAbstractAndFailedTasks(t *testing.T) {
	e := New(t.TempDir(), Linux, 2, ColorNever, nil)

	built := &Task{
		Label:   "T objs/a.o",
		Targets: []string{"objs/a.o"},
		Run:     func(ctx context.Context, e *Engine) error { return nil },
		Key:     func(ctx context.Context, e *Engine) (Key, error) { return Key{"cmd", "path:abc"}, nil },
	}
	abstract := &Task{
		Label:   "T :test",
		Targets: []string{":test"},
		Run:     func(ctx context.Context, e *Engine) error { return nil },
		// no Key: abstract targets are never cached.
	}
	failing := &Task{
		Label:   "T objs/bad.o",
		Targets: []string{"objs/bad.o"},
		Run:     func(ctx context.Context, e *Engine) error { return NewBuildError("compile error") },
		Key:     func(ctx context.Context, e *Engine) (Key, error) { return Key{"cmd", "path:bad"}, nil },
	}
	e.Register(built)
	e.Register(abstract)
	e.Register(failing)

	// Simulate a prior successful run that cached objs/bad.o, as in
	// scenario S6: this run's source change makes its key recompute to
	// something different, it is reached, its recipe fails, and the
	// stale loaded key must not survive the flush.
	e.setCachedKey(failing, Key{"cmd", "path:stale-before-break"})

	err := e.Update(context.Background(), []string{"objs/a.o", ":test", "objs/bad.o"}, "user")
	require.Error(t, err)

	cachePath := filepath.Join(t.TempDir(), "maek-cache.json")
	store := NewCacheStore(cachePath)
	require.NoError(t, store.Flush(e))

	raw, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))

	_, hasBuilt := data["objs/a.o"]
	_, hasAbstract := data[":test"]
	_, hasFailed := data["objs/bad.o"]

	assert.True(t, hasBuilt)
	assert.False(t, hasAbstract, "abstract targets must never appear in the cache file")
	assert.False(t, hasFailed, "a failed task drops its cachedKey")
}

func TestCacheStoreFlushKeepsUnreachedTaskKey(t *testing.T) {
	e := New(t.TempDir(), Linux, 1, ColorNever, nil)
	task := &Task{Label: "T objs/untouched.o", Targets: []string{"objs/untouched.o"}}
	e.Register(task)
	e.setCachedKey(task, Key{"cmd", "path:stale"})

	// Never call Update — simulate a target never requested this run.
	cachePath := filepath.Join(t.TempDir(), "maek-cache.json")
	store := NewCacheStore(cachePath)
	require.NoError(t, store.Flush(e))

	raw, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))
	_, ok := data["objs/untouched.o"]
	assert.True(t, ok, "an unreached task keeps whatever cachedKey it loaded")
}
