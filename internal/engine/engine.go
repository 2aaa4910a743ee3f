package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jcreedcmu/maek/internal/logging"
)

// Platform selects the compiler/linker flag schema rule builders use.
type Platform string

const (
	Linux   Platform = "linux"
	MacOS   Platform = "macos"
	Windows Platform = "windows"
)

// Engine owns the Task Registry, Job Pool, Hash Cache, and the per-run
// scheduler state. It is constructed once per process invocation; Root
// anchors relative target paths instead of relying on a process-wide chdir.
type Engine struct {
	Root      string
	Platform  Platform
	Color     ColorMode
	Pool      *JobPool
	HashCache *HashCache
	Logger    *logging.Logger

	exec ExecFunc // injectable for tests; nil means defaultExec

	mu       sync.Mutex
	tasks    map[string]*Task         // target -> owning task
	byLabel  map[string]*taskRunState // Task.Label -> run-state
	registry []*Task                  // insertion order, for cache-store iteration
}

// New constructs an Engine rooted at root with the given platform, job
// pool size (0 = cpu_count+1), and color mode.
func New(root string, platform Platform, jobs int, color ColorMode, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.New(logging.Info)
	}
	return &Engine{
		Root:      root,
		Platform:  platform,
		Color:     color,
		Pool:      NewJobPool(jobs),
		HashCache: NewHashCache(),
		Logger:    logger,
		tasks:     make(map[string]*Task),
		byLabel:   make(map[string]*taskRunState),
	}
}

// Register installs task into the Task Registry, mapping every one of its
// declared targets to it. Registering a target already owned by another
// task is a configuration bug and panics — this can only happen from driver
// code executed at configuration time, never at run time.
func (e *Engine) Register(task *Task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, t := range task.Targets {
		if existing, ok := e.tasks[t]; ok {
			panic(fmt.Sprintf("target %q already owned by task %q", t, existing.Label))
		}
		e.tasks[t] = task
	}
	e.byLabel[task.Label] = &taskRunState{state: Idle}
	e.registry = append(e.registry, task)
}

// HasTask reports whether target is owned by a registered task.
func (e *Engine) HasTask(target string) bool {
	_, ok := e.lookup(target)
	return ok
}

// lookup returns the task owning target, if any.
func (e *Engine) lookup(target string) (*Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tasks[target]
	return t, ok
}

// runState returns the mutable run-state for task, creating none — every
// registered task has one from Register.
func (e *Engine) runState(task *Task) *taskRunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.byLabel[task.Label]
}

// AllTasks returns every registered task in registration order, for the
// Persistent Cache Store's end-of-run flush.
func (e *Engine) AllTasks() []*Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Task, len(e.registry))
	copy(out, e.registry)
	return out
}

// sortedTargetsFor returns all of task's declared targets, sorted, for
// deterministic cache-file iteration.
func (e *Engine) sortedTargetsFor(task *Task) []string {
	out := append([]string(nil), task.Targets...)
	sort.Strings(out)
	return out
}

// CachedKey returns the currently recorded cachedKey for task (loaded at
// startup by the Persistent Cache Store, or set by a prior successful run
// within this process).
func (e *Engine) CachedKey(task *Task) Key {
	rs := e.runState(task)
	if rs == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return rs.cachedKey
}

// setCachedKey assigns task's run-state cachedKey, used both by the cache
// store loader and by a successful scheduler run.
func (e *Engine) setCachedKey(task *Task, k Key) {
	rs := e.runState(task)
	e.mu.Lock()
	rs.cachedKey = k
	e.mu.Unlock()
}

// taskFailed reports whether task's run-state is Failed, for the
// scheduler's two-phase settle.
func (e *Engine) taskFailed(task *Task) bool {
	rs := e.runState(task)
	e.mu.Lock()
	defer e.mu.Unlock()
	return rs.state == Failed
}

// HashFile returns the digest of a single file target, resolved against Root.
func (e *Engine) HashFile(target string) string {
	return e.HashCache.HashFile(e.ResolvePath(target))
}

// HashFiles returns digests for a list of targets, resolved against Root,
// skipping abstract targets. Order follows the input.
func (e *Engine) HashFiles(targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if IsAbstract(t) {
			continue
		}
		out = append(out, e.HashFile(t))
	}
	return out
}

// InvalidateHash discards the memoized digest for a file target, resolved
// against Root. Call immediately before a task writes that path.
func (e *Engine) InvalidateHash(target string) {
	e.HashCache.Invalidate(e.ResolvePath(target))
}
