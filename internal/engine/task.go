package engine

import "context"

// RunFunc brings a task's targets up to date, assuming prerequisites are
// already current. It must leave every declared file target existing and
// readable on successful return.
type RunFunc func(ctx context.Context, e *Engine) error

// KeyFunc produces a deterministic signature of a task's inputs, outputs,
// and command parameters. A nil KeyFunc means the task is never cached
// (used for tasks that own only abstract targets).
type KeyFunc func(ctx context.Context, e *Engine) (Key, error)

// Task is the immutable declaration of a unit of work. Structurally
// immutable once installed; all per-run bookkeeping (src, pending state,
// cachedKey, failed) lives in taskRunState, owned by the scheduler.
type Task struct {
	Label   string
	Targets []string
	Run     RunFunc
	Key     KeyFunc
}

// TaskState is the lifecycle of one task within one Engine. It is not reset
// between Update calls, so a settled task stays Done or Failed.
type TaskState int

const (
	// Idle: not yet requested in this run.
	Idle TaskState = iota
	// Running: run has been started; other requesters await the same future.
	Running
	// Done: run completed successfully (or was skipped via cache hit).
	Done
	// Failed: run (or an awaited prerequisite) raised a BuildError.
	Failed
)

func (s TaskState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// taskRunState is the mutable, per-run bookkeeping for one task, addressed
// by the Task's Label (registration guarantees one Task per set of targets,
// so Label doubles as a stable run-state key).
type taskRunState struct {
	state     TaskState
	src       string
	pending   chan struct{} // closed when the task's run settles (Done or Failed)
	cachedKey Key           // loaded at startup; overwritten on successful run
	runErr    error         // the BuildError that caused Failed, if any
}
