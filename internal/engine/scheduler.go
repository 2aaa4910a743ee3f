package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Update recursively resolves targets, memoizing in-flight work so each
// task's run executes at most once per call, and reports a single
// aggregated *BuildError if any requested target's owning task failed. src
// is a debug breadcrumb naming who requested this update (a task label, or
// "user" for the top-level driver call).
func (e *Engine) Update(ctx context.Context, targets []string, src string) error {
	chans := make([]<-chan struct{}, len(targets))
	resolveErrs := make([]error, len(targets))

	for i, t := range targets {
		ch, err := e.resolveTarget(ctx, t, src)
		if err != nil {
			resolveErrs[i] = err
			continue
		}
		chans[i] = ch
	}

	for i, ch := range chans {
		if ch == nil {
			continue
		}
		select {
		case <-ch:
		case <-ctx.Done():
			resolveErrs[i] = buildErrorf("update of %s cancelled: %v", targets[i], ctx.Err())
		}
	}

	var failures []string
	for i, t := range targets {
		if resolveErrs[i] != nil {
			failures = append(failures, resolveErrs[i].Error())
			continue
		}
		if task, ok := e.lookup(t); ok && e.taskFailed(task) {
			failures = append(failures, fmt.Sprintf("for lack of %s", t))
		}
	}
	if len(failures) > 0 {
		return buildErrorf("%s", strings.Join(failures, "; "))
	}
	return nil
}

// resolveTarget starts or awaits the task owning target, per the four cases
// of the scheduler's target-resolution table. A file target with no owning
// task is satisfied immediately if it exists and is readable.
func (e *Engine) resolveTarget(ctx context.Context, target, src string) (<-chan struct{}, error) {
	task, ok := e.lookup(target)
	if !ok {
		if IsAbstract(target) {
			return nil, buildErrorf("abstract target %s requested by %s is not defined", target, src)
		}
		path := target
		if !filepath.IsAbs(path) {
			path = filepath.Join(e.Root, target)
		}
		if _, err := os.Open(path); err != nil {
			return nil, buildErrorf("file %s requested by %s does not exist and no task produces it", target, src)
		}
		return closedChan(), nil
	}
	return e.startOrAwait(ctx, task, src), nil
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// startOrAwait implements the {Idle,Running,Done,Failed} per-task state
// machine: a task transitions Idle -> Running at most once per process,
// guarded under Engine's lock; every later requester awaits the same
// pending channel instead of re-entering run.
func (e *Engine) startOrAwait(ctx context.Context, task *Task, src string) <-chan struct{} {
	e.mu.Lock()
	rs := e.byLabel[task.Label]
	switch rs.state {
	case Idle:
		rs.state = Running
		rs.src = src
		rs.pending = make(chan struct{})
		pending := rs.pending
		e.mu.Unlock()
		go e.runTask(ctx, task, rs, pending)
		return pending
	case Running:
		pending := rs.pending
		e.mu.Unlock()
		return pending
	default: // Done or Failed: already settled.
		e.mu.Unlock()
		return closedChan()
	}
}

// runTask executes task's cache-check-then-run sequence and settles its
// run-state. It always closes pending exactly once on return.
func (e *Engine) runTask(ctx context.Context, task *Task, rs *taskRunState, pending chan struct{}) {
	defer close(pending)

	e.mu.Lock()
	cachedKey := rs.cachedKey
	e.mu.Unlock()

	if cachedKey != nil && task.Key != nil {
		newKey, err := task.Key(ctx, e)
		if err != nil {
			e.failTask(task, rs, err)
			return
		}
		if Equal(newKey, cachedKey) {
			e.Logger.Debug("skip (cache hit)", "task", task.Label)
			e.mu.Lock()
			rs.state = Done
			e.mu.Unlock()
			return
		}
	}

	e.Logger.Info("run", "task", task.Label, "src", rs.src)
	if err := task.Run(ctx, e); err != nil {
		e.failTask(task, rs, err)
		return
	}

	if task.Key != nil {
		newKey, err := task.Key(ctx, e)
		if err != nil {
			e.failTask(task, rs, err)
			return
		}
		e.mu.Lock()
		rs.cachedKey = newKey
		e.mu.Unlock()
	}

	e.mu.Lock()
	rs.state = Done
	e.mu.Unlock()
}

// failTask records a task-scoped failure. A non-BuildError is treated as an
// UnexpectedError and propagates by panicking the goroutine, which per Go
// convention aborts the process rather than being swallowed. It also clears
// any loaded cachedKey: a reached-but-failed task keeps no cached state,
// forcing re-evaluation on the next run regardless of what was on disk.
func (e *Engine) failTask(task *Task, rs *taskRunState, err error) {
	if !IsBuildError(err) {
		panic(err)
	}
	e.mu.Lock()
	rs.state = Failed
	rs.runErr = err
	rs.cachedKey = nil
	e.mu.Unlock()

	e.Logger.Error("task failed", "task", task.Label, "error", err)
	fmt.Fprintln(os.Stderr, e.paint(ansiRed, fmt.Sprintf("!!! FAILED [%s] %s", task.Label, err.Error())))
}
