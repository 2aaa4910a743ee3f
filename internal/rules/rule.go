package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcreedcmu/maek/internal/engine"
)

// RULE installs a task that updates prerequisites, then runs recipe
// sequentially through the Command Runner, then invalidates the hash cache
// for every declared target. The returned task has no Key (and is never
// cached) iff any declared target is abstract.
func RULE(e *engine.Engine, targets []string, prerequisites []string, recipe [][]string) *engine.Task {
	label := ruleLabel(targets)

	run := func(ctx context.Context, e *engine.Engine) error {
		if err := e.Update(ctx, prerequisites, label); err != nil {
			return err
		}
		for i, cmd := range recipe {
			step := fmt.Sprintf("%s (%d/%d)", label, i+1, len(recipe))
			if err := e.RunCommand(ctx, cmd, step); err != nil {
				return err
			}
		}
		for _, t := range targets {
			if !engine.IsAbstract(t) {
				e.InvalidateHash(t)
			}
		}
		return nil
	}

	task := &engine.Task{Label: label, Targets: targets, Run: run}

	if !anyAbstract(targets) {
		task.Key = func(ctx context.Context, e *engine.Engine) (engine.Key, error) {
			if err := e.Update(ctx, prerequisites, label); err != nil {
				return nil, err
			}
			key := make(engine.Key, 0, len(recipe)+len(targets)+len(prerequisites))
			for _, cmd := range recipe {
				key = append(key, cmd)
			}
			all := append(append([]string{}, targets...), prerequisites...)
			for _, h := range e.HashFiles(all) {
				key = append(key, h)
			}
			return key, nil
		}
	}

	e.Register(task)
	return task
}

func anyAbstract(targets []string) bool {
	for _, t := range targets {
		if engine.IsAbstract(t) {
			return true
		}
	}
	return false
}

func ruleLabel(targets []string) string {
	return "RULE " + strings.Join(targets, " ")
}
