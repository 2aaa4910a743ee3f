// Package engine implements the content-addressed build engine: the task
// graph data model, the job pool, the command runner, the hash cache, the
// scheduler, and the persistent cache store.
//
// It is intentionally split into:
//   - Immutable task declaration (Task): label, run action, key function.
//   - Mutable per-run state (taskRunState), owned exclusively by the Engine's
//     scheduler and addressed by the task's Label.
//
// Rule builders that install Tasks (RULE, CPP, LINK) live in package rules
// and call back into Engine's registration methods; engine itself knows
// nothing about compilers or recipes.
package engine
