package engine

import "fmt"

// ConfigError is a fatal startup failure: an unknown platform, or a rule
// builder invoked on an unsupported OS. It is never caught by the
// scheduler and always aborts configuration.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config error: " + e.Msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// NewConfigError builds a *ConfigError, for use by rule builders outside
// this package (CPP/LINK platform validation).
func NewConfigError(msg string) error {
	return &ConfigError{Msg: msg}
}

// BuildError is an expected, task-scoped failure: a non-zero exit, a spawn
// error, a missing file, an unresolved abstract target, or a generated-file
// dependency invariant violation. The scheduler catches BuildError at task
// boundaries; it never unwinds into sibling tasks.
type BuildError struct {
	Msg string
}

func (e *BuildError) Error() string { return e.Msg }

func buildErrorf(format string, args ...any) error {
	return &BuildError{Msg: fmt.Sprintf(format, args...)}
}

// NewBuildError builds a *BuildError, for use by rule builders outside this
// package (e.g. the CPP rule's generated-header invariant check).
func NewBuildError(format string, args ...any) error {
	return buildErrorf(format, args...)
}

// IsBuildError reports whether err is a *BuildError.
func IsBuildError(err error) bool {
	_, ok := err.(*BuildError)
	return ok
}
