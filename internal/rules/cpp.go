package rules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jcreedcmu/maek/internal/engine"
)

// depSentinel is the synthetic makefile target name passed to the compiler
// via -MT so the emitted .d fragment can be parsed deterministically
// regardless of the real object path. It carries a trailing space, so the
// emitted fragment begins "x :" and loadDeps checks for the bare tokens "x"
// and ":".
const depSentinel = "x "

// CPP installs a task compiling cppFile to an object file, discovering
// header dependencies dynamically from the compiler's own -M output. It
// returns the object file path. objBase defaults to
// opts.ObjPrefix + strip_extension(cppFile).
func CPP(e *engine.Engine, cppFile string, objBase string, opts Options) (string, error) {
	opts, objSuffix, _, err := resolveOptions(e.Platform, opts)
	if err != nil {
		return "", err
	}
	if objBase == "" {
		objBase = opts.ObjPrefix + stripExtension(cppFile)
	}
	objFile := objBase + objSuffix
	depsFile := objBase + ".d"

	cc, _, _, err := compilerArgv(e.Platform)
	if err != nil {
		return "", err
	}
	cc = append(append([]string{}, cc...), opts.CPPFlags...)

	objCommand := append(append([]string{}, cc...), "-c", "-o", objFile, cppFile)
	depsCommand := append(append([]string{}, cc...), "-E", "-M", "-MG", "-MT", depSentinel, "-MF", depsFile, cppFile)

	explicitDepends := append([]string{cppFile}, opts.Depends...)
	explicitSet := make(map[string]bool, len(explicitDepends))
	for _, d := range explicitDepends {
		explicitSet[d] = true
	}

	label := "CPP " + objFile

	run := func(ctx context.Context, e *engine.Engine) error {
		if err := e.Update(ctx, explicitDepends, label); err != nil {
			return err
		}

		e.InvalidateHash(objFile)
		if err := os.MkdirAll(filepath.Dir(e.ResolvePath(objFile)), 0o755); err != nil {
			return engine.NewBuildError("%s: creating object directory: %v", label, err)
		}
		if err := e.RunCommand(ctx, objCommand, label); err != nil {
			return err
		}

		e.InvalidateHash(depsFile)
		if err := os.MkdirAll(filepath.Dir(e.ResolvePath(depsFile)), 0o755); err != nil {
			return engine.NewBuildError("%s: creating deps directory: %v", label, err)
		}
		if err := e.RunCommand(ctx, depsCommand, label+" (deps)"); err != nil {
			return err
		}

		deps, err := loadDeps(e.ResolvePath(depsFile))
		if err != nil {
			return engine.NewBuildError("%s: reading %s: %v", label, depsFile, err)
		}
		if _, err := checkGeneratedHeaders(e, label, deps, explicitSet); err != nil {
			return err
		}
		return nil
	}

	key := func(ctx context.Context, e *engine.Engine) (engine.Key, error) {
		if err := e.Update(ctx, explicitDepends, label); err != nil {
			return nil, err
		}
		deps, err := loadDeps(e.ResolvePath(depsFile))
		if err != nil {
			return nil, engine.NewBuildError("%s: reading %s: %v", label, depsFile, err)
		}
		extra, err := checkGeneratedHeaders(e, label, deps, explicitSet)
		if err != nil {
			return nil, err
		}

		all := append([]string{objFile, depsFile}, explicitDepends...)
		all = append(all, extra...)

		k := engine.Key{objCommand, depsCommand}
		for _, h := range e.HashFiles(all) {
			k = append(k, h)
		}
		return k, nil
	}

	task := &engine.Task{Label: label, Targets: []string{objFile}, Run: run, Key: key}
	e.Register(task)
	return objFile, nil
}

// checkGeneratedHeaders filters deps down to "extra depends" (those not
// already in explicitSet) and fails with a *BuildError if any extra depend
// is itself a registered target — a generated header the scheduler could
// not have discovered an edge to ahead of time.
func checkGeneratedHeaders(e *engine.Engine, label string, deps []string, explicitSet map[string]bool) ([]string, error) {
	extra := make([]string, 0, len(deps))
	var offending []string
	for _, d := range deps {
		if explicitSet[d] {
			continue
		}
		extra = append(extra, d)
		if e.HasTask(d) {
			offending = append(offending, d)
		}
	}
	if len(offending) > 0 {
		sort.Strings(offending)
		return nil, engine.NewBuildError("%s: generated files cannot be used as headers: %s", label, strings.Join(offending, ", "))
	}
	return extra, nil
}

// loadDeps reads and parses a GNU-make dependency fragment produced by
// `-E -M -MG -MT "x " -MF path`. A missing file means first-time build and
// yields an empty list, not an error.
func loadDeps(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	joined := strings.ReplaceAll(string(raw), "\\\n", " ")
	joined = strings.ReplaceAll(joined, "\n", " ")
	tokens := splitDepTokens(strings.TrimSpace(joined))

	if len(tokens) < 2 || tokens[0] != "x" || tokens[1] != ":" {
		return nil, fmt.Errorf("malformed deps file %s: missing sentinel target", path)
	}
	tokens = tokens[2:]
	sort.Strings(tokens)
	return tokens, nil
}

// splitDepTokens splits s on runs of whitespace, except where a whitespace
// character is escaped by a preceding backslash (in which case the
// backslash is dropped and the space kept as part of the token).
func splitDepTokens(s string) []string {
	var tokens []string
	var cur strings.Builder

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		c := runes[i]
		if isSpace(c) {
			if buf := cur.String(); len(buf) > 0 && buf[len(buf)-1] == '\\' {
				cur.Reset()
				cur.WriteString(buf[:len(buf)-1])
				cur.WriteRune(' ')
				i++
				continue
			}
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			for i < len(runes) && isSpace(runes[i]) {
				i++
			}
			continue
		}
		cur.WriteRune(c)
		i++
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// stripExtension removes the final "." extension from path, if any.
func stripExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return path
	}
	return strings.TrimSuffix(path, ext)
}
