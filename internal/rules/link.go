package rules

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jcreedcmu/maek/internal/engine"
)

// LINK installs a task linking objFiles into an executable at
// exeBase + platform_exe_suffix. It returns the executable path.
func LINK(e *engine.Engine, objFiles []string, exeBase string, opts Options) (string, error) {
	opts, _, exeSuffix, err := resolveOptions(e.Platform, opts)
	if err != nil {
		return "", err
	}
	exeFile := exeBase + exeSuffix

	cc, _, _, err := compilerArgv(e.Platform)
	if err != nil {
		return "", err
	}
	// Only the compiler-as-linker-driver binary carries over here: -std,
	// -Wall, -Werror, -g are compile-time flags and have no link-time effect.
	linkCommand := append([]string{cc[0]}, "-o", exeFile)
	linkCommand = append(linkCommand, objFiles...)
	linkCommand = append(linkCommand, opts.LINKLibs...)

	depends := append(append([]string{}, objFiles...), opts.Depends...)

	label := "LINK " + exeFile

	run := func(ctx context.Context, e *engine.Engine) error {
		if err := e.Update(ctx, depends, label); err != nil {
			return err
		}
		e.InvalidateHash(exeFile)
		if err := os.MkdirAll(filepath.Dir(e.ResolvePath(exeFile)), 0o755); err != nil {
			return engine.NewBuildError("%s: creating output directory: %v", label, err)
		}
		return e.RunCommand(ctx, linkCommand, label)
	}

	key := func(ctx context.Context, e *engine.Engine) (engine.Key, error) {
		if err := e.Update(ctx, depends, label); err != nil {
			return nil, err
		}
		all := append([]string{exeFile}, depends...)
		k := engine.Key{linkCommand}
		for _, h := range e.HashFiles(all) {
			k = append(k, h)
		}
		return k, nil
	}

	task := &engine.Task{Label: label, Targets: []string{exeFile}, Run: run, Key: key}
	e.Register(task)
	return exeFile, nil
}
