// Package rules implements the Rule Builders (RULE, CPP, LINK): factories
// that install tasks into an engine.Engine's Task Registry with a run
// action and a key function.
package rules

import (
	"github.com/jcreedcmu/maek/internal/engine"
)

// Options is the schema shared by CPP and LINK. Zero values mean "use the
// platform default".
type Options struct {
	ObjPrefix string
	ObjSuffix string
	ExeSuffix string
	Depends   []string
	CPPFlags  []string
	LINKLibs  []string
}

// compilerArgv returns the base compiler invocation and the file suffixes
// for platform, per the platform flag schema. Windows is unimplemented and
// fails loudly at configuration time with a *engine.ConfigError.
func compilerArgv(platform engine.Platform) (compiler []string, objSuffix, exeSuffix string, err error) {
	switch platform {
	case engine.Linux:
		return []string{"g++", "-std=c++2a", "-Wall", "-Werror", "-g"}, ".o", "", nil
	case engine.MacOS:
		return []string{"clang++", "-std=c++2a", "-Wall", "-Werror", "-g"}, ".o", "", nil
	case engine.Windows:
		return nil, "", "", engine.NewConfigError("windows platform is not implemented for CPP/LINK")
	default:
		return nil, "", "", engine.NewConfigError("unknown platform: " + string(platform))
	}
}

// resolveOptions fills the zero fields of opts with platform defaults.
func resolveOptions(platform engine.Platform, opts Options) (Options, string, string, error) {
	_, objSuffix, exeSuffix, err := compilerArgv(platform)
	if err != nil {
		return opts, "", "", err
	}
	if opts.ObjPrefix == "" {
		opts.ObjPrefix = "objs/"
	}
	if opts.ObjSuffix == "" {
		opts.ObjSuffix = objSuffix
	}
	if opts.ExeSuffix == "" {
		opts.ExeSuffix = exeSuffix
	}
	return opts, opts.ObjSuffix, opts.ExeSuffix, nil
}
