// Package cli implements the thin driver surface: turning positional
// arguments into a target list, loading Engine Config, constructing the
// engine, and mapping its result to a process exit code.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "maek [targets...]",
	Short: "A small, parallel, content-addressed build engine",
	Long: `maek updates a requested set of targets with maximum parallelism,
skipping work whose inputs and outputs are unchanged since the previous
successful run. Positional arguments name the targets to build; with none
given, the default target is :dist.`,
	RunE: runBuild,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("maek version {{.Version}}\n")

	rootCmd.Flags().StringVar(&flagConfig, "config", "maek.yaml", "path to engine config file")
	rootCmd.Flags().StringVar(&flagCacheFile, "cache-file", "", "override the cache file path from config")
	rootCmd.Flags().IntVar(&flagJobs, "jobs", 0, "override the job pool size from config (0 = cpu_count+1)")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored command-runner output")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return exitCode
}
