package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jcreedcmu/maek/internal/config"
	"github.com/jcreedcmu/maek/internal/engine"
	"github.com/jcreedcmu/maek/internal/logging"
)

var (
	flagConfig    string
	flagCacheFile string
	flagJobs      int
	flagNoColor   bool
)

// exitCode is set by runBuild once the engine's build result is known;
// Execute reads it after rootCmd.Execute returns with a nil error.
var exitCode int

// Configure installs the driver's task-graph registration function. A
// driver's main package calls this before cli.Execute.
type Configure func(e *engine.Engine) error

var configure Configure

// SetConfigure installs fn as the driver's registration hook.
func SetConfigure(fn Configure) {
	configure = fn
}

func exitCodeFor(err error) int {
	fmt.Fprintln(os.Stderr, err.Error())
	return 2
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagCacheFile != "" {
		cfg.CacheFile = flagCacheFile
	}
	if flagJobs != 0 {
		cfg.Jobs = flagJobs
	}
	if flagNoColor {
		cfg.Color = "never"
	}

	platform := resolvePlatform(cfg.Platform)
	color := resolveColor(cfg.Color)

	logger := logging.New(logging.Info)
	e := engine.New(".", platform, cfg.Jobs, color, logger)

	if configure == nil {
		return engine.NewConfigError("no driver configured this build (cli.SetConfigure was never called)")
	}
	if err := configure(e); err != nil {
		return err
	}

	store := engine.NewCacheStore(cfg.CacheFile)
	removed := store.Load(e)
	logger.Debug("loaded cache", "file", cfg.CacheFile, "removed", removed)

	targets := args
	if len(targets) == 0 {
		targets = []string{":dist"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buildErr := e.Update(ctx, targets, "user")

	if flushErr := store.Flush(e); flushErr != nil {
		return fmt.Errorf("writing cache file: %w", flushErr)
	}

	if buildErr != nil {
		fmt.Fprintln(os.Stderr, "FAILED: "+buildErr.Error())
		exitCode = 1
		return nil
	}

	fmt.Println("Targets are now up to date")
	exitCode = 0
	return nil
}

func resolvePlatform(override string) engine.Platform {
	switch override {
	case "linux":
		return engine.Linux
	case "macos":
		return engine.MacOS
	case "windows":
		return engine.Windows
	}
	switch runtime.GOOS {
	case "darwin":
		return engine.MacOS
	case "windows":
		return engine.Windows
	default:
		return engine.Linux
	}
}

func resolveColor(mode string) engine.ColorMode {
	switch mode {
	case "always":
		return engine.ColorAlways
	case "never":
		return engine.ColorNever
	default:
		return engine.ColorAuto
	}
}
