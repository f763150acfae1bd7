// Package main implements fixturegen, which writes numbered PNG fixture
// images: each one a transparent canvas of random size showing its index in
// the largest font that fits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	rootpkg "tools.zach/dev/fixturegen"
	"tools.zach/dev/fixturegen/internal/atomicfile"
	"tools.zach/dev/fixturegen/internal/config"
	"tools.zach/dev/fixturegen/internal/generate"
	"tools.zach/dev/fixturegen/internal/logger"
	"tools.zach/dev/fixturegen/internal/paths"
	"tools.zach/dev/fixturegen/internal/watch"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via -ldflags "-X main.version=...". Bare
// builds fall back to the VCS stamp embedded by the toolchain.
var version = "dev"

func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	tag := "dev+" + revision[:min(7, len(revision))]
	if dirty {
		tag += ".dirty"
	}
	return tag
}

// ///////////////////////////////////////////////
// Flags
// ///////////////////////////////////////////////

// cliFlags holds parsed command-line values. Only flags present in set
// override the configuration file.
type cliFlags struct {
	configPath string
	count      int
	outDir     string
	minDim     int
	maxDim     int
	font       string
	color      string
	workers    int
	seed       uint64
	logLevel   string

	clean   bool
	watch   bool
	init    bool
	version bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: map[string]bool{}}
	flags := flag.NewFlagSet("fixturegen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVar(&f.configPath, "config", paths.ConfigFile, "Path to the TOML configuration (missing file uses defaults)")
	flags.IntVar(&f.count, "n", 0, "Number of images to generate")
	flags.StringVar(&f.outDir, "out", "", "Output directory")
	flags.IntVar(&f.minDim, "min", 0, "Minimum width and height in pixels")
	flags.IntVar(&f.maxDim, "max", 0, "Maximum width and height in pixels")
	flags.StringVar(&f.font, "font", "", `Preferred font source ("arial.ttf", "go:bold", "google:Roboto")`)
	flags.StringVar(&f.color, "color", "", "Text color as #RRGGBB or #RRGGBBAA")
	flags.IntVar(&f.workers, "workers", 0, "Concurrent renders (0 = one per CPU)")
	flags.Uint64Var(&f.seed, "seed", 0, "Random seed for canvas sizes (0 = time based)")
	flags.StringVar(&f.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.BoolVar(&f.clean, "clean", false, "Remove temp files left by interrupted runs before generating")
	flags.BoolVar(&f.watch, "watch", false, "Regenerate whenever the configuration file changes")
	flags.BoolVar(&f.init, "init", false, "Write the annotated default configuration to -config and exit")
	flags.BoolVar(&f.version, "version", false, "Print the version and exit")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	flags.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// applyOverrides copies every explicitly set flag onto cfg.
func applyOverrides(cfg *config.Config, f *cliFlags) {
	if f.set["n"] {
		cfg.Generate.Count = f.count
	}
	if f.set["out"] {
		cfg.Generate.OutDir = f.outDir
	}
	if f.set["min"] {
		cfg.Generate.MinDim = f.minDim
	}
	if f.set["max"] {
		cfg.Generate.MaxDim = f.maxDim
	}
	if f.set["font"] {
		cfg.Fonts.Preference = f.font
	}
	if f.set["color"] {
		cfg.Generate.Color = f.color
	}
	if f.set["workers"] {
		cfg.Generate.Workers = f.workers
	}
	if f.set["seed"] {
		cfg.Generate.Seed = f.seed
	}
	if f.set["log-level"] {
		cfg.Log.Level = f.logLevel
	}
}

// loadConfig reads the configuration file and layers the flags on top.
func loadConfig(f *cliFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, f)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// writeDefaultConfig writes the embedded annotated configuration to path.
// An existing file is never overwritten.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return atomicfile.Write(path, rootpkg.DefaultConfigTOML, 0o644)
}

// ///////////////////////////////////////////////
// Entry Point
// ///////////////////////////////////////////////

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code: 0 when every
// image was written, 1 otherwise. Cancelling ctx behaves like a signal.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "fixturegen: %v\n", err)
		return 1
	}

	if f.version {
		fmt.Fprintln(stdout, resolveVersion())
		return 0
	}
	if f.init {
		if err := writeDefaultConfig(f.configPath); err != nil {
			fmt.Fprintf(stderr, "fixturegen: init: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", f.configPath)
		return 0
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "fixturegen: %v\n", err)
		return 1
	}

	log, logCloser := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Log.Level),
		Console:   stderr,
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})
	defer logCloser.Close()
	slog.SetDefault(log)
	log.Debug("fixturegen starting", "version", resolveVersion(), "config", f.configPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigs, stopSignals := notifySignals()
	defer stopSignals()
	go func() {
		select {
		case sig := <-sigs:
			log.Warn("received signal, finishing in-flight images", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	if f.clean {
		cleanStale(cfg.Generate.OutDir, log)
	}

	ok := runOnce(ctx, cfg, log, stdout)
	if f.watch {
		ok = watchLoop(ctx, f, log, stdout, ok)
	}
	if !ok {
		return 1
	}
	return 0
}

func cleanStale(dir string, log *slog.Logger) {
	n, err := generate.CleanStale(dir)
	if err != nil {
		log.Warn("stale temp file cleanup incomplete", "dir", dir, "removed", n, "error", err)
		return
	}
	if n > 0 {
		log.Info("removed stale temp files", "dir", dir, "removed", n)
	}
}

// runOnce performs one generation and prints its summary. It reports
// whether every image was written.
func runOnce(ctx context.Context, cfg *config.Config, log *slog.Logger, stdout io.Writer) bool {
	opts, err := cfg.Options()
	if err != nil {
		logger.Fail(log, "cannot start generation", "error", err)
		return false
	}
	opts.Logger = log

	sum, err := generate.Generate(ctx, opts)
	if err != nil {
		logger.Fail(log, "cannot start generation", "error", err)
		return false
	}
	printSummary(stdout, sum, opts.Count, opts.OutDir)
	return sum.OK()
}

// settleDelay lets an editor finish a multi-step save before reloading.
const settleDelay = 150 * time.Millisecond

// watchLoop regenerates on every configuration change until ctx is
// cancelled. A change that fails to load is logged and skipped. The result
// reflects the last completed run, starting from ok.
func watchLoop(ctx context.Context, f *cliFlags, log *slog.Logger, stdout io.Writer, ok bool) bool {
	w, err := watch.New(f.configPath, log)
	if err != nil {
		logger.Fail(log, "cannot watch configuration", "path", f.configPath, "error", err)
		return false
	}
	defer w.Close()
	if w.Polling() {
		log.Info("using polling mode for file watching")
	}
	log.Info("watching configuration for changes", "path", w.Path())

	for {
		select {
		case <-ctx.Done():
			return ok
		case <-w.Events():
		}

		select {
		case <-ctx.Done():
			return ok
		case <-time.After(settleDelay):
		}
		// Drop the signal for writes that landed during the delay.
		select {
		case <-w.Events():
		default:
		}

		cfg, err := loadConfig(f)
		if err != nil {
			log.Error("configuration reload failed", "error", err)
			continue
		}
		log.Info("configuration changed, regenerating")
		ok = runOnce(ctx, cfg, log, stdout)
	}
}
