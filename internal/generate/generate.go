// Package generate fans fixture image synthesis out over a bounded worker
// pool.
//
// Every index moves through the same pipeline: a canvas size is drawn, the
// largest fitting font is found, the label is rendered, and the PNG is
// committed with an atomic rename. Workers share only the read-only font
// candidate list and the output directory. Failures are collected per index
// and reported once the pool has drained; one bad index never stops its
// siblings.
package generate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"tools.zach/dev/fixturegen/internal/atomicfile"
	"tools.zach/dev/fixturegen/internal/fit"
	"tools.zach/dev/fixturegen/internal/fontsrc"
	"tools.zach/dev/fixturegen/internal/logger"
	"tools.zach/dev/fixturegen/internal/paths"
	"tools.zach/dev/fixturegen/internal/render"
)

// task is one dispatched index with its drawn canvas.
type task struct {
	index  int
	canvas fit.Canvas
}

// result is what a worker reports for a task.
type result struct {
	index    int
	path     string
	fallback bool
	skipped  bool
	err      error
}

// commitFunc persists a rendered image.
type commitFunc func(path string, img image.Image) error

// runner holds the read-only state shared by all workers of one run.
type runner struct {
	out      paths.OutputDir
	resolver fit.FaceResolver
	color    color.Color
	log      *slog.Logger
	commit   commitFunc
}

// Generate renders opts.Count images into opts.OutDir.
//
// The returned error is non-nil only when the run could not start: invalid
// options, unparseable font candidates, or an output directory that cannot
// be created. Per-index outcomes are in the [Summary].
//
// Cancelling ctx stops dispatch. An image whose pipeline has started is
// still committed; the rest are reported as skipped.
func Generate(ctx context.Context, opts Options) (*Summary, error) {
	return run(ctx, opts, atomicfile.WritePNG)
}

func run(ctx context.Context, opts Options, commit commitFunc) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()

	resolver, err := fontsrc.NewFromSpecs(o.FontPreference, o.FontCandidates, o.FontCacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	r := &runner{
		out:      paths.OutputDir{Root: o.OutDir},
		resolver: resolver,
		color:    o.Color,
		log:      o.Logger,
		commit:   commit,
	}

	names := make([]string, 0, len(resolver.Sources()))
	for _, src := range resolver.Sources() {
		names = append(names, src.Name())
	}
	o.Logger.Debug("font candidates", "sources", names)
	o.Logger.Info("generation started",
		"count", o.Count, "out_dir", o.OutDir, "min_dim", o.MinDim, "max_dim", o.MaxDim, "workers", o.Workers)

	start := time.Now()
	// Unbuffered: a handoff happens only when a worker is ready to start.
	tasks := make(chan task)
	results := make(chan result, o.Workers)
	var skipped []int

	var g errgroup.Group
	g.Go(func() error {
		defer close(tasks)
		skipped = dispatch(ctx, tasks, o.Count, o.MinDim, o.MaxDim, o.Rand)
		return nil
	})
	for range o.Workers {
		g.Go(func() error {
			for t := range tasks {
				if ctx.Err() != nil {
					results <- result{index: t.index, skipped: true}
					continue
				}
				results <- r.process(t)
			}
			return nil
		})
	}
	go func() {
		g.Wait()
		close(results)
	}()

	sum := &Summary{}
	var late []int
	for res := range results {
		if res.skipped {
			late = append(late, res.index)
			continue
		}
		if res.err == nil {
			sum.Succeeded = append(sum.Succeeded, res.index)
			if res.fallback {
				sum.Fallbacks++
			}
			continue
		}
		f := newFailure(res)
		if f.CrossDevice {
			o.Logger.Error("image failed", "index", f.Index, "path", f.Path, "kind", f.Kind.String(),
				"cross_device", true, "hint", "output directory must be on one filesystem", "error", f.Err)
		} else {
			o.Logger.Error("image failed", "index", f.Index, "path", f.Path, "kind", f.Kind.String(), "error", f.Err)
		}
		sum.Failed = append(sum.Failed, f)
	}
	// results is closed only after g.Wait returned, so the dispatcher's
	// write to skipped is visible here.
	sum.Skipped = append(skipped, late...)
	sum.Elapsed = time.Since(start)
	sum.sort()

	o.Logger.Info("generation finished",
		"succeeded", len(sum.Succeeded), "failed", len(sum.Failed), "skipped", len(sum.Skipped),
		"fallbacks", sum.Fallbacks, "elapsed", sum.Elapsed.Round(time.Millisecond))
	return sum, nil
}

// dispatch draws a canvas for each index in order and hands it to the pool.
// It returns the indices it never dispatched because ctx was cancelled.
func dispatch(ctx context.Context, tasks chan<- task, count, minDim, maxDim int, rng *rand.Rand) []int {
	for i := 1; i <= count; i++ {
		if ctx.Err() != nil {
			return remaining(i, count)
		}
		t := task{index: i, canvas: fit.Canvas{
			Width:  minDim + rng.IntN(maxDim-minDim+1),
			Height: minDim + rng.IntN(maxDim-minDim+1),
		}}
		select {
		case tasks <- t:
		case <-ctx.Done():
			return remaining(i, count)
		}
	}
	return nil
}

// remaining lists the indices from..to inclusive.
func remaining(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// process runs the whole pipeline for one index: fit, render, commit.
func (r *runner) process(t task) result {
	path := r.out.Image(t.index)
	text := strconv.Itoa(t.index)

	fitted := fit.Fit(text, t.canvas, r.resolver)
	defer fitted.Close()
	if fitted.ResolveErr != nil {
		r.log.Debug("font resolution failed, keeping best size found", "index", t.index, "size", fitted.Size, "error", fitted.ResolveErr)
	}
	if fitted.Fallback {
		r.log.Debug("using fallback font", "index", t.index, "width", t.canvas.Width, "height", t.canvas.Height)
	}

	img := render.Render(text, t.canvas, fitted, r.color)
	if err := r.commit(path, img); err != nil {
		return result{index: t.index, path: path, err: err}
	}

	logger.Trace(r.log, "image committed",
		"index", t.index, "width", t.canvas.Width, "height", t.canvas.Height,
		"font", fitted.Source, "size", fitted.Size)
	return result{index: t.index, path: path, fallback: fitted.Fallback}
}

// newFailure classifies a failed result by the atomicfile error it carries.
func newFailure(res result) Failure {
	f := Failure{Index: res.index, Path: res.path, Kind: EncodingFailure, Err: res.err}
	var commitErr *atomicfile.CommitError
	if errors.As(res.err, &commitErr) {
		f.Kind = CommitFailure
		f.CrossDevice = commitErr.CrossDevice()
	}
	return f
}

// CleanStale removes temp files abandoned in dir by interrupted runs.
func CleanStale(dir string) (int, error) {
	return atomicfile.RemoveStale(dir, paths.ImageGlob)
}
