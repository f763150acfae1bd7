package generate

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"tools.zach/dev/fixturegen/internal/fontsrc"
	"tools.zach/dev/fixturegen/internal/render"
)

// ErrInvalidInput wraps every rejection from [Options.Validate].
var ErrInvalidInput = errors.New("invalid input")

// Options configures a [Generate] run.
type Options struct {
	// Count is the number of images; indices run from 1 to Count.
	Count int
	// OutDir receives the artifacts. It is created if missing.
	OutDir string
	// MinDim and MaxDim bound both width and height, inclusive.
	MinDim int
	MaxDim int
	// FontPreference is tried before FontCandidates when non-empty.
	FontPreference string
	// FontCandidates defaults to [fontsrc.DefaultCandidates] when nil.
	FontCandidates []string
	// FontCacheDir caches downloaded fonts. Empty disables caching.
	FontCacheDir string
	// Color of the label; nil means [render.DefaultColor].
	Color color.Color
	// Workers bounds concurrency; 0 means runtime.NumCPU().
	Workers int
	// Rand draws canvas sizes. Nil means a time-seeded source, so runs
	// differ unless the caller seeds one explicitly.
	Rand *rand.Rand
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Validate rejects options that cannot produce a run.
func (o *Options) Validate() error {
	switch {
	case o.Count <= 0:
		return fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidInput, o.Count)
	case o.OutDir == "":
		return fmt.Errorf("%w: output directory is required", ErrInvalidInput)
	case o.MinDim <= 0:
		return fmt.Errorf("%w: min dimension must be > 0, got %d", ErrInvalidInput, o.MinDim)
	case o.MinDim > o.MaxDim:
		return fmt.Errorf("%w: min dimension %d exceeds max dimension %d", ErrInvalidInput, o.MinDim, o.MaxDim)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidInput, o.Workers)
	}
	return nil
}

// withDefaults returns a copy with zero values replaced.
func (o Options) withDefaults() Options {
	if o.FontCandidates == nil {
		o.FontCandidates = fontsrc.DefaultCandidates
	}
	if o.Color == nil {
		o.Color = render.DefaultColor
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	o.Workers = min(o.Workers, o.Count)
	if o.Rand == nil {
		o.Rand = NewRand(uint64(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}
