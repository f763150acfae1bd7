package fontsrc

import (
	"errors"
	"fmt"

	"golang.org/x/image/font"
)

// ErrNoUsableSource is returned by [Resolver.Resolve] when every candidate
// failed at the requested size, or when there are no candidates at all.
var ErrNoUsableSource = errors.New("no usable font source")

// DefaultCandidates are tried after any caller preference. The trailing Go
// font guarantees a usable face on machines without the common system fonts.
var DefaultCandidates = []string{"arial.ttf", "Helvetica.ttc", "go:regular"}

// Resolver holds an ordered, immutable candidate list.
type Resolver struct {
	sources []Source
}

// New returns a resolver over sources, tried in the given order.
func New(sources ...Source) *Resolver {
	return &Resolver{sources: append([]Source(nil), sources...)}
}

// NewFromSpecs parses preference (if non-empty) followed by specs into a
// resolver. A spec that cannot be parsed is an input error.
func NewFromSpecs(preference string, specs []string, cacheDir string) (*Resolver, error) {
	all := make([]string, 0, len(specs)+1)
	if preference != "" {
		all = append(all, preference)
	}
	all = append(all, specs...)

	sources := make([]Source, 0, len(all))
	for _, spec := range all {
		src, err := ParseSource(spec, cacheDir)
		if err != nil {
			return nil, fmt.Errorf("font candidate %q: %w", spec, err)
		}
		sources = append(sources, src)
	}
	return New(sources...), nil
}

// Sources returns a copy of the candidate list.
func (r *Resolver) Sources() []Source {
	return append([]Source(nil), r.sources...)
}

// Resolve returns a face at size from the first source that can produce one.
// Sources after the first success are not tried.
func (r *Resolver) Resolve(size int) (font.Face, Source, error) {
	var errs []error
	for _, src := range r.sources {
		f, err := src.Load(size)
		if err == nil {
			return f, src, nil
		}
		errs = append(errs, err)
	}
	return nil, nil, errors.Join(append([]error{ErrNoUsableSource}, errs...)...)
}
