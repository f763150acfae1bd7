package generate

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Kind classifies a per-index failure.
type Kind int

const (
	// EncodingFailure: the PNG could not be written to its temp file.
	EncodingFailure Kind = iota + 1
	// CommitFailure: the temp file could not be renamed onto its
	// destination.
	CommitFailure
)

func (k Kind) String() string {
	switch k {
	case EncodingFailure:
		return "encoding"
	case CommitFailure:
		return "commit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Failure describes one index that did not commit.
type Failure struct {
	Index int
	Path  string
	Kind  Kind
	// CrossDevice is set for commit failures caused by the temp file and
	// destination living on different filesystems. Every later index in the
	// same directory fails the same way.
	CrossDevice bool
	Err         error
}

func (f Failure) Error() string {
	return fmt.Sprintf("image %d (%s): %s failure: %v", f.Index, f.Path, f.Kind, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Summary reports the outcome of every index in a run.
type Summary struct {
	// Succeeded holds committed indices in ascending order.
	Succeeded []int
	// Failed holds failed indices in ascending index order.
	Failed []Failure
	// Skipped holds indices whose pipeline never started because the run
	// was cancelled.
	Skipped []int
	// Fallbacks counts committed images rendered with the fallback face.
	Fallbacks int
	Elapsed   time.Duration
}

// OK reports whether every index committed.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0 && len(s.Skipped) == 0
}

// Err joins all failures, or returns nil when there are none. Skipped
// indices are not errors.
func (s *Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(s.Failed))
	for i, f := range s.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// sort orders every list by index; completion order is arbitrary.
func (s *Summary) sort() {
	slices.Sort(s.Succeeded)
	slices.Sort(s.Skipped)
	slices.SortFunc(s.Failed, func(a, b Failure) int { return a.Index - b.Index })
}
