// Package fit finds the largest font size at which a string still fits a
// canvas.
//
// [Fit] runs a discrete binary search over integer point sizes. It never
// fails: when no candidate font can be loaded, or the text is too large even
// at [MinFontSize], it degrades to a small bitmap font.
package fit

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"tools.zach/dev/fixturegen/internal/fontsrc"
)

// MinFontSize is the smallest point size the search probes and the size
// reported for the fallback face.
const MinFontSize = 5

// FallbackSource is the source name reported for the fallback face.
const FallbackSource = "basicfont:7x13"

// Canvas is a target raster area in pixels.
type Canvas struct {
	Width  int
	Height int
}

// FaceResolver produces a face at a point size from an ordered candidate
// list. [*fontsrc.Resolver] implements it.
type FaceResolver interface {
	Resolve(size int) (font.Face, fontsrc.Source, error)
}

// Fitted is a face chosen for a text and canvas.
type Fitted struct {
	// Face renders the text. The caller must Close it.
	Face font.Face
	// Size is the point size of Face.
	Size int
	// Source names where Face came from.
	Source string
	// Fallback is true when Face is the bitmap fallback rather than a
	// face that was measured to fit.
	Fallback bool
	// ResolveErr is the resolution failure that ended the search early, if
	// any. The result is still usable.
	ResolveErr error
}

// Close releases the face.
func (f Fitted) Close() error {
	if f.Face == nil {
		return nil
	}
	return f.Face.Close()
}

// Fallback returns the minimal fallback face. basicfont faces hold no
// resources, so the result can be closed any number of times.
func Fallback() Fitted {
	return Fitted{Face: basicfont.Face7x13, Size: MinFontSize, Source: FallbackSource, Fallback: true}
}

// Bounds returns the tight bounding box of text drawn with face at a zero
// origin, and the width and height of the whole pixels it touches. A
// fractional box edge claims its entire pixel, so drawing at an integer dot
// never inks outside w by h.
func Bounds(face font.Face, text string) (b fixed.Rectangle26_6, w, h int) {
	b, _ = font.BoundString(face, text)
	return b, b.Max.X.Ceil() - b.Min.X.Floor(), b.Max.Y.Ceil() - b.Min.Y.Floor()
}

// Fits reports whether text drawn with face fits inside c.
func Fits(face font.Face, text string, c Canvas) bool {
	_, w, h := Bounds(face, text)
	return w <= c.Width && h <= c.Height
}

// Fit returns the largest size in [MinFontSize, c.Height] at which text fits
// c, using faces from r.
//
// Each probe resolves a face and keeps it as the best result if the text
// fits, then continues in the upper half; otherwise the lower half is
// searched. The first size recorded at a given level is kept; there is no
// re-maximization after the loop. If resolution fails at a probe the search
// stops and the best result so far is returned with ResolveErr set. With no
// confirmed fit the result is [Fallback].
func Fit(text string, c Canvas, r FaceResolver) Fitted {
	lo, hi := MinFontSize, c.Height
	var best Fitted
	var resolveErr error

	for lo <= hi {
		mid := lo + (hi-lo)/2
		face, src, err := r.Resolve(mid)
		if err != nil {
			resolveErr = fmt.Errorf("resolve size %d: %w", mid, err)
			break
		}
		if Fits(face, text, c) {
			best.Close()
			best = Fitted{Face: face, Size: mid, Source: src.Name()}
			lo = mid + 1
		} else {
			face.Close()
			hi = mid - 1
		}
	}

	if best.Face == nil {
		best = Fallback()
	}
	best.ResolveErr = resolveErr
	return best
}
