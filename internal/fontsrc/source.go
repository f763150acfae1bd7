// Package fontsrc resolves font faces from an ordered list of candidate
// sources.
//
// A source is anything that can instantiate a [font.Face] at a point size:
// a local font file, one of the Go fonts compiled into the binary, or a
// Google Fonts family fetched over HTTP. Sources parse their font data at
// most once; after that every [Source.Load] only builds a new face, so a
// [Resolver] can be shared read-only between goroutines.
package fontsrc

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	tdfont "github.com/tdewolff/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// DPI is the resolution faces are created at. At 72 DPI one point is one
// pixel, so a size doubles as a pixel height bound.
const DPI = 72

// Source is a named origin of font faces.
type Source interface {
	// Name identifies the source in logs and summaries.
	Name() string
	// Load returns a face at size points. The caller owns the face and
	// must close it.
	Load(size int) (font.Face, error)
}

// ///////////////////////////////////////////////
// Parsed Font Cache
// ///////////////////////////////////////////////

// parsedFont lazily reads and parses font data exactly once. A failure is
// remembered and returned to every later caller.
type parsedFont struct {
	once sync.Once
	font *opentype.Font
	err  error
}

// get returns the parsed font, invoking read on first use.
func (p *parsedFont) get(read func() ([]byte, error)) (*opentype.Font, error) {
	p.once.Do(func() {
		data, err := read()
		if err != nil {
			p.err = err
			return
		}
		p.font, p.err = parseFont(data)
	})
	return p.font, p.err
}

// face builds a face at size from a parsed font.
func face(f *opentype.Font, size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %d", size)
	}
	fc, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at %dpt: %w", size, err)
	}
	return fc, nil
}

// parseFont parses SFNT, WOFF/WOFF2 or a font collection (first member).
func parseFont(data []byte) (*opentype.Font, error) {
	if isWebFont(data) {
		sfnt, err := tdfont.ToSFNT(data)
		if err != nil {
			return nil, fmt.Errorf("convert web font to sfnt: %w", err)
		}
		data = sfnt
	}
	if bytes.HasPrefix(data, []byte("ttcf")) {
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse font collection: %w", err)
		}
		f, err := c.Font(0)
		if err != nil {
			return nil, fmt.Errorf("font collection member 0: %w", err)
		}
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return f, nil
}

// isWebFont checks the WOFF ("wOFF") and WOFF2 ("wOF2") magic bytes.
func isWebFont(data []byte) bool {
	return bytes.HasPrefix(data, []byte("wOFF")) || bytes.HasPrefix(data, []byte("wOF2"))
}

// ///////////////////////////////////////////////
// ParseSource
// ///////////////////////////////////////////////

// Source spec prefixes.
const (
	builtinPrefix = "go:"
	googlePrefix  = "google:"
)

// ParseSource maps a candidate identifier to a Source:
//
//	go:regular            compiled-in Go font (regular, bold, medium, mono)
//	google:Inter:800      Google Fonts family and weight, cached in cacheDir
//	anything else         local font file path, glob, or bare file name
func ParseSource(spec, cacheDir string) (Source, error) {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "":
		return nil, fmt.Errorf("empty font source")
	case strings.HasPrefix(spec, builtinPrefix):
		b, err := NewBuiltin(strings.TrimPrefix(spec, builtinPrefix))
		if err != nil {
			return nil, err
		}
		return b, nil
	case strings.HasPrefix(spec, googlePrefix):
		g, err := NewGoogle(spec, cacheDir)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return NewFile(spec), nil
	}
}
