// Package render composes labeled fixture images in memory. [Render]
// produces a transparent canvas with a single string centered on it using a
// face chosen by the fit package.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"tools.zach/dev/fixturegen/internal/fit"
)

// DefaultColor is opaque black.
var DefaultColor = color.NRGBA{A: 255}

// Render draws text centered on a transparent canvas-sized RGBA buffer.
//
// The glyph bounding box is measured at the fitted size and offset by
// ((canvas - text) / 2) - bbox origin on each axis, with floor division, so
// the result is a pure function of its inputs.
func Render(text string, c fit.Canvas, f fit.Fitted, clr color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	if text == "" || f.Face == nil {
		return img
	}

	bounds, textW, textH := fit.Bounds(f.Face, text)
	originX := floorDiv(c.Width-textW, 2) - bounds.Min.X.Floor()
	originY := floorDiv(c.Height-textH, 2) - bounds.Min.Y.Floor()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: f.Face,
		Dot:  fixed.P(originX, originY),
	}
	d.DrawString(text)
	return img
}

// floorDiv divides rounding toward negative infinity. The fallback face can
// overflow a tiny canvas, making the numerator negative.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
