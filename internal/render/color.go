package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" (the "#" is optional) into a
// color.NRGBA. Six-digit colors are opaque. An empty string yields
// [DefaultColor].
func ParseColor(hex string) (color.NRGBA, error) {
	if strings.TrimSpace(hex) == "" {
		return DefaultColor, nil
	}
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must be 6 or 8 hex digits", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor is the inverse of [ParseColor], always emitting 8 digits.
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
