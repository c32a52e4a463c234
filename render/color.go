package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is used for nodes whose cluster does not resolve or whose cluster colour
// does not parse.
const FallbackColor = "#5a6a90"

// ParseColor parses a #rrggbb or #rgb string.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// ResolveColor parses s, returning fallback when it is not a valid colour.
func ResolveColor(s string, fallback colorful.Color) colorful.Color {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return fallback
}

// Fade blends c over bg at the given opacity.
func Fade(c, bg colorful.Color, opacity float64) colorful.Color {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		return bg
	}
	return bg.BlendRgb(c, opacity).Clamped()
}
