package render

import (
	"fmt"
	"strconv"
	"strings"
)

// fallbackHex is used for block colors that are not valid hex strings.
// The scene accepts any color value, so renderers must cope.
const fallbackHex = "#A0A5A9"

type rgb struct{ r, g, b int }

// parseHex accepts #RGB and #RRGGBB, with or without the leading '#'.
func parseHex(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}

// colorOf returns the parsed color, or the fallback.
func colorOf(s string) rgb {
	if c, ok := parseHex(s); ok {
		return c
	}
	c, _ := parseHex(fallbackHex)
	return c
}

// scale multiplies each channel by f, clamped to 0..255.
func (c rgb) scale(f float64) rgb {
	ch := func(v int) int {
		return max(0, min(255, int(float64(v)*f)))
	}
	return rgb{ch(c.r), ch(c.g), ch(c.b)}
}

// mix blends c toward white by t in 0..1.
func (c rgb) mix(t float64) rgb {
	ch := func(v int) int {
		return v + int(float64(255-v)*t)
	}
	return rgb{ch(c.r), ch(c.g), ch(c.b)}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}
