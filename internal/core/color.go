package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is a 24-bit color used by the screen buffer.
type RGB struct {
	R, G, B uint8
}

// Hex returns the lowercase #rrggbb form of the color.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// LerpRGB interpolates channel-wise between a and b. t is clamped to [0, 1].
func LerpRGB(a, b RGB, t float64) RGB {
	t = ClampF(t, 0, 1)
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(Lerp(float64(x), float64(y), t)))
	}
	return RGB{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

// ParseColor parses "#rgb", "#rrggbb" and "rgb(r,g,b)" color strings.
// Returns false if the string is not recognized.
func ParseColor(s string) (RGB, bool) {
	k := ColorKey(s)
	switch {
	case strings.HasPrefix(k, "#"):
		h := k[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) != 6 {
			return RGB{}, false
		}
		n, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return RGB{}, false
		}
		return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, true

	case strings.HasPrefix(k, "rgb(") && strings.HasSuffix(k, ")"):
		parts := strings.Split(k[4:len(k)-1], ",")
		if len(parts) != 3 {
			return RGB{}, false
		}
		var v [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 || n > 255 {
				return RGB{}, false
			}
			v[i] = uint8(n)
		}
		return RGB{R: v[0], G: v[1], B: v[2]}, true
	}
	return RGB{}, false
}

// ColorKey normalizes a color string for comparison: lowercase, no whitespace.
func ColorKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// LerpColor interpolates between two color strings and returns #rrggbb.
// If either color cannot be parsed, from is returned unchanged.
func LerpColor(from, to string, t float64) string {
	a, okA := ParseColor(from)
	b, okB := ParseColor(to)
	if !okA || !okB {
		return from
	}
	return LerpRGB(a, b, t).Hex()
}
