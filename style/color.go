package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color with premultiplied alpha, components in [0,1].
// This is the form shaders expect for blending.
type Color struct {
	R, G, B, A float32
}

var (
	Transparent = Color{}
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
)

// NewColor builds a Color from straight (non-premultiplied) components.
func NewColor(r, g, b, a float32) Color {
	return Color{R: r * a, G: g * a, B: b * a, A: a}
}

// ParseColor parses a CSS hex color (#rgb, #rrggbb or #rrggbbaa) or the
// keyword "transparent".
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return Transparent, nil
	}

	alpha := float32(1)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return NewColor(float32(c.R), float32(c.G), float32(c.B), alpha), nil
}

// MustParseColor is like ParseColor but panics on error. Used for defaults.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Straight returns the non-premultiplied components.
func (c Color) Straight() (r, g, b, a float32) {
	if c.A == 0 {
		return 0, 0, 0, 0
	}
	return c.R / c.A, c.G / c.A, c.B / c.A, c.A
}

// Vec4 returns the premultiplied components as a vector.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

func (c Color) String() string {
	r, g, b, a := c.Straight()
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", int(r*255+0.5), int(g*255+0.5), int(b*255+0.5), a)
}
