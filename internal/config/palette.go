package config

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor accepts #rrggbb.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	return toRGBA(c), nil
}

// RandomColor returns a bright colour that reads well on a dark terminal.
func RandomColor(rng *rand.Rand) color.RGBA {
	c := colorful.Hcl(rng.Float64()*360, 0.5+0.3*rng.Float64(), 0.65+0.2*rng.Float64())
	return toRGBA(c.Clamped())
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
