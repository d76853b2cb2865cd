package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/storage"
	"github.com/san-kum/slingshot/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG format, one circle per dot
// in the ink of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#00ff00">
`, width, height, width, height, background))

	dotRadius := scale * 0.4

	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if ink := canvas.Ink[y/4][x/2]; ink != "" {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, ink))
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// RenderCanvas plots every sample as a dot in its body's colour.
func RenderCanvas(samples []storage.Sample, bodies []storage.BodyInfo, view viz.Viewport) *viz.Canvas {
	canvas := viz.NewCanvas((view.Width+1)/2, (view.Height+3)/4)
	inks := inkByID(bodies)
	for _, s := range samples {
		x, y := view.ToScreen(point(s))
		canvas.Paint(x, y, inks[s.ID])
	}
	return canvas
}

// TrajectoriesToSVG draws one path per body over the square space
// [-boundary, boundary]^2, with the boundary circle and each body's final
// position.
func TrajectoriesToSVG(samples []storage.Sample, bodies []storage.BodyInfo, boundary float64, size int) string {
	if len(samples) == 0 || boundary <= 0 || size <= 0 {
		return ""
	}
	view := viz.Viewport{Width: size, Height: size, Boundary: boundary}
	half := float64(size) / 2
	toSVG := func(s storage.Sample) (float64, float64) {
		return (s.X/boundary + 1) * half, (-s.Y/boundary + 1) * half
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#3b4261" stroke-dasharray="4 4"/>
`, size, size, size, size, background, half, half, half))

	inks := inkByID(bodies)
	for _, id := range storage.IDs(samples) {
		track, err := storage.Track(samples, id)
		if err != nil {
			continue
		}
		ink := inks[id]
		if ink == "" {
			ink = "#ffffff"
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, ink))
		for i, s := range track {
			x, y := toSVG(s)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		last := track[len(track)-1]
		x, y := toSVG(last)
		r := max(float64(view.Scale(radiusOf(bodies, id))), 2)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, ink))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func inkByID(bodies []storage.BodyInfo) map[dynamo.BodyID]string {
	inks := make(map[dynamo.BodyID]string, len(bodies))
	for _, b := range bodies {
		inks[b.ID] = b.Color
	}
	return inks
}

func radiusOf(bodies []storage.BodyInfo, id dynamo.BodyID) float64 {
	for _, b := range bodies {
		if b.ID == id {
			return b.Radius
		}
	}
	return 0
}

func point(s storage.Sample) dynamo.Vector {
	return dynamo.Vector{X: s.X, Y: s.Y}
}
