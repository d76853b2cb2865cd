package viz

import (
	"math"

	"github.com/san-kum/slingshot/internal/dynamo"
)

// Viewport maps the square simulation space [-Boundary, Boundary]^2 onto a
// Width x Height dot grid with y pointing down.
type Viewport struct {
	Width, Height int
	Boundary      float64
	MaxVelocity   float64
}

// ToScreen returns the dot nearest to p.
func (v Viewport) ToScreen(p dynamo.Vector) (int, int) {
	x := (p.X/v.Boundary + 1) * float64(v.Width) / 2
	y := (-p.Y/v.Boundary + 1) * float64(v.Height) / 2
	return int(math.Floor(x)), int(math.Floor(y))
}

// ToSim is the inverse of ToScreen for the dot's top-left corner.
func (v Viewport) ToSim(x, y int) dynamo.Vector {
	return dynamo.Vector{
		X: v.Boundary * (2*float64(x)/float64(v.Width) - 1),
		Y: -v.Boundary * (2*float64(y)/float64(v.Height) - 1),
	}
}

// Scale converts a simulation length to dots along the x axis.
func (v Viewport) Scale(r float64) int {
	return int(math.Round(r / v.Boundary * float64(v.Width) / 2))
}

// Sling converts a drag from (x0, y0) to (x1, y1) into a launch: the body
// starts under the press point and flies away from the release point, faster
// the longer the pull.
func (v Viewport) Sling(x0, y0, x1, y1 int) (position, velocity dynamo.Vector) {
	position = v.ToSim(x0, y0)
	velocity = dynamo.Vector{
		X: v.MaxVelocity * float64(x0-x1) / float64(v.Width),
		Y: -v.MaxVelocity * float64(y0-y1) / float64(v.Height),
	}
	return position, velocity
}

// Contains reports whether the dot lies on the grid.
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Width && y < v.Height
}
