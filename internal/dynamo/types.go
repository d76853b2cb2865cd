package dynamo

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is a 2-D vector in simulation units (metres, metres per second).
type Vector = r2.Vec

// BodyID identifies a body for the lifetime of a world. IDs are never reused.
type BodyID uint64

func (id BodyID) String() string { return fmt.Sprintf("#%d", uint64(id)) }

// Body is a point mass with a collision radius and its own adaptive step.
type Body struct {
	ID       BodyID
	Mass     float64
	Velocity Vector
	Position Vector
	Radius   float64
	Color    color.RGBA
	Step     float64
}

// NewBody validates the physical parameters and returns a body whose step
// starts at maxStep. The ID is left zero; worlds assign it on insertion.
func NewBody(mass float64, velocity, position Vector, c color.RGBA, radius, maxStep float64) (Body, error) {
	if !positiveFinite(mass) {
		return Body{}, fmt.Errorf("%w: mass %g", ErrInvalidBody, mass)
	}
	if !positiveFinite(radius) {
		return Body{}, fmt.Errorf("%w: radius %g", ErrInvalidBody, radius)
	}
	if !positiveFinite(maxStep) {
		return Body{}, fmt.Errorf("%w: step %g", ErrInvalidBody, maxStep)
	}
	if !finiteVec(velocity) || !finiteVec(position) {
		return Body{}, fmt.Errorf("%w: non-finite position or velocity", ErrInvalidBody)
	}
	return Body{
		Mass:     mass,
		Velocity: velocity,
		Position: position,
		Radius:   radius,
		Color:    c,
		Step:     maxStep,
	}, nil
}

// IsValid reports whether position, velocity and step are all finite.
func (b Body) IsValid() bool {
	return finiteVec(b.Position) && finiteVec(b.Velocity) && !math.IsNaN(b.Step) && !math.IsInf(b.Step, 0)
}

// Distance returns the centre-to-centre distance between two bodies.
func (b Body) Distance(o Body) float64 {
	return r2.Norm(r2.Sub(o.Position, b.Position))
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finiteVec(v Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Integrator advances one body by its own current step against a fixed set
// of targets. targets may include the body itself.
type Integrator interface {
	Name() string
	Advance(b *Body, targets []Body)
}

// FrameBody is the per-body state a renderer needs for one frame.
type FrameBody struct {
	ID       BodyID
	Mass     float64
	Position Vector
	Velocity Vector
	Radius   float64
	Color    color.RGBA
	Step     float64
}

// Report lists the bodies marked by one collision pass.
type Report struct {
	Collided   []BodyID
	Escaped    []BodyID
	Terminated bool
}

// Marked returns every body ID scheduled for removal.
func (r Report) Marked() []BodyID {
	ids := make([]BodyID, 0, len(r.Collided)+len(r.Escaped))
	ids = append(ids, r.Collided...)
	return append(ids, r.Escaped...)
}

// Frame is the world snapshot produced by one tick.
type Frame struct {
	Tick   int
	Bodies []FrameBody
	Report Report
}

// Body looks up a body in the frame by ID.
func (f Frame) Body(id BodyID) (FrameBody, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return FrameBody{}, false
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

// Snapshot converts the frame back into bodies for the helpers in physics.
func (f Frame) Snapshot() []Body {
	out := make([]Body, len(f.Bodies))
	for i, b := range f.Bodies {
		out[i] = Body{
			ID:       b.ID,
			Mass:     b.Mass,
			Velocity: b.Velocity,
			Position: b.Position,
			Radius:   b.Radius,
			Color:    b.Color,
			Step:     b.Step,
		}
	}
	return out
}
