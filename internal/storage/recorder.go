package storage

import (
	"fmt"

	"github.com/san-kum/slingshot/internal/dynamo"
)

// Recorder is a world observer that keeps every frame as samples. Every
// stride-th frame is kept; a stride below 1 keeps all of them.
type Recorder struct {
	stride  int
	frames  int
	samples []Sample
	bodies  map[dynamo.BodyID]*BodyInfo
	order   []dynamo.BodyID
}

func NewRecorder(stride int) *Recorder {
	if stride < 1 {
		stride = 1
	}
	return &Recorder{
		stride: stride,
		bodies: make(map[dynamo.BodyID]*BodyInfo),
	}
}

// OnTick implements dynamo.Observer.
func (r *Recorder) OnTick(f dynamo.Frame) {
	for _, b := range f.Bodies {
		info, ok := r.bodies[b.ID]
		if !ok {
			info = &BodyInfo{
				ID:        b.ID,
				Mass:      b.Mass,
				Radius:    b.Radius,
				Color:     fmt.Sprintf("#%02x%02x%02x", b.Color.R, b.Color.G, b.Color.B),
				FirstTick: f.Tick,
			}
			r.bodies[b.ID] = info
			r.order = append(r.order, b.ID)
		}
		info.LastTick = f.Tick
	}

	r.mark(f.Report.Collided, "collided")
	r.mark(f.Report.Escaped, "escaped")

	r.frames++
	if (r.frames-1)%r.stride != 0 {
		return
	}
	for _, b := range f.Bodies {
		r.samples = append(r.samples, Sample{
			Tick: f.Tick,
			ID:   b.ID,
			X:    b.Position.X,
			Y:    b.Position.Y,
			VX:   b.Velocity.X,
			VY:   b.Velocity.Y,
			Step: b.Step,
		})
	}
}

func (r *Recorder) mark(ids []dynamo.BodyID, fate string) {
	for _, id := range ids {
		if info, ok := r.bodies[id]; ok {
			info.Fate = fate
		}
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Bodies lists every body seen, in order of first appearance.
func (r *Recorder) Bodies() []BodyInfo {
	out := make([]BodyInfo, len(r.order))
	for i, id := range r.order {
		out[i] = *r.bodies[id]
	}
	return out
}

// Track returns the samples of one body in tick order.
func Track(samples []Sample, id dynamo.BodyID) ([]Sample, error) {
	var out []Sample
	for _, s := range samples {
		if s.ID == id {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownBody, id)
	}
	return out, nil
}

// IDs lists the distinct body IDs in samples in order of first appearance.
func IDs(samples []Sample) []dynamo.BodyID {
	seen := make(map[dynamo.BodyID]bool)
	var ids []dynamo.BodyID
	for _, s := range samples {
		if !seen[s.ID] {
			seen[s.ID] = true
			ids = append(ids, s.ID)
		}
	}
	return ids
}
