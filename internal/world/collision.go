package world

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/slingshot/internal/dynamo"
)

// CheckCollisions marks every non-anchor body that overlaps another body
// (centre distance strictly less than the sum of radii) or that lies
// outside the space boundary. A body that does both is reported once, as
// collided. The anchor is only tested for escape, which sets Terminated.
func (w *World) CheckCollisions() dynamo.Report {
	var r dynamo.Report
	for i, b := range w.bodies {
		if i == 0 {
			if r2.Norm(b.Position) > w.cfg.SpaceBoundary {
				r.Terminated = true
			}
			continue
		}
		if w.overlapsAny(b) {
			r.Collided = append(r.Collided, b.ID)
			continue
		}
		if r2.Norm(b.Position) > w.cfg.SpaceBoundary {
			r.Escaped = append(r.Escaped, b.ID)
		}
	}
	return r
}

func (w *World) overlapsAny(b dynamo.Body) bool {
	for _, o := range w.bodies {
		if o.ID == b.ID {
			continue
		}
		if b.Distance(o) < b.Radius+o.Radius {
			return true
		}
	}
	return false
}

// RemoveCollided drops the given bodies and returns how many were removed.
// Unknown IDs are ignored and the anchor is never removed.
func (w *World) RemoveCollided(ids []dynamo.BodyID) int {
	if len(ids) == 0 || len(w.bodies) == 0 {
		return 0
	}
	marked := make(map[dynamo.BodyID]struct{}, len(ids))
	for _, id := range ids {
		marked[id] = struct{}{}
	}

	kept := w.bodies[:1]
	for _, b := range w.bodies[1:] {
		if _, ok := marked[b.ID]; ok {
			continue
		}
		kept = append(kept, b)
	}
	removed := len(w.bodies) - len(kept)
	w.bodies = kept
	return removed
}
