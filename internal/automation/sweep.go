package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/san-kum/slingshot/internal/analysis"
	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/experiment"
	"github.com/san-kum/slingshot/internal/storage"
)

// Fate of a launched body at the end of a run.
const (
	FateBound    = "bound"
	FateCollided = "collided"
	FateEscaped  = "escaped"
)

// LaunchSweep launches one body from Position along Direction at speeds
// evenly spaced between SpeedMin and SpeedMax, one run per speed.
type LaunchSweep struct {
	Base      *config.Config
	Position  dynamo.Vector
	Direction dynamo.Vector
	SpeedMin  float64
	SpeedMax  float64
	NumSteps  int
	// Progress receives one line per finished run when set.
	Progress io.Writer
	Logger   *log.Logger
}

// SweepResult holds the outcome of one launch speed.
type SweepResult struct {
	Speed     float64
	Fate      string
	LastTick  int
	Periapsis float64
	Apoapsis  float64
}

// RunSweep runs every speed concurrently and returns results in speed order.
func RunSweep(ctx context.Context, sweep *LaunchSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}
	norm := math.Hypot(sweep.Direction.X, sweep.Direction.Y)
	if norm == 0 {
		return nil, fmt.Errorf("%w: sweep direction is zero", dynamo.ErrInvalidConfig)
	}
	dir := dynamo.Vector{X: sweep.Direction.X / norm, Y: sweep.Direction.Y / norm}

	speeds := make([]float64, sweep.NumSteps)
	for i := range speeds {
		speeds[i] = sweep.SpeedMin
		if sweep.NumSteps > 1 {
			speeds[i] += float64(i) * (sweep.SpeedMax - sweep.SpeedMin) / float64(sweep.NumSteps-1)
		}
	}

	configs := make([]experiment.Config, len(speeds))
	for i, v := range speeds {
		configs[i] = experiment.Config{
			Name: fmt.Sprintf("sweep-%d", i),
			Sim:  sweep.Base,
			Launches: []experiment.Launch{{
				Mass:     sweep.Base.Launch.Mass,
				Radius:   sweep.Base.Launch.Radius,
				Position: sweep.Position,
				Velocity: dynamo.Vector{X: v * dir.X, Y: v * dir.Y},
			}},
		}
	}

	ens := experiment.NewEnsemble(configs...)
	if sweep.Logger != nil {
		ens.SetLogger(sweep.Logger)
	}
	runs, err := ens.Run(ctx)
	if err != nil {
		return nil, err
	}

	launched := dynamo.BodyID(len(sweep.Base.Bodies) + 1)
	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		fate, last := fateOf(r, launched)
		res := SweepResult{Speed: speeds[i], Fate: fate, LastTick: last}
		if len(sweep.Base.Bodies) > 0 {
			if dist, err := analysis.RadialDistance(r.Samples, launched, 1); err == nil {
				res.Periapsis, res.Apoapsis = analysis.Apsides(dist)
			}
		}
		results[i] = res

		if sweep.Progress != nil {
			fmt.Fprintf(sweep.Progress, "Sweep %d/%d: v=%.1f m/s %s\n", i+1, len(runs), res.Speed, res.Fate)
		}
	}
	return results, nil
}

// fateOf reports what happened to body id and the last tick it was seen.
func fateOf(r *experiment.Result, id dynamo.BodyID) (string, int) {
	for _, b := range r.Bodies {
		if b.ID != id {
			continue
		}
		if b.Fate == "" {
			return FateBound, b.LastTick
		}
		return b.Fate, b.LastTick
	}
	return "", 0
}

// Launched lists the recorded bodies that did not come from the base config.
func Launched(r *experiment.Result, base *config.Config) []storage.BodyInfo {
	var out []storage.BodyInfo
	for _, b := range r.Bodies {
		if int(b.ID) > len(base.Bodies) {
			out = append(out, b)
		}
	}
	return out
}
