package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/experiment"
)

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Base           *config.Config
	Position       dynamo.Vector
	Velocity       dynamo.Vector
	PositionJitter float64
	VelocityJitter float64
	NumTrials      int
	Seed           int64
	Progress       io.Writer
	Logger         *log.Logger
}

// MonteCarloResult is one perturbed launch.
type MonteCarloResult struct {
	TrialID  int
	Position dynamo.Vector
	Velocity dynamo.Vector
	Fate     string
	LastTick int
	// Stable is true when the body was still bound at the end of the run.
	Stable bool
}

// RunMonteCarlo launches NumTrials bodies, each with position and velocity
// perturbed uniformly within the jitter, and runs them concurrently.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: need at least one trial", dynamo.ErrInvalidConfig)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func(v, amount float64) float64 {
		return v + (rng.Float64()-0.5)*2*amount
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	configs := make([]experiment.Config, cfg.NumTrials)
	for trial := range configs {
		pos := dynamo.Vector{X: jitter(cfg.Position.X, cfg.PositionJitter), Y: jitter(cfg.Position.Y, cfg.PositionJitter)}
		vel := dynamo.Vector{X: jitter(cfg.Velocity.X, cfg.VelocityJitter), Y: jitter(cfg.Velocity.Y, cfg.VelocityJitter)}
		results[trial] = MonteCarloResult{TrialID: trial, Position: pos, Velocity: vel}
		configs[trial] = experiment.Config{
			Name: fmt.Sprintf("trial-%d", trial),
			Sim:  cfg.Base,
			Launches: []experiment.Launch{{
				Mass:     cfg.Base.Launch.Mass,
				Radius:   cfg.Base.Launch.Radius,
				Position: pos,
				Velocity: vel,
			}},
		}
	}

	ens := experiment.NewEnsemble(configs...)
	if cfg.Logger != nil {
		ens.SetLogger(cfg.Logger)
	}
	runs, err := ens.Run(ctx)
	if err != nil {
		return nil, err
	}

	launched := dynamo.BodyID(len(cfg.Base.Bodies) + 1)
	for i, r := range runs {
		results[i].Fate, results[i].LastTick = fateOf(r, launched)
		results[i].Stable = results[i].Fate == FateBound

		if cfg.Progress != nil && (i+1)%10 == 0 {
			fmt.Fprintf(cfg.Progress, "Monte Carlo: %d/%d trials complete\n", i+1, cfg.NumTrials)
		}
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// FateCounts tallies results by fate.
func FateCounts(results []MonteCarloResult) map[string]int {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Fate]++
	}
	return counts
}
