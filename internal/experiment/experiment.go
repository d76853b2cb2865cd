package experiment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/storage"
	"github.com/san-kum/slingshot/internal/world"
)

type Outcome string

const (
	Completed  Outcome = "completed"
	Terminated Outcome = "terminated"
	Cancelled  Outcome = "cancelled"
)

// Launch is a body spawned before the given tick runs. Tick 0 and 1 both
// spawn before the first tick.
type Launch struct {
	Tick     int
	Mass     float64
	Radius   float64
	Position dynamo.Vector
	Velocity dynamo.Vector
}

type Config struct {
	Name     string
	Sim      *config.Config
	Launches []Launch
	// Stride keeps every Stride-th frame in the trajectory.
	Stride int
}

type Result struct {
	Name        string
	Ticks       int
	Outcome     Outcome
	Elapsed     time.Duration
	Metrics     map[string]float64
	Samples     []storage.Sample
	Bodies      []storage.BodyInfo
	Diagnostics []error
}

type Experiment struct {
	cfg       Config
	registry  *Registry
	observers []dynamo.Observer
	logger    *log.Logger
}

func New(cfg Config) *Experiment {
	if cfg.Sim == nil {
		cfg.Sim = config.DefaultConfig()
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   log.Default(),
	}
}

func (e *Experiment) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) SetLogger(l *log.Logger) { e.logger = l }

// Run simulates cfg.Sim.Ticks ticks, or until the anchor escapes or ctx is
// done. The partial result is returned together with ctx.Err() on
// cancellation. Anchor escape is not an error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	sim := e.cfg.Sim
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	if sim.Ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive for a headless run", dynamo.ErrInvalidConfig)
	}

	integ, err := e.registry.GetIntegrator(sim.Integrator, sim.Policy())
	if err != nil {
		return nil, err
	}

	recorder := storage.NewRecorder(e.cfg.Stride)
	w, err := world.New(sim.World(), integ,
		world.WithLogger(e.logger),
		world.WithMetrics(e.registry.DefaultMetrics()...),
		world.WithObservers(recorder),
		world.WithObservers(e.observers...),
		world.WithWorkers(0),
	)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(sim.Seed))
	if _, err := sim.Populate(w, rng); err != nil {
		return nil, err
	}

	launches := append([]Launch(nil), e.cfg.Launches...)
	sort.SliceStable(launches, func(i, j int) bool { return launches[i].Tick < launches[j].Tick })

	result := &Result{Name: e.cfg.Name, Outcome: Completed}
	start := time.Now()

	for i := 0; i < sim.Ticks; i++ {
		select {
		case <-ctx.Done():
			result.Outcome = Cancelled
			e.finish(result, w, recorder, start)
			return result, ctx.Err()
		default:
		}

		next := w.Ticks() + 1
		for len(launches) > 0 && launches[0].Tick <= next {
			l := launches[0]
			launches = launches[1:]
			if _, err := w.Spawn(l.Mass, l.Velocity, l.Position, config.RandomColor(rng), l.Radius); err != nil {
				return nil, fmt.Errorf("launch at tick %d: %w", l.Tick, err)
			}
		}

		if _, err := w.Update(); err != nil {
			if errors.Is(err, dynamo.ErrSessionTerminated) {
				result.Outcome = Terminated
				break
			}
			return nil, err
		}
	}

	e.finish(result, w, recorder, start)
	return result, nil
}

func (e *Experiment) finish(r *Result, w *world.World, rec *storage.Recorder, start time.Time) {
	r.Ticks = w.Ticks()
	r.Elapsed = time.Since(start)
	r.Metrics = w.Metrics()
	r.Samples = rec.Samples()
	r.Bodies = rec.Bodies()
	r.Diagnostics = w.Diagnostics()
}

// Metadata describes r for the run store.
func (r *Result) Metadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Name:          r.Name,
		Seed:          cfg.Seed,
		Integrator:    cfg.Integrator,
		SpaceBoundary: cfg.SpaceBoundary,
		MaxStep:       cfg.MaxStep,
		Tolerance:     cfg.Tolerance,
		Ticks:         r.Ticks,
		Outcome:       string(r.Outcome),
		Bodies:        r.Bodies,
		Metrics:       r.Metrics,
	}
}
