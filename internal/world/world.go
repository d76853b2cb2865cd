package world

import (
	"context"
	"fmt"
	"image/color"
	"log"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/integrators"
)

type SessionState int

const (
	Running SessionState = iota
	Terminated
)

func (s SessionState) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

type World struct {
	cfg    Config
	integ  dynamo.Integrator
	bodies []dynamo.Body
	nextID dynamo.BodyID
	ticks  int
	state  SessionState
	// workers > 1 advances large body sets concurrently
	workers int

	metrics     []dynamo.Metric
	observers   []dynamo.Observer
	logger      *log.Logger
	diagnostics []error
}

// stepPolicied is implemented by integrators that clamp steps themselves.
// Their bound must be the world's, or spawned bodies and advanced bodies
// would disagree on the largest step.
type stepPolicied interface {
	Policy() integrators.StepPolicy
}

// New returns an empty, running world. The first body spawned becomes the
// anchor.
func New(cfg Config, integ dynamo.Integrator, opts ...Option) (*World, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if integ == nil {
		return nil, fmt.Errorf("%w: nil integrator", dynamo.ErrInvalidConfig)
	}
	if p, ok := integ.(stepPolicied); ok && p.Policy().MaxStep != cfg.MaxStep {
		return nil, fmt.Errorf("%w: integrator max step %g differs from world max step %g",
			dynamo.ErrInvalidConfig, p.Policy().MaxStep, cfg.MaxStep)
	}
	w := &World{
		cfg:       cfg,
		integ:     integ,
		nextID:    1,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, m := range w.metrics {
		m.Reset()
	}
	return w, nil
}

func (w *World) AddMetric(m dynamo.Metric)     { w.metrics = append(w.metrics, m) }
func (w *World) AddObserver(o dynamo.Observer) { w.observers = append(w.observers, o) }

// Spawn inserts a new body with its step set to the configured maximum.
func (w *World) Spawn(mass float64, velocity, position dynamo.Vector, c color.RGBA, radius float64) (dynamo.BodyID, error) {
	if w.state == Terminated {
		return 0, dynamo.ErrSessionTerminated
	}
	b, err := dynamo.NewBody(mass, velocity, position, c, radius, w.cfg.MaxStep)
	if err != nil {
		return 0, err
	}
	b.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, b)
	w.logger.Printf("spawn %s mass=%g pos=(%g, %g) vel=(%g, %g)", b.ID, mass, position.X, position.Y, velocity.X, velocity.Y)
	return b.ID, nil
}

// Tick advances every body once without the collision pass. All bodies see
// the same start-of-tick snapshot; nothing is committed until every body
// has been computed. A terminated session is not advanced.
func (w *World) Tick() (dynamo.Frame, error) {
	if w.state == Terminated {
		return dynamo.Frame{}, dynamo.ErrSessionTerminated
	}
	snapshot := w.Bodies()
	next := make([]dynamo.Body, len(snapshot))
	copy(next, snapshot)

	w.advance(next, snapshot)

	w.bodies = next
	w.ticks++
	return w.frame(dynamo.Report{}), nil
}

// Update runs one full tick: advance, collision pass, removal, then
// notification. On anchor escape the frame is still returned together
// with dynamo.ErrSessionTerminated.
func (w *World) Update() (dynamo.Frame, error) {
	if w.state == Terminated {
		return dynamo.Frame{}, dynamo.ErrSessionTerminated
	}

	if _, err := w.Tick(); err != nil {
		return dynamo.Frame{}, err
	}
	report := w.CheckCollisions()
	if n := w.RemoveCollided(report.Marked()); n > 0 {
		w.logger.Printf("tick %d: removed %d (collided %v, escaped %v)", w.ticks, n, report.Collided, report.Escaped)
	}

	f := w.frame(report)
	if w.cfg.ValidateState {
		w.validate()
	}
	for _, m := range w.metrics {
		m.Observe(f)
	}
	for _, o := range w.observers {
		o.OnTick(f)
	}

	if report.Terminated {
		w.state = Terminated
		w.logger.Printf("tick %d: anchor left the space, session terminated", w.ticks)
		return f, dynamo.ErrSessionTerminated
	}
	return f, nil
}

// Run calls Update until ticks updates have run, the session terminates,
// ctx is done or fn returns false. ticks <= 0 runs without a tick limit.
// fn may be nil.
func (w *World) Run(ctx context.Context, ticks int, fn func(dynamo.Frame) bool) error {
	for i := 0; ticks <= 0 || i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := w.Update()
		if fn != nil && f.Tick > 0 && !fn(f) {
			return err
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *World) validate() {
	for _, b := range w.bodies {
		if b.IsValid() {
			continue
		}
		err := &dynamo.TickError{Tick: w.ticks, Body: b.ID, Wrapped: dynamo.ErrInvalidState}
		w.diagnostics = append(w.diagnostics, err)
		w.logger.Print(err)
	}
}

func (w *World) frame(r dynamo.Report) dynamo.Frame {
	f := dynamo.Frame{
		Tick:   w.ticks,
		Bodies: make([]dynamo.FrameBody, len(w.bodies)),
		Report: r,
	}
	for i, b := range w.bodies {
		f.Bodies[i] = dynamo.FrameBody{
			ID:       b.ID,
			Mass:     b.Mass,
			Position: b.Position,
			Velocity: b.Velocity,
			Radius:   b.Radius,
			Color:    b.Color,
			Step:     b.Step,
		}
	}
	return f
}

// Frame returns the current state without advancing.
func (w *World) Frame() dynamo.Frame { return w.frame(dynamo.Report{}) }

// Bodies returns a copy of the live bodies in insertion order.
func (w *World) Bodies() []dynamo.Body {
	out := make([]dynamo.Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Body(id dynamo.BodyID) (dynamo.Body, bool) {
	for _, b := range w.bodies {
		if b.ID == id {
			return b, true
		}
	}
	return dynamo.Body{}, false
}

func (w *World) Anchor() (dynamo.Body, bool) {
	if len(w.bodies) == 0 {
		return dynamo.Body{}, false
	}
	return w.bodies[0], true
}

func (w *World) Len() int                      { return len(w.bodies) }
func (w *World) State() SessionState           { return w.state }
func (w *World) Ticks() int                    { return w.ticks }
func (w *World) Config() Config                { return w.cfg }
func (w *World) Integrator() dynamo.Integrator { return w.integ }

// Diagnostics returns the non-finite state reports collected when
// ValidateState is set.
func (w *World) Diagnostics() []error { return w.diagnostics }

// Metrics returns the current value of every attached metric by name.
func (w *World) Metrics() map[string]float64 {
	out := make(map[string]float64, len(w.metrics))
	for _, m := range w.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
