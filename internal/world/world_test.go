package world_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/integrators"
	"github.com/san-kum/slingshot/internal/world"
)

type countingMetric struct {
	observed int
	resets   int
}

func (c *countingMetric) Name() string           { return "count" }
func (c *countingMetric) Observe(f dynamo.Frame) { c.observed++ }
func (c *countingMetric) Value() float64         { return float64(c.observed) }
func (c *countingMetric) Reset()                 { c.observed = 0; c.resets++ }

var _ = Describe("New", func() {
	It("rejects a non-positive space boundary", func() {
		cfg := world.DefaultConfig()
		cfg.SpaceBoundary = 0
		_, err := world.New(cfg, eulerHeun())
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("rejects a non-positive max step", func() {
		cfg := world.DefaultConfig()
		cfg.MaxStep = -1
		_, err := world.New(cfg, eulerHeun())
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("rejects an integrator whose max step differs from the world's", func() {
		cfg := world.DefaultConfig()
		cfg.MaxStep = 10
		_, err := world.New(cfg, eulerHeun())
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("rejects a nil integrator", func() {
		_, err := world.New(world.DefaultConfig(), nil)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("starts empty and running", func() {
		w := newWorld(eulerHeun())
		Expect(w.Len()).To(Equal(0))
		Expect(w.State()).To(Equal(world.Running))
		Expect(w.Ticks()).To(Equal(0))
		_, ok := w.Anchor()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Spawn", func() {
	var w *world.World

	BeforeEach(func() {
		w, _, _ = geoWorld(eulerHeun(), 4000)
	})

	It("appends a body with the requested state and the maximum step", func() {
		id, err := w.Spawn(1e20, dynamo.Vector{X: 100, Y: -50}, dynamo.Vector{X: 1e7, Y: 2e7}, white, 1.6e6)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Len()).To(Equal(3))

		b, ok := w.Body(id)
		Expect(ok).To(BeTrue())
		Expect(b.Position).To(Equal(dynamo.Vector{X: 1e7, Y: 2e7}))
		Expect(b.Velocity).To(Equal(dynamo.Vector{X: 100, Y: -50}))
		Expect(b.Mass).To(Equal(1e20))
		Expect(b.Radius).To(Equal(1.6e6))
		Expect(b.Color).To(Equal(white))
		Expect(b.Step).To(Equal(w.Config().MaxStep))

		bodies := w.Bodies()
		Expect(bodies[len(bodies)-1].ID).To(Equal(id))
	})

	It("assigns increasing IDs that are never reused", func() {
		a, err := w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: 5e7}, white, 1e6)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.RemoveCollided([]dynamo.BodyID{a})).To(Equal(1))

		b, err := w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: 5e7}, white, 1e6)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(BeNumerically(">", a))
	})

	DescribeTable("rejects invalid parameters",
		func(mass, radius float64) {
			_, err := w.Spawn(mass, dynamo.Vector{}, dynamo.Vector{X: 5e7}, white, radius)
			Expect(err).To(MatchError(dynamo.ErrInvalidBody))
			Expect(w.Len()).To(Equal(2))
		},
		Entry("zero mass", 0.0, 1e6),
		Entry("negative mass", -1e20, 1e6),
		Entry("zero radius", 1e20, 0.0),
		Entry("negative radius", 1e20, -1.0),
		Entry("infinite mass", math.Inf(1), 1e6),
		Entry("NaN radius", 1e20, math.NaN()),
	)

	It("makes the first body the anchor", func() {
		anchor, ok := w.Anchor()
		Expect(ok).To(BeTrue())
		Expect(anchor.Mass).To(Equal(5.97e24))
	})
})

var _ = Describe("Tick", func() {
	It("advances every body against the start-of-tick snapshot", func() {
		integ := eulerHeun()
		w, _, _ := geoWorld(integ, 4000)
		_, err := w.Spawn(7e22, dynamo.Vector{Y: 1000}, dynamo.Vector{X: -6e7}, white, 1.7e6)
		Expect(err).NotTo(HaveOccurred())

		snapshot := w.Bodies()
		want := make([]dynamo.Body, len(snapshot))
		for i := range snapshot {
			want[i] = snapshot[i]
			integ.Advance(&want[i], snapshot)
		}

		f, err := w.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Tick).To(Equal(1))
		Expect(w.Bodies()).To(Equal(want))
	})

	It("keeps every step within (0, MaxStep]", func() {
		w, _, _ := geoWorld(eulerHeun(), 4000)
		for i := 0; i < 150; i++ {
			f, err := w.Tick()
			Expect(err).NotTo(HaveOccurred())
			for _, b := range f.Bodies {
				Expect(b.Step).To(BeNumerically(">", 0))
				Expect(b.Step).To(BeNumerically("<=", w.Config().MaxStep))
			}
		}
	})

	It("holds a non-default max step from spawn on", func() {
		cfg := world.DefaultConfig()
		cfg.MaxStep = 10
		policy := integrators.DefaultPolicy()
		policy.MaxStep = 10
		w, err := world.New(cfg, integrators.NewEulerHeun(policy), world.WithLogger(testLogger()))
		Expect(err).NotTo(HaveOccurred())

		_, err = w.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{}, blue, 3.2e6)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Spawn(1e20, dynamo.Vector{X: 4000}, dynamo.Vector{Y: 4.2e7}, white, 1.6e6)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 20; i++ {
			f, err := w.Update()
			Expect(err).NotTo(HaveOccurred())
			for _, b := range f.Bodies {
				Expect(b.Step).To(BeNumerically(">", 0))
				Expect(b.Step).To(BeNumerically("<=", 10))
			}
		}
	})
})

var _ = Describe("Update", func() {
	It("notifies metrics and observers once per tick", func() {
		m := &countingMetric{}
		var frames []dynamo.Frame
		obs := world.ObserverFunc(func(f dynamo.Frame) { frames = append(frames, f) })

		w, _, _ := geoWorld(eulerHeun(), 3080.6, world.WithMetrics(m), world.WithObservers(obs))
		Expect(m.resets).To(Equal(1))

		for i := 0; i < 5; i++ {
			_, err := w.Update()
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(m.observed).To(Equal(5))
		Expect(w.Metrics()).To(HaveKeyWithValue("count", 5.0))
		Expect(frames).To(HaveLen(5))
		Expect(frames[4].Tick).To(Equal(5))
	})

	It("records invalid state when validation is enabled", func() {
		cfg := world.DefaultConfig()
		cfg.ValidateState = true
		w, err := world.New(cfg, eulerHeun(), world.WithLogger(testLogger()))
		Expect(err).NotTo(HaveOccurred())

		_, _ = w.Spawn(1e24, dynamo.Vector{}, dynamo.Vector{}, white, 1)
		_, _ = w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: 1e7}, white, 1)
		// Coincident with the second body: the force between them is undefined.
		_, _ = w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: 1e7}, white, 1)

		_, err = w.Update()
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Diagnostics()).To(HaveLen(2))
		Expect(w.Diagnostics()[0]).To(MatchError(dynamo.ErrInvalidState))

		var tickErr *dynamo.TickError
		Expect(errors.As(w.Diagnostics()[0], &tickErr)).To(BeTrue())
		Expect(tickErr.Tick).To(Equal(1))
	})
})

var _ = Describe("Run", func() {
	It("stops after the requested number of ticks", func() {
		w, _, _ := geoWorld(heun(), 3080.6)
		Expect(w.Run(context.Background(), 25, nil)).To(Succeed())
		Expect(w.Ticks()).To(Equal(25))
	})

	It("stops when the callback returns false", func() {
		w, _, _ := geoWorld(heun(), 3080.6)
		err := w.Run(context.Background(), 100, func(f dynamo.Frame) bool {
			return f.Tick < 10
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Ticks()).To(Equal(10))
	})

	It("honours context cancellation", func() {
		w, _, _ := geoWorld(heun(), 3080.6)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(w.Run(ctx, 100, nil)).To(MatchError(context.Canceled))
		Expect(w.Ticks()).To(Equal(0))
	})
})

var _ = Describe("SessionState", func() {
	It("has readable names", func() {
		Expect(world.Running.String()).To(Equal("running"))
		Expect(world.Terminated.String()).To(Equal("terminated"))
	})
})

var _ = Describe("WithWorkers", func() {
	ring := func(opts ...world.Option) *world.World {
		w := newWorld(heun(), opts...)
		_, err := w.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{}, blue, 3.2e6)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 19; i++ {
			a := 2 * math.Pi * float64(i) / 19
			pos := dynamo.Vector{X: 6e7 * math.Cos(a), Y: 6e7 * math.Sin(a)}
			vel := dynamo.Vector{X: -2577 * math.Sin(a), Y: 2577 * math.Cos(a)}
			_, err := w.Spawn(1e20, vel, pos, white, 1e6)
			Expect(err).NotTo(HaveOccurred())
		}
		return w
	}

	It("matches the serial result exactly", func() {
		serial := ring()
		parallel := ring(world.WithWorkers(4))
		for i := 0; i < 5; i++ {
			_, err := serial.Update()
			Expect(err).NotTo(HaveOccurred())
			_, err = parallel.Update()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(parallel.Len()).To(Equal(20))
		Expect(parallel.Bodies()).To(Equal(serial.Bodies()))
	})
})
