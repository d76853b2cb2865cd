package world_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/physics"
	"github.com/san-kum/slingshot/internal/world"
)

var _ = Describe("Earth and probe", func() {
	DescribeTable("the eccentric reference orbit carries the probe out of the space",
		func(integ dynamo.Integrator) {
			w, earth, probe := geoWorld(integ, 4000)

			escapedAt := 0
			for i := 0; i < 1000; i++ {
				f, err := w.Update()
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Report.Collided).To(BeEmpty())

				for _, b := range f.Bodies {
					Expect(b.Step).To(BeNumerically(">", 0))
					Expect(b.Step).To(BeNumerically("<=", 1000))
				}
				if escapedAt == 0 && len(f.Report.Escaped) > 0 {
					Expect(f.Report.Escaped).To(ConsistOf(probe))
					escapedAt = f.Tick
				}
			}

			Expect(w.State()).To(Equal(world.Running))
			Expect(escapedAt).To(BeNumerically(">", 100))
			Expect(escapedAt).To(BeNumerically("<", 250))

			anchor, ok := w.Anchor()
			Expect(ok).To(BeTrue())
			Expect(anchor.ID).To(Equal(earth))
			Expect(w.Len()).To(Equal(1))
		},
		Entry("euler-heun", eulerHeun()),
		Entry("heun", heun()),
	)

	DescribeTable("a circular launch stays bound",
		func(integ dynamo.Integrator, lo, hi float64) {
			speed := physics.CircularSpeed(dynamo.Body{Mass: 5.97e24}, 4.2e7)
			w, earth, probe := geoWorld(integ, speed)

			for i := 0; i < 1000; i++ {
				f, err := w.Update()
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Report.Marked()).To(BeEmpty())

				e, _ := f.Body(earth)
				p, ok := f.Body(probe)
				Expect(ok).To(BeTrue())

				r := r2.Norm(r2.Sub(p.Position, e.Position))
				Expect(r).To(BeNumerically(">=", lo))
				Expect(r).To(BeNumerically("<=", hi))
				Expect(p.Step).To(BeNumerically("<", 1000))
				Expect(e.Step).To(Equal(1000.0))
			}
		},
		Entry("heun", heun(), 3.9e7, 4.5e7),
		Entry("euler-heun", eulerHeun(), 3.9e7, 7.0e7),
	)
})

var _ = Describe("Symmetric binary", func() {
	DescribeTable("conserves total momentum",
		func(integ dynamo.Integrator) {
			w := newWorld(integ)
			_, err := w.Spawn(1e24, dynamo.Vector{Y: -913}, dynamo.Vector{X: -2e7}, blue, 1e6)
			Expect(err).NotTo(HaveOccurred())
			_, err = w.Spawn(1e24, dynamo.Vector{Y: 913}, dynamo.Vector{X: 2e7}, white, 1e6)
			Expect(err).NotTo(HaveOccurred())

			scale := 1e24 * 913.0
			for i := 0; i < 1000; i++ {
				_, err := w.Update()
				Expect(err).NotTo(HaveOccurred())

				p := physics.Momentum(w.Bodies())
				Expect(r2.Norm(p)).To(BeNumerically("<=", 1e-9*scale))
			}

			bodies := w.Bodies()
			Expect(bodies).To(HaveLen(2))
			Expect(bodies[0].Step).To(Equal(bodies[1].Step))
		},
		Entry("euler-heun", eulerHeun()),
		Entry("heun", heun()),
	)
})

var _ = Describe("Launching into a running world", func() {
	It("integrates a spawned body from the next tick on", func() {
		w, _, _ := geoWorld(heun(), 3080.6)
		for i := 0; i < 10; i++ {
			_, err := w.Update()
			Expect(err).NotTo(HaveOccurred())
		}

		id, err := w.Spawn(1e20, dynamo.Vector{Y: 3080.6}, dynamo.Vector{X: 4.2e7}, white, 1.6e6)
		Expect(err).NotTo(HaveOccurred())
		before, _ := w.Body(id)

		f, err := w.Update()
		if errors.Is(err, dynamo.ErrSessionTerminated) {
			Fail("session ended unexpectedly")
		}
		Expect(err).NotTo(HaveOccurred())

		after, ok := f.Body(id)
		Expect(ok).To(BeTrue())
		Expect(after.Position).NotTo(Equal(before.Position))
		Expect(after.Step).To(BeNumerically("<", before.Step))
	})
})
