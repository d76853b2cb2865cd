package world_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/world"
)

var _ = Describe("CheckCollisions", func() {
	var (
		w      *world.World
		anchor dynamo.BodyID
	)

	BeforeEach(func() {
		w = newWorld(eulerHeun())
		var err error
		anchor, err = w.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{}, blue, 3.2e6)
		Expect(err).NotTo(HaveOccurred())
	})

	spawn := func(x, y, radius float64) dynamo.BodyID {
		id, err := w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: x, Y: y}, white, radius)
		Expect(err).NotTo(HaveOccurred())
		return id
	}

	It("marks a body overlapping the anchor but never the anchor", func() {
		probe := spawn(4e6, 0, 1.6e6)

		r := w.CheckCollisions()
		Expect(r.Collided).To(ConsistOf(probe))
		Expect(r.Collided).NotTo(ContainElement(anchor))
		Expect(r.Terminated).To(BeFalse())
	})

	It("marks both bodies of an overlapping pair", func() {
		a := spawn(5e7, 0, 1e6)
		b := spawn(5e7+1.5e6, 0, 1e6)
		c := spawn(-5e7, 0, 1e6)

		r := w.CheckCollisions()
		Expect(r.Collided).To(ConsistOf(a, b))
		Expect(r.Collided).NotTo(ContainElement(c))
	})

	It("does not mark bodies that exactly touch", func() {
		spawn(4.8e6, 0, 1.6e6)
		Expect(w.CheckCollisions().Marked()).To(BeEmpty())
	})

	It("marks non-anchor bodies outside the space as escaped", func() {
		far := spawn(0, -1.8e8, 1e6)
		near := spawn(0, 1.6e8, 1e6)

		r := w.CheckCollisions()
		Expect(r.Escaped).To(ConsistOf(far))
		Expect(r.Marked()).NotTo(ContainElement(near))
		Expect(r.Terminated).To(BeFalse())
	})

	It("reports a body that collides outside the space only once", func() {
		a := spawn(1.8e8, 0, 1e6)
		b := spawn(1.8e8, 1e6, 1e6)

		r := w.CheckCollisions()
		Expect(r.Collided).To(ConsistOf(a, b))
		Expect(r.Escaped).To(BeEmpty())
	})

	It("flags termination when the anchor leaves the space", func() {
		lone := newWorld(eulerHeun())
		_, err := lone.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{X: 1.7e8 + 1}, blue, 3.2e6)
		Expect(err).NotTo(HaveOccurred())

		r := lone.CheckCollisions()
		Expect(r.Terminated).To(BeTrue())
		Expect(r.Marked()).To(BeEmpty())
	})

	It("is independent of insertion order", func() {
		positions := []dynamo.Vector{{X: 5e7}, {X: 5e7 + 1.5e6}, {X: -5e7}, {Y: 1.9e8}}

		collect := func(order []int) (collided, escaped []dynamo.Vector) {
			ww := newWorld(eulerHeun())
			_, err := ww.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{}, blue, 3.2e6)
			Expect(err).NotTo(HaveOccurred())
			for _, i := range order {
				_, err := ww.Spawn(1e20, dynamo.Vector{}, positions[i], white, 1e6)
				Expect(err).NotTo(HaveOccurred())
			}
			r := ww.CheckCollisions()
			for _, id := range r.Collided {
				b, _ := ww.Body(id)
				collided = append(collided, b.Position)
			}
			for _, id := range r.Escaped {
				b, _ := ww.Body(id)
				escaped = append(escaped, b.Position)
			}
			return collided, escaped
		}

		c1, e1 := collect([]int{0, 1, 2, 3})
		c2, e2 := collect([]int{3, 2, 1, 0})
		Expect(c1).To(ConsistOf(c2))
		Expect(e1).To(ConsistOf(e2))
		Expect(c1).To(HaveLen(2))
		Expect(e1).To(HaveLen(1))
	})
})

var _ = Describe("RemoveCollided", func() {
	var (
		w   *world.World
		ids []dynamo.BodyID
	)

	BeforeEach(func() {
		w = newWorld(eulerHeun())
		ids = nil
		for i := 0; i < 5; i++ {
			id, err := w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: float64(i) * 1e7}, white, 1e6)
			Expect(err).NotTo(HaveOccurred())
			ids = append(ids, id)
		}
	})

	It("removes adjacent marked bodies without skipping", func() {
		Expect(w.RemoveCollided([]dynamo.BodyID{ids[2], ids[3]})).To(Equal(2))
		Expect(w.Len()).To(Equal(3))
		_, ok := w.Body(ids[2])
		Expect(ok).To(BeFalse())
		_, ok = w.Body(ids[3])
		Expect(ok).To(BeFalse())
	})

	It("keeps the insertion order of survivors", func() {
		w.RemoveCollided([]dynamo.BodyID{ids[1], ids[3]})
		var got []dynamo.BodyID
		for _, b := range w.Bodies() {
			got = append(got, b.ID)
		}
		Expect(got).To(Equal([]dynamo.BodyID{ids[0], ids[2], ids[4]}))
	})

	It("ignores unknown and duplicate IDs", func() {
		Expect(w.RemoveCollided([]dynamo.BodyID{999, ids[4], ids[4]})).To(Equal(1))
		Expect(w.Len()).To(Equal(4))
	})

	It("never removes the anchor", func() {
		Expect(w.RemoveCollided([]dynamo.BodyID{ids[0]})).To(Equal(0))
		anchor, ok := w.Anchor()
		Expect(ok).To(BeTrue())
		Expect(anchor.ID).To(Equal(ids[0]))
	})

	It("does nothing for an empty mark list", func() {
		Expect(w.RemoveCollided(nil)).To(Equal(0))
		Expect(w.Len()).To(Equal(5))
	})
})

var _ = Describe("Update collision handling", func() {
	It("removes colliding bodies and keeps the anchor", func() {
		w, earth, probe := geoWorld(eulerHeun(), 3080.6)
		a, err := w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: -1e8}, white, 1e6)
		Expect(err).NotTo(HaveOccurred())
		b, err := w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: -1e8, Y: 1e6}, white, 1e6)
		Expect(err).NotTo(HaveOccurred())

		f, err := w.Update()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Report.Collided).To(ConsistOf(a, b))
		Expect(w.Len()).To(Equal(2))

		_, ok := f.Body(a)
		Expect(ok).To(BeFalse())
		_, ok = f.Body(probe)
		Expect(ok).To(BeTrue())
		anchor, ok := w.Anchor()
		Expect(ok).To(BeTrue())
		Expect(anchor.ID).To(Equal(earth))
	})

	It("terminates the session when the anchor escapes", func() {
		w := newWorld(eulerHeun())
		_, err := w.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{X: 2e8}, blue, 3.2e6)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{X: 1e8}, white, 1.6e6)
		Expect(err).NotTo(HaveOccurred())

		f, err := w.Update()
		Expect(err).To(MatchError(dynamo.ErrSessionTerminated))
		Expect(f.Report.Terminated).To(BeTrue())
		Expect(f.Bodies).To(HaveLen(2))
		Expect(w.State()).To(Equal(world.Terminated))

		_, err = w.Update()
		Expect(err).To(MatchError(dynamo.ErrSessionTerminated))
		Expect(w.Ticks()).To(Equal(1))

		before := w.Bodies()
		_, err = w.Tick()
		Expect(err).To(MatchError(dynamo.ErrSessionTerminated))
		Expect(w.Ticks()).To(Equal(1))
		Expect(w.Bodies()).To(Equal(before))

		_, err = w.Spawn(1e20, dynamo.Vector{}, dynamo.Vector{}, white, 1)
		Expect(err).To(MatchError(dynamo.ErrSessionTerminated))
	})

	It("reports the session end through Run", func() {
		w := newWorld(eulerHeun())
		_, err := w.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{Y: -2e8}, blue, 3.2e6)
		Expect(err).NotTo(HaveOccurred())

		Expect(w.Run(context.Background(), 10, nil)).To(MatchError(dynamo.ErrSessionTerminated))
		Expect(w.Ticks()).To(Equal(1))
	})
})
