package world_test

import (
	"image/color"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/integrators"
	"github.com/san-kum/slingshot/internal/world"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	blue  = color.RGBA{R: 40, G: 90, B: 255, A: 255}
)

func testLogger() *log.Logger {
	return log.New(GinkgoWriter, "world: ", 0)
}

func newWorld(integ dynamo.Integrator, opts ...world.Option) *world.World {
	opts = append([]world.Option{world.WithLogger(testLogger())}, opts...)
	w, err := world.New(world.DefaultConfig(), integ, opts...)
	Expect(err).NotTo(HaveOccurred())
	return w
}

// geoWorld is the earth and probe setup: a heavy anchor at the origin and a
// light probe at 4.2e7 m moving tangentially.
func geoWorld(integ dynamo.Integrator, probeSpeed float64, opts ...world.Option) (*world.World, dynamo.BodyID, dynamo.BodyID) {
	w := newWorld(integ, opts...)
	earth, err := w.Spawn(5.97e24, dynamo.Vector{}, dynamo.Vector{}, blue, 3.2e6)
	Expect(err).NotTo(HaveOccurred())
	probe, err := w.Spawn(1e20, dynamo.Vector{X: probeSpeed}, dynamo.Vector{Y: 4.2e7}, white, 1.6e6)
	Expect(err).NotTo(HaveOccurred())
	return w, earth, probe
}

func eulerHeun() dynamo.Integrator { return integrators.NewEulerHeun(integrators.DefaultPolicy()) }
func heun() dynamo.Integrator      { return integrators.NewHeun(integrators.DefaultPolicy()) }
