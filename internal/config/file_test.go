package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slingshot/internal/dynamo"
)

var _ = Describe("Load and Save", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(body), 0644)).To(Succeed())
		return path
	}

	It("round-trips a preset", func() {
		path := filepath.Join(dir, "moon.yaml")
		Expect(Save(path, GetPreset("moon"))).To(Succeed())

		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(GetPreset("moon")))
	})

	It("fills missing fields from the defaults", func() {
		path := write("partial.yaml", `
integrator: heun
bodies:
  - name: sun
    mass: 2e30
    radius: 7e8
    position: {x: 0, y: 0}
`)
		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Integrator).To(Equal("heun"))
		Expect(cfg.SpaceBoundary).To(Equal(DefaultSpaceBoundary))
		Expect(cfg.Launch.Mass).To(Equal(DefaultLaunchMass))
		Expect(cfg.Bodies).To(HaveLen(1))
		Expect(cfg.Bodies[0].Mass).To(Equal(2e30))
	})

	It("keeps the reference bodies when none are given", func() {
		cfg, err := Load(write("empty.yaml", "ticks: 50\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Ticks).To(Equal(50))
		Expect(cfg.Bodies).To(Equal(DefaultConfig().Bodies))
	})

	It("rejects malformed yaml", func() {
		_, err := Load(write("bad.yaml", "bodies: [[[\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects out-of-range values", func() {
		_, err := Load(write("neg.yaml", "space_boundary: -1\n"))
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("reports a missing file", func() {
		_, err := Load(filepath.Join(dir, "missing.yaml"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})

var _ = DescribeTable("Validate",
	func(mutate func(*Config)) {
		cfg := DefaultConfig()
		mutate(cfg)
		Expect(cfg.Validate()).To(MatchError(dynamo.ErrInvalidConfig))
	},
	Entry("zero boundary", func(c *Config) { c.SpaceBoundary = 0 }),
	Entry("zero max step", func(c *Config) { c.MaxStep = 0 }),
	Entry("zero tolerance", func(c *Config) { c.Tolerance = 0 }),
	Entry("negative velocity scale", func(c *Config) { c.MaxVelocity = -1 }),
	Entry("min step above max", func(c *Config) { c.MinStep = 2000 }),
	Entry("unknown integrator", func(c *Config) { c.Integrator = "leapfrog" }),
	Entry("negative ticks", func(c *Config) { c.Ticks = -1 }),
	Entry("zero launch mass", func(c *Config) { c.Launch.Mass = 0 }),
	Entry("massless body", func(c *Config) { c.Bodies[1].Mass = 0 }),
	Entry("bad colour", func(c *Config) { c.Bodies[0].Color = "not-a-colour" }),
)
