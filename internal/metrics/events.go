package metrics

import "github.com/san-kum/slingshot/internal/dynamo"

// Counter totals bodies removed by the collision pass.
type Counter struct {
	name  string
	count int
	pick  func(dynamo.Report) []dynamo.BodyID
}

func NewCollisions() *Counter {
	return &Counter{
		name: "collisions",
		pick: func(r dynamo.Report) []dynamo.BodyID { return r.Collided },
	}
}

func NewEscapes() *Counter {
	return &Counter{
		name: "escapes",
		pick: func(r dynamo.Report) []dynamo.BodyID { return r.Escaped },
	}
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) Observe(f dynamo.Frame) {
	c.count += len(c.pick(f.Report))
}

func (c *Counter) Value() float64 { return float64(c.count) }

func (c *Counter) Reset() { c.count = 0 }
