package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/slingshot/internal/dynamo"
)

var constructors = map[string]func(StepPolicy) dynamo.Integrator{
	"euler-heun": func(p StepPolicy) dynamo.Integrator { return NewEulerHeun(p) },
	"heun":       func(p StepPolicy) dynamo.Integrator { return NewHeun(p) },
}

// New returns the integrator registered under name.
func New(name string, policy StepPolicy) (dynamo.Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(policy), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
