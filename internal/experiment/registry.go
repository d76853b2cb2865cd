package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/integrators"
	"github.com/san-kum/slingshot/internal/metrics"
)

type Registry struct {
	integrators map[string]func(integrators.StepPolicy) dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(integrators.StepPolicy) dynamo.Integrator),
	}

	r.integrators["euler-heun"] = func(p integrators.StepPolicy) dynamo.Integrator { return integrators.NewEulerHeun(p) }
	r.integrators["heun"] = func(p integrators.StepPolicy) dynamo.Integrator { return integrators.NewHeun(p) }

	return r
}

func (r *Registry) GetIntegrator(name string, policy integrators.StepPolicy) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(policy), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) GetPreset(name string) (*config.Config, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

func (r *Registry) ListPresets() []string {
	return config.ListPresets()
}

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return metrics.Default()
}
