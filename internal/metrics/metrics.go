package metrics

import "github.com/san-kum/slingshot/internal/dynamo"

// Default is the set recorded for every headless run.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewMinStep(),
		NewCollisions(),
		NewEscapes(),
		NewStability(),
	}
}
