package analysis

import (
	"math"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/storage"
)

// RadialDistance returns the distance between body and center for every
// tick in which both appear.
func RadialDistance(samples []storage.Sample, body, center dynamo.BodyID) ([]float64, error) {
	a, err := storage.Track(samples, body)
	if err != nil {
		return nil, err
	}
	b, err := storage.Track(samples, center)
	if err != nil {
		return nil, err
	}

	at := make(map[int]storage.Sample, len(b))
	for _, s := range b {
		at[s.Tick] = s
	}

	out := make([]float64, 0, len(a))
	for _, s := range a {
		c, ok := at[s.Tick]
		if !ok {
			continue
		}
		out = append(out, math.Hypot(s.X-c.X, s.Y-c.Y))
	}
	return out, nil
}

// Apsides returns the smallest and largest distance in r.
func Apsides(r []float64) (periapsis, apoapsis float64) {
	if len(r) == 0 {
		return 0, 0
	}
	periapsis, apoapsis = r[0], r[0]
	for _, v := range r[1:] {
		periapsis = math.Min(periapsis, v)
		apoapsis = math.Max(apoapsis, v)
	}
	return periapsis, apoapsis
}

func Eccentricity(periapsis, apoapsis float64) float64 {
	if periapsis+apoapsis == 0 {
		return 0
	}
	return (apoapsis - periapsis) / (apoapsis + periapsis)
}
