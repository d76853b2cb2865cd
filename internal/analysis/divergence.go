package analysis

import (
	"math"

	"github.com/san-kum/slingshot/internal/storage"
)

// Divergence returns the position separation between two tracks of the
// same body, tick by tick, over the ticks both contain.
func Divergence(a, b []storage.Sample) []float64 {
	at := make(map[int]storage.Sample, len(b))
	for _, s := range b {
		at[s.Tick] = s
	}

	sep := make([]float64, 0, len(a))
	for _, s := range a {
		o, ok := at[s.Tick]
		if !ok {
			continue
		}
		sep = append(sep, math.Hypot(s.X-o.X, s.Y-o.Y))
	}
	return sep
}

// GrowthRate estimates the exponential growth rate of a separation series
// per sample: the mean of ln(d_i / d_0) / i over samples with d_i > 0.
// The first non-zero separation is d_0.
func GrowthRate(sep []float64) float64 {
	start := -1
	for i, d := range sep {
		if d > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}

	d0 := sep[start]
	sum := 0.0
	count := 0
	for i := start + 1; i < len(sep); i++ {
		if sep[i] <= 0 {
			continue
		}
		sum += math.Log(sep[i]/d0) / float64(i-start)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
