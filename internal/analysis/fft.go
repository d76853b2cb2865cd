package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns |X_k| for k in [0, n/2) of the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	spec := fft.FFTReal(centered(data))
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod returns the period, in samples, of the strongest
// non-constant frequency component.
func DominantPeriod(data []float64) (float64, error) {
	if len(data) < 4 {
		return 0, ErrTooShort
	}
	ps := PowerSpectrum(data)

	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, errors.New("analysis: no periodic component")
	}
	return float64(len(data)) / float64(best), nil
}

func centered(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}
