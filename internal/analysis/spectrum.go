package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("series too short for spectral analysis")

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// series, after removing its mean. Bin k is the frequency k/(len(series)*dt).
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centred := make([]float64, len(series))
	for i, v := range series {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in a
// uniformly sampled series. The peak bin is refined by fitting a parabola
// through it and its neighbours.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, errors.New("sample spacing must be positive")
	}
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0, ErrShortSeries
	}

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("series has no oscillating component")
	}

	k := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			k += 0.5 * (a - c) / denom
		}
	}
	return float64(len(series)) * dt / k, nil
}

// CrossingPeriod estimates the period from upward crossings of the series
// mean, interpolating each crossing linearly between samples.
func CrossingPeriod(series []float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, errors.New("sample spacing must be positive")
	}
	if len(series) < 3 {
		return 0, ErrShortSeries
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	var crossings []float64
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1]-mean, series[i]-mean
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			crossings = append(crossings, (float64(i-1)+frac)*dt)
		}
	}
	if len(crossings) < 2 {
		return 0, errors.New("fewer than two crossings")
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), nil
}
