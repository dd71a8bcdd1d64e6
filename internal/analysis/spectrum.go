package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns the one-sided power spectrum of a uniformly
// sampled signal. Bin k corresponds to frequency k/(n*dt) for a sample
// spacing dt.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	fft := fourier.NewFFT(len(data))
	coeffs := fft.Coefficients(nil, data)

	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		a := cmplx.Abs(c)
		ps[i] = a * a / float64(len(data))
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest non-DC
// spectral bin, in cycles per time unit, for samples spaced dt apart.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}

	return float64(maxIdx) / (float64(len(data)) * dt)
}
