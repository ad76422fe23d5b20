package filter

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// Frequency response calculation constants.
const (
	defaultResponsePoints = 512
	nyquistDivisor        = 2

	// Floor to avoid log(0) in dB conversion.
	minMagnitude = 1e-10
	dbMultiplier = 20.0

	// Threshold below which a DC sum is treated as zero during normalization.
	normalizeZeroThreshold = 1e-12
)

// Response holds the frequency response of a FIR filter.
type Response struct {
	// Frequencies at which the response was evaluated (normalized, 0 to 0.5).
	Frequencies []float64

	// Magnitude response at each frequency (linear scale).
	Magnitude []float64

	// Phase response at each frequency (radians).
	Phase []float64
}

// ComputeResponse evaluates the DTFT of the coefficients at numPoints
// frequencies from 0 to Nyquist.
func ComputeResponse(coeffs []float64, numPoints int) Response {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	response := Response{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := float64(k) / float64(nyquistDivisor*numPoints)
		response.Frequencies[k] = freq

		// H(e^jω) = Σ h[n]·e^(-jωn)
		var realPart, imagPart float64
		omega := 2 * math.Pi * freq

		for n, h := range coeffs {
			angle := omega * float64(n)
			realPart += h * math.Cos(angle)
			imagPart -= h * math.Sin(angle)
		}

		response.Magnitude[k] = math.Sqrt(realPart*realPart + imagPart*imagPart)
		response.Phase[k] = math.Atan2(imagPart, realPart)
	}

	return response
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}

// DCGain returns the filter's gain at DC (the coefficient sum).
func DCGain(coeffs []float64) float64 {
	return f64.Sum(coeffs)
}

// NormalizeDC rescales coefficients in place so their DC gain equals gain.
// Coefficients whose sum is numerically zero are left untouched.
func NormalizeDC(coeffs []float64, gain float64) {
	sum := f64.Sum(coeffs)
	if math.Abs(sum) <= normalizeZeroThreshold {
		return
	}
	f64.Scale(coeffs, coeffs, gain/sum)
}
