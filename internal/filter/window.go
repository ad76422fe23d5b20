package filter

import "math"

// Hamming window coefficients.
const (
	hammingAlpha = 0.54
	hammingBeta  = 0.46
)

// HammingWindow generates a Hamming window of the specified length,
// pre-scaled by 1/length.
//
//	w[n] = (0.54 - 0.46*cos(2πn/(length-1))) / length
//
// The 1/length factor folds the inverse-transform normalization into the
// window so the realized taps need no separate scaling pass. The window
// depends only on the length and is computed once per designer.
func HammingWindow(length int) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1.0
		return window
	}

	scale := 1.0 / float64(length)
	for n := range length {
		w := hammingAlpha - hammingBeta*math.Cos(2*math.Pi*float64(n)/float64(length-1))
		window[n] = w * scale
	}

	return window
}
