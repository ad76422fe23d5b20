// Package filter provides FIR filter design for the streaming decimator.
//
// Coefficients are synthesized in the frequency domain: an ideal
// conjugate-symmetric spectrum is built bin by bin, inverse-transformed to a
// time-domain impulse response, circularly re-centered, and windowed. The
// boxcar lowpass is the only spectrum shape exercised today, but the
// transform-based path accepts arbitrary conjugate-symmetric spectra
// (bandpass and shaped responses fit the same contract).
package filter

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-fir-decimator/internal/mathutil"
)

// Spectrum is a conjugate-symmetric complex design spectrum.
//
// Only bins [0, Len/2] are directly settable; each write is mirrored to bin
// (Len-n) mod Len with the conjugate value, so the inverse transform of the
// spectrum is always purely real up to rounding error.
type Spectrum struct {
	bins []complex128
	mask int
}

// NewSpectrum creates a spectrum with the given power-of-two length.
func NewSpectrum(length int) (*Spectrum, error) {
	if !mathutil.IsPowerOfTwo(length) {
		return nil, fmt.Errorf("spectrum length %d is not a power of two", length)
	}
	return &Spectrum{
		bins: make([]complex128, length),
		mask: length - 1,
	}, nil
}

// Len returns the spectrum length.
func (s *Spectrum) Len() int {
	return len(s.bins)
}

// SetBin sets bin n (0 <= n <= Len/2) and its negative-frequency mirror.
// The mirror bin receives the complex conjugate, preserving conjugate symmetry.
func (s *Spectrum) SetBin(n int, v complex128) {
	s.bins[n] = v
	s.bins[(len(s.bins)-n)&s.mask] = cmplx.Conj(v)
}

// SetLowPass fills the spectrum with an ideal boxcar lowpass response:
// magnitude 1 below maxbin, 0 at and above it, mirrored for negative
// frequencies. A maxbin of 0 produces an all-zero (blocking) spectrum;
// a maxbin above Len/2 saturates to allpass.
func (s *Spectrum) SetLowPass(maxbin int) {
	half := len(s.bins) / 2
	for n := 0; n <= half; n++ {
		if n < maxbin {
			s.SetBin(n, 1)
		} else {
			s.SetBin(n, 0)
		}
	}
}

// Bins returns the backing bin slice. The caller must preserve conjugate
// symmetry when mutating it directly; prefer SetBin.
func (s *Spectrum) Bins() []complex128 {
	return s.bins
}

// CutoffBin converts a passband edge in Hz to the ideal-spectrum cutoff bin:
//
//	maxbin = tapCount * passbandHz / inputRate / 2
//
// computed with truncating integer division at each step.
func CutoffBin(tapCount, passbandHz, inputRate int) int {
	return tapCount * passbandHz / inputRate / 2
}

// Designer owns the transform plan and scratch buffers used to realize
// time-domain coefficients from a design spectrum. It is created when the
// filter stage starts and dropped when it stops; it holds no process-global
// state. A Designer is not safe for concurrent use.
type Designer struct {
	tapCount  int
	inputRate int

	fft      *fourier.CmplxFFT
	spectrum *Spectrum
	impulse  []complex128
	window   []float64
}

// NewDesigner creates a designer for the given power-of-two tap count and
// input sample rate.
func NewDesigner(tapCount, inputRate int) (*Designer, error) {
	if !mathutil.IsPowerOfTwo(tapCount) {
		return nil, fmt.Errorf("tap count %d is not a power of two", tapCount)
	}
	if inputRate <= 0 {
		return nil, fmt.Errorf("input rate must be positive, got %d", inputRate)
	}

	spectrum, err := NewSpectrum(tapCount)
	if err != nil {
		return nil, err
	}

	return &Designer{
		tapCount:  tapCount,
		inputRate: inputRate,
		fft:       fourier.NewCmplxFFT(tapCount),
		spectrum:  spectrum,
		impulse:   make([]complex128, tapCount),
		window:    HammingWindow(tapCount),
	}, nil
}

// TapCount returns the designed filter length.
func (d *Designer) TapCount() int {
	return d.tapCount
}

// Window returns the designer's window coefficients (shared, do not mutate).
func (d *Designer) Window() []float64 {
	return d.window
}

// LowPass designs lowpass coefficients for the given passband edge.
// The result is deterministic in (passbandHz, tapCount, inputRate): calling
// it twice with the same passband yields bit-identical coefficients.
func (d *Designer) LowPass(passbandHz int) []float64 {
	d.spectrum.SetLowPass(CutoffBin(d.tapCount, passbandHz, d.inputRate))
	return d.Realize()
}

// Realize inverse-transforms the current design spectrum into windowed
// time-domain coefficients.
//
// The raw inverse transform places the sinc peak at index 0; reading output
// index n from transform bin (n + tapCount/2) mod tapCount re-centers the
// peak mid-array. Only the real component is kept: the spectrum's conjugate
// symmetry makes the imaginary residue numerically negligible. The window
// carries the 1/tapCount normalization the unnormalized transform omits.
func (d *Designer) Realize() []float64 {
	d.impulse = d.fft.Sequence(d.impulse, d.spectrum.Bins())

	half := d.tapCount / 2
	mask := d.tapCount - 1
	coeffs := make([]float64, d.tapCount)
	for n := range coeffs {
		coeffs[n] = real(d.impulse[(n+half)&mask]) * d.window[n]
	}
	return coeffs
}

// Spectrum returns the designer's spectrum for direct shaping before a
// Realize call. LowPass overwrites any custom shape.
func (d *Designer) Spectrum() *Spectrum {
	return d.spectrum
}
