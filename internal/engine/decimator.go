// Package engine implements the streaming convolution and decimation loop.
//
// The engine keeps one circular history buffer per channel and emits one
// filtered output frame every Nth input frame. Filter coefficients are
// published through an atomic pointer swap, so a running Process call never
// observes a half-updated filter when the passband is redesigned.
package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/tphakala/go-fir-decimator/internal/mathutil"
	"github.com/tphakala/go-fir-decimator/internal/simdops"
)

// Sentinel errors returned by Process and SetTaps.
var (
	// ErrPartialFrame indicates an input block whose sample count is not a
	// multiple of the channel count. Such blocks are rejected outright;
	// no prefix is consumed.
	ErrPartialFrame = errors.New("input block is not a whole number of frames")

	// ErrTapCountMismatch indicates a coefficient set whose length differs
	// from the length the decimator was created with.
	ErrTapCountMismatch = errors.New("coefficient count does not match filter length")
)

// tapSet is an immutable snapshot of the filter coefficients.
//
// reversed holds the coefficients in reverse order so the backward walk over
// the circular history splits into two contiguous forward dot products.
// A new tapSet is built for every redesign and published as a whole.
type tapSet[F simdops.Float] struct {
	forward  []F
	reversed []F
	dcGain   float64
}

// Decimator is a streaming FIR convolver with integer decimation.
//
// Type parameter F must be float32 or float64, controlling the precision of
// sample processing (matching the interleaved block element type).
//
// All mutable streaming state (history buffers, write cursor, decimation
// counter) is single-writer: only Process touches it, and calls must be
// serialized. SetTaps may run concurrently with Process thanks to the atomic
// coefficient swap, but concurrent SetTaps calls must be serialized by the
// caller.
type Decimator[F simdops.Float] struct {
	taps atomic.Pointer[tapSet[F]]

	// Per-channel circular sample history, all sharing one write cursor.
	history [][]F
	head    int
	mask    int

	count    int // frames since the last emitted output, in [0, factor)
	factor   int
	channels int
	tapCount int

	ops *simdops.Ops[F]
}

// NewDecimator creates a decimator with the given initial coefficients,
// channel count, and decimation factor. The coefficient count fixes the
// filter length and must be a power of two.
func NewDecimator[F simdops.Float](coeffs []float64, channels, factor int) (*Decimator[F], error) {
	if !mathutil.IsPowerOfTwo(len(coeffs)) {
		return nil, fmt.Errorf("filter length %d is not a power of two", len(coeffs))
	}
	if channels < 1 {
		return nil, fmt.Errorf("channel count must be at least 1, got %d", channels)
	}
	if factor < 1 {
		return nil, fmt.Errorf("decimation factor must be at least 1, got %d", factor)
	}

	tapCount := len(coeffs)
	history := make([][]F, channels)
	for c := range history {
		history[c] = make([]F, tapCount)
	}

	d := &Decimator[F]{
		history:  history,
		mask:     tapCount - 1,
		factor:   factor,
		channels: channels,
		tapCount: tapCount,
		ops:      simdops.For[F](),
	}
	d.taps.Store(d.buildTapSet(coeffs))
	return d, nil
}

// buildTapSet converts float64 design coefficients into an immutable
// snapshot in the engine's working precision.
func (d *Decimator[F]) buildTapSet(coeffs []float64) *tapSet[F] {
	forward := make([]F, len(coeffs))
	reversed := make([]F, len(coeffs))
	for i, c := range coeffs {
		forward[i] = F(c)
		reversed[len(coeffs)-1-i] = F(c)
	}
	return &tapSet[F]{
		forward:  forward,
		reversed: reversed,
		dcGain:   float64(d.ops.Sum(forward)),
	}
}

// SetTaps atomically replaces the filter coefficients without disturbing the
// channel history, the write cursor, or the decimation counter.
func (d *Decimator[F]) SetTaps(coeffs []float64) error {
	if len(coeffs) != d.tapCount {
		return fmt.Errorf("%w: got %d, filter length is %d",
			ErrTapCountMismatch, len(coeffs), d.tapCount)
	}
	d.taps.Store(d.buildTapSet(coeffs))
	return nil
}

// Process convolves an interleaved multi-channel input block against the
// current coefficients, emitting one interleaved output frame every factor
// input frames.
//
// The decimation counter and write cursor persist across calls: feeding
// k*factor frames yields exactly k output frames per channel regardless of
// how the frames are split across calls. Input whose length is not a
// multiple of the channel count is rejected with ErrPartialFrame.
func (d *Decimator[F]) Process(input []F) ([]F, error) {
	if len(input)%d.channels != 0 {
		return nil, fmt.Errorf("%w: %d samples across %d channels",
			ErrPartialFrame, len(input), d.channels)
	}

	frames := len(input) / d.channels
	output := make([]F, 0, (d.count+frames)/d.factor*d.channels)

	// Snapshot the coefficients once per call; a concurrent redesign swaps
	// in a complete replacement set.
	ts := d.taps.Load()

	in := 0
	for frame := 0; frame < frames; frame++ {
		for c := range d.history {
			d.history[c][d.head] = input[in]
			in++
		}

		d.count++
		if d.count == d.factor {
			output = d.emitFrame(output, ts)
			d.count = 0
		}

		d.head = (d.head + 1) & d.mask
	}

	return output, nil
}

// emitFrame appends one output frame: for each channel, the dot product of
// the coefficients against the history walked backward from the most recent
// sample.
//
// The backward circular walk
//
//	sum = Σ taps[t] * history[(head-t) & mask]
//
// is evaluated as two contiguous dot products against the reversed
// coefficients, keeping the hot loop on SIMD-friendly forward slices.
func (d *Decimator[F]) emitFrame(output []F, ts *tapSet[F]) []F {
	split := d.tapCount - 1 - d.head
	for c := range d.history {
		hist := d.history[c]
		sum := d.ops.DotProductUnsafe(ts.reversed[split:], hist[:d.head+1])
		if split > 0 {
			sum += d.ops.DotProductUnsafe(ts.reversed[:split], hist[d.head+1:])
		}
		output = append(output, sum)
	}
	return output
}

// Reset clears the channel history, write cursor, and decimation counter.
// The coefficients are kept.
func (d *Decimator[F]) Reset() {
	for c := range d.history {
		clear(d.history[c])
	}
	d.head = 0
	d.count = 0
}

// Pending returns the number of input frames consumed since the last
// emitted output frame.
func (d *Decimator[F]) Pending() int {
	return d.count
}

// Factor returns the decimation factor.
func (d *Decimator[F]) Factor() int {
	return d.factor
}

// Channels returns the channel count.
func (d *Decimator[F]) Channels() int {
	return d.channels
}

// TapCount returns the filter length.
func (d *Decimator[F]) TapCount() int {
	return d.tapCount
}

// Taps returns a copy of the current coefficients as float64.
func (d *Decimator[F]) Taps() []float64 {
	ts := d.taps.Load()
	coeffs := make([]float64, len(ts.forward))
	for i, c := range ts.forward {
		coeffs[i] = float64(c)
	}
	return coeffs
}

// DCGain returns the DC gain of the current coefficients.
func (d *Decimator[F]) DCGain() float64 {
	return d.taps.Load().dcGain
}
