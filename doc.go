// Package decimator provides a streaming decimating FIR lowpass filter in pure Go.
//
// The filter designs its own coefficients at start time from a requested
// passband cutoff (an ideal brick-wall spectrum is inverse-transformed and
// Hamming-windowed) and then continuously convolves interleaved multi-channel
// sample blocks against those coefficients while down-sampling the output by
// an integer factor.
//
// # Features
//
//   - Frequency-domain filter synthesis (boxcar spectrum, inverse DFT, Hamming window)
//   - Integer-factor decimation with exact rate accounting (outputRate * factor == inputRate)
//   - Streaming circular-buffer convolution with state preserved across block boundaries
//   - Passband hot-reload while running, published via atomic coefficient swap
//   - Multi-channel interleaved processing, channel count fixed per run
//   - Optional SIMD acceleration (AVX2/SSE) via github.com/tphakala/simd
//   - Pure Go implementation with no CGO dependencies
//
// # Quick Start
//
//	lp, err := decimator.New(&decimator.Config{
//	    InputRate:  48000,
//	    Channels:   2,
//	    Passband:   6000,
//	    Decimation: 2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := lp.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer lp.Stop()
//
//	for chunk := range audioChunks {
//	    out, err := lp.Process(chunk) // interleaved frames at 24 kHz
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    writeOutput(out)
//	}
//
// Either the decimation factor or the desired output rate may be specified;
// whichever was set last wins and the other is derived at Start. Starting
// fails when neither is set, or when the input rate is not an exact integer
// multiple of the requested output rate.
//
// # Passband Hot-Reload
//
// [LowPass.SetPassband] may be called while the filter is running. The
// coefficients are redesigned immediately and swapped in atomically; the
// per-channel sample history is untouched, so the stream continues without a
// glitch in state.
//
// # Thread Safety
//
// Processing is synchronous call-and-return on the caller's goroutine.
// Calls to [LowPass.Process] must be serialized. [LowPass.SetPassband] is
// safe to call concurrently with Process because coefficient sets are
// published whole through an atomic pointer; concurrent SetPassband calls
// must themselves be serialized.
package decimator
