// Command analyze-filter prints the designed coefficients and frequency
// response of the decimating lowpass filter for a given configuration.
//
// Usage:
//
//	analyze-filter -rate 48000 -passband 6000 -taps 64
//	analyze-filter -rate 48000 -passband 6000 -normalize
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tphakala/go-fir-decimator/internal/filter"
	"github.com/tphakala/go-fir-decimator/internal/mathutil"
)

const (
	defaultTapCount  = 64
	defaultInputRate = 48000
	defaultPassband  = 6000

	// Response table resolution
	responsePoints = 512
	tableRows      = 16

	// Tap dump layout
	tapsPerRow = 4
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "analyze-filter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	taps := flag.Int("taps", defaultTapCount, "Filter length (rounded up to a power of two)")
	rate := flag.Int("rate", defaultInputRate, "Input sample rate in Hz")
	passband := flag.Int("passband", defaultPassband, "Passband cutoff in Hz")
	normalize := flag.Bool("normalize", false, "Rescale coefficients to exactly unity DC gain")
	dump := flag.Bool("dump", false, "Print all coefficient values")
	flag.Parse()

	tapCount := mathutil.NextPowerOfTwo(*taps)
	if tapCount != *taps {
		fmt.Printf("Note: tap count rounded up to %d\n", tapCount)
	}

	designer, err := filter.NewDesigner(tapCount, *rate)
	if err != nil {
		return err
	}

	coeffs := designer.LowPass(*passband)
	if *normalize {
		filter.NormalizeDC(coeffs, 1.0)
	}

	maxbin := filter.CutoffBin(tapCount, *passband, *rate)
	fmt.Println("=== Decimating Lowpass Design ===")
	fmt.Printf("  Taps:        %d\n", tapCount)
	fmt.Printf("  Input rate:  %d Hz\n", *rate)
	fmt.Printf("  Passband:    %d Hz\n", *passband)
	fmt.Printf("  Cutoff bin:  %d (%.1f Hz per bin)\n", maxbin, float64(*rate)/float64(tapCount))
	fmt.Printf("  DC gain:     %.10f (%.3f dB)\n\n",
		filter.DCGain(coeffs), filter.MagnitudeDB(filter.DCGain(coeffs)))

	if *dump {
		fmt.Println("Coefficients:")
		for i, c := range coeffs {
			fmt.Printf("  % .10f", c)
			if (i+1)%tapsPerRow == 0 {
				fmt.Println()
			}
		}
		fmt.Println()
	}

	resp := filter.ComputeResponse(coeffs, responsePoints)
	fmt.Println("Frequency response:")
	fmt.Printf("  %12s  %12s  %10s\n", "freq (Hz)", "magnitude", "dB")
	step := len(resp.Frequencies) / tableRows
	for k := 0; k < len(resp.Frequencies); k += step {
		hz := resp.Frequencies[k] * float64(*rate)
		fmt.Printf("  %12.1f  %12.6f  %10.2f\n",
			hz, resp.Magnitude[k], filter.MagnitudeDB(resp.Magnitude[k]))
	}

	return nil
}
