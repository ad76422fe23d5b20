// Command decimate-wav lowpass-filters and decimates WAV audio files by an
// integer factor.
//
// Usage:
//
//	decimate-wav -factor 2 input.wav output.wav
//	decimate-wav -rate 16000 -passband 7000 input.wav output.wav
//	decimate-wav -factor 3 -v input.wav output.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	decimator "github.com/tphakala/go-fir-decimator"
)

const (
	// Buffer size for processing (frames per chunk).
	bufferFrames = 8192

	// CLI defaults
	minRequiredArgs = 2

	// Default passband as a percentage of the output rate.
	defaultPassbandPercent = 45
	percentDivisor         = 100
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	factor := flag.Int("factor", 0, "Integer decimation factor (e.g. 2, 3, 4)")
	rate := flag.Int("rate", 0, "Target output sample rate in Hz (alternative to -factor)")
	passband := flag.Int("passband", 0, "Passband cutoff in Hz (default: 45% of the output rate)")
	taps := flag.Int("taps", decimator.DefaultTapCount, "Filter length (power of two)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -factor 2 input.wav output.wav      # Halve the sample rate\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 16000 speech.wav out.wav      # Downsample for speech\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}
	if *factor == 0 && *rate == 0 {
		return fmt.Errorf("specify either -factor or -rate")
	}

	input, err := openWAVInput(args[0], *verbose)
	if err != nil {
		return err
	}
	defer func() { _ = input.Close() }()

	outputRate := *rate
	if outputRate == 0 {
		outputRate = input.rate / *factor
	}

	cutoff := *passband
	if cutoff == 0 {
		cutoff = outputRate * defaultPassbandPercent / percentDivisor
	}

	lp, err := decimator.New(&decimator.Config{
		InputRate:  input.rate,
		Channels:   input.channels,
		TapCount:   *taps,
		Passband:   cutoff,
		OutputRate: outputRate,
	})
	if err != nil {
		return err
	}
	if err := lp.Start(); err != nil {
		return err
	}
	defer lp.Stop()

	if *verbose {
		log.Printf("Decimating %d Hz -> %d Hz (factor %d), passband %d Hz, %d taps",
			input.rate, lp.OutputRate(), lp.Decimation(), cutoff, lp.TapCount())
	}

	out, err := createWAVOutput(args[1], lp.OutputRate(), input.bitDepth, input.channels)
	if err != nil {
		return err
	}

	if err := decimateStream(input, out, lp, *verbose); err != nil {
		_ = out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finalize output: %w", err)
	}

	if *verbose {
		log.Printf("Done: %s", args[1])
	}
	return nil
}
