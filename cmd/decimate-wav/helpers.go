package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	decimator "github.com/tphakala/go-fir-decimator"
)

// PCM scaling constants per bit depth.
const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavAudioFormatPCM = 1
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit",
			format.SampleRate, format.NumChannels, decoder.BitDepth)
	}

	return &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and WAV encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
}

// createWAVOutput creates the output file and encoder.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	encoder := wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavAudioFormatPCM)
	return &wavOutputWriter{
		file:    outputFile,
		encoder: encoder,
	}, nil
}

// Write appends an interleaved integer PCM buffer to the output.
func (w *wavOutputWriter) Write(buf *audio.IntBuffer) error {
	return w.encoder.Write(buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// maxValueForBitDepth returns the full-scale value for a PCM bit depth.
func maxValueForBitDepth(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

// decimateStream pumps interleaved PCM chunks from the decoder through the
// lowpass decimator into the encoder.
func decimateStream(input *wavInputInfo, out *wavOutputWriter, lp *decimator.LowPass, verbose bool) error {
	maxVal, err := maxValueForBitDepth(input.bitDepth)
	if err != nil {
		return err
	}
	invMaxVal := 1.0 / maxVal

	intBuf := &audio.IntBuffer{
		Data:   make([]int, bufferFrames*input.channels),
		Format: input.format,
	}
	floatBuf := make([]float64, len(intBuf.Data))

	outFormat := &audio.Format{
		SampleRate:  lp.OutputRate(),
		NumChannels: input.channels,
	}

	var framesIn, framesOut int64
	for {
		n, err := input.decoder.PCMBuffer(intBuf)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if n == 0 {
			break
		}

		// Whole frames only; the decoder delivers sample counts aligned to
		// the channel count for valid files.
		n -= n % input.channels

		for i := 0; i < n; i++ {
			floatBuf[i] = float64(intBuf.Data[i]) * invMaxVal
		}

		output, err := lp.Process(floatBuf[:n])
		if err != nil {
			return fmt.Errorf("decimation failed: %w", err)
		}
		framesIn += int64(n / input.channels)

		if len(output) == 0 {
			continue
		}

		outInts := make([]int, len(output))
		for i, v := range output {
			// Clip to full scale before integer conversion.
			if v > 1.0 {
				v = 1.0
			} else if v < -1.0 {
				v = -1.0
			}
			outInts[i] = int(v * maxVal)
		}

		if err := out.Write(&audio.IntBuffer{
			Data:           outInts,
			Format:         outFormat,
			SourceBitDepth: input.bitDepth,
		}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		framesOut += int64(len(output) / input.channels)
	}

	if verbose {
		log.Printf("Processed %d input frames -> %d output frames", framesIn, framesOut)
	}
	return nil
}
