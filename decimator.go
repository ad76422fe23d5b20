package decimator

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-fir-decimator/internal/engine"
	"github.com/tphakala/go-fir-decimator/internal/filter"
)

// Common errors returned by the decimator.
var (
	// ErrInvalidConfig indicates invalid configuration parameters. Start
	// returns it (wrapped) when the configuration cannot produce an exact
	// integer decimation; this is fatal and the host must not process.
	ErrInvalidConfig = errors.New("invalid decimator configuration")

	// ErrNotStarted indicates Process was called before a successful Start.
	ErrNotStarted = errors.New("decimator not started")

	// ErrRunning indicates Start was called on an already running filter.
	ErrRunning = errors.New("decimator already running")

	// ErrPartialFrame indicates an input block whose sample count is not a
	// multiple of the channel count. The block is rejected; nothing is
	// consumed.
	ErrPartialFrame = engine.ErrPartialFrame
)

// Config holds the filter stage configuration.
//
// InputRate and Channels come from the enclosing pipeline and are fixed for
// the stage's running lifetime. Passband, Decimation, and OutputRate may also
// be adjusted through setters before Start; Passband additionally supports
// hot-reload while running.
type Config struct {
	// InputRate is the input sample rate in Hz.
	InputRate int

	// Channels is the number of interleaved channels. Output channel count
	// always equals input channel count.
	Channels int

	// TapCount is the FIR filter length. Must be a power of two.
	// Zero selects DefaultTapCount.
	TapCount int

	// Passband is the lowpass cutoff in Hz. Required before Start.
	Passband int

	// Decimation is the integer down-sampling factor. Mutually exclusive
	// with OutputRate: set at most one of the two.
	Decimation int

	// OutputRate is the desired output sample rate in Hz. Mutually exclusive
	// with Decimation. The input rate must be an exact integer multiple.
	OutputRate int
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.InputRate <= 0 {
		return fmt.Errorf("%w: input rate must be positive, got %d", ErrInvalidConfig, c.InputRate)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1, got %d", ErrInvalidConfig, c.Channels)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	tapCount := c.TapCount
	if tapCount == 0 {
		tapCount = DefaultTapCount
	}
	if tapCount < minTapCount || tapCount > maxTapCount {
		return fmt.Errorf("%w: tap count %d out of range [%d, %d]",
			ErrInvalidConfig, tapCount, minTapCount, maxTapCount)
	}
	if tapCount&(tapCount-1) != 0 {
		return fmt.Errorf("%w: tap count %d is not a power of two", ErrInvalidConfig, tapCount)
	}

	if c.Decimation != 0 && c.OutputRate != 0 {
		return fmt.Errorf("%w: specify either decimation or output rate, not both", ErrInvalidConfig)
	}

	if c.Decimation < 0 || c.OutputRate < 0 || c.Passband < 0 {
		return fmt.Errorf("%w: negative rate parameters", ErrInvalidConfig)
	}

	return nil
}

// lifecycle state of a LowPass.
type state int

const (
	stateReady state = iota
	stateRunning
	stateStopped
)

// LowPass is a streaming decimating FIR lowpass filter stage.
//
// Lifecycle: construct with New, optionally adjust via setters, Start,
// feed blocks through Process, Stop. Start may be called again after Stop;
// the sample history starts fresh.
type LowPass struct {
	inputRate int
	channels  int
	tapCount  int

	passband int

	// Exactly one of these is the user-authoritative value; the setter that
	// ran last wins and clears the other. Both zero means unconfigured.
	decimation    int
	reqOutputRate int

	// Derived at Start.
	outputRate int
	factor     int

	state    state
	designer *filter.Designer
	eng      *engine.Decimator[float64]
}

// New creates a LowPass from the given configuration.
func New(cfg *Config) (*LowPass, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tapCount := cfg.TapCount
	if tapCount == 0 {
		tapCount = DefaultTapCount
	}

	return &LowPass{
		inputRate:     cfg.InputRate,
		channels:      cfg.Channels,
		tapCount:      tapCount,
		passband:      cfg.Passband,
		decimation:    cfg.Decimation,
		reqOutputRate: cfg.OutputRate,
	}, nil
}

// SetPassband sets the lowpass cutoff in Hz.
//
// While running, the coefficients are redesigned immediately and published
// atomically; the channel history, write cursor, and decimation counter are
// untouched.
func (l *LowPass) SetPassband(hz int) {
	l.passband = hz

	if l.state == stateRunning {
		// Tap count is unchanged, so the swap cannot fail.
		_ = l.eng.SetTaps(l.designer.LowPass(hz))
	}
}

// SetDecimation sets the integer down-sampling factor and clears any
// requested output rate. A no-op while running.
func (l *LowPass) SetDecimation(n int) {
	if l.state == stateRunning {
		return
	}

	l.decimation = n
	l.reqOutputRate = 0
}

// SetOutputRate sets the desired output sample rate in Hz and clears any
// requested decimation factor. A no-op while running.
func (l *LowPass) SetOutputRate(hz int) {
	if l.state == stateRunning {
		return
	}

	l.reqOutputRate = hz
	l.decimation = 0
}

// Start validates the rate relationship, allocates the design and history
// resources, and performs the initial coefficient design.
//
// It fails with an error wrapping ErrInvalidConfig when the passband is
// unset, when neither decimation nor output rate is specified, or when the
// input rate is not an exact integer multiple of the derived output rate.
func (l *LowPass) Start() error {
	if l.state == stateRunning {
		return ErrRunning
	}

	// Derive the decimation factor from whichever parameter the caller
	// specified, then require the ratio to be exactly integer.
	switch {
	case l.reqOutputRate > 0:
		l.outputRate = l.reqOutputRate
		l.factor = l.inputRate / l.outputRate
	case l.decimation > 0:
		l.factor = l.decimation
		l.outputRate = l.inputRate / l.factor
	default:
		return fmt.Errorf("%w: must specify either decimation or output rate", ErrInvalidConfig)
	}

	if l.factor < 1 || l.outputRate*l.factor != l.inputRate {
		return fmt.Errorf("%w: input rate %d must be an integer multiple of output rate %d",
			ErrInvalidConfig, l.inputRate, l.outputRate)
	}

	if l.passband <= 0 {
		return fmt.Errorf("%w: passband must be set before start", ErrInvalidConfig)
	}

	designer, err := filter.NewDesigner(l.tapCount, l.inputRate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	eng, err := engine.NewDecimator[float64](designer.LowPass(l.passband), l.channels, l.factor)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	l.designer = designer
	l.eng = eng
	l.state = stateRunning
	return nil
}

// Stop releases the design and history resources. The configuration is kept,
// so Start may be called again.
func (l *LowPass) Stop() {
	if l.state != stateRunning {
		return
	}

	l.designer = nil
	l.eng = nil
	l.outputRate = 0
	l.factor = 0
	l.state = stateStopped
}

// Process convolves an interleaved input block and returns the decimated
// interleaved output block.
//
// The output holds one frame per factor input frames; the decimation counter
// persists across calls, so block boundaries need not align with the factor.
// Blocks whose sample count is not a multiple of the channel count are
// rejected with ErrPartialFrame.
func (l *LowPass) Process(input []float64) ([]float64, error) {
	if l.state != stateRunning {
		return nil, ErrNotStarted
	}
	return l.eng.Process(input)
}

// ProcessFloat32 is like Process but for float32 samples.
// Input is converted to float64 for processing and the result converted
// back; the conversion cost is minimal next to the convolution.
func (l *LowPass) ProcessFloat32(input []float32) ([]float32, error) {
	if l.state != stateRunning {
		return nil, ErrNotStarted
	}

	input64 := make([]float64, len(input))
	for i, v := range input {
		input64[i] = float64(v)
	}

	output64, err := l.eng.Process(input64)
	if err != nil {
		return nil, err
	}

	output32 := make([]float32, len(output64))
	for i, v := range output64 {
		output32[i] = float32(v)
	}
	return output32, nil
}

// Running reports whether the filter has been started and not yet stopped.
func (l *LowPass) Running() bool {
	return l.state == stateRunning
}

// InputRate returns the configured input sample rate in Hz.
func (l *LowPass) InputRate() int {
	return l.inputRate
}

// OutputRate returns the derived output sample rate in Hz, or 0 when not
// running.
func (l *LowPass) OutputRate() int {
	return l.outputRate
}

// Decimation returns the derived decimation factor, or 0 when not running.
func (l *LowPass) Decimation() int {
	return l.factor
}

// Channels returns the channel count.
func (l *LowPass) Channels() int {
	return l.channels
}

// TapCount returns the FIR filter length.
func (l *LowPass) TapCount() int {
	return l.tapCount
}

// Passband returns the current passband cutoff in Hz.
func (l *LowPass) Passband() int {
	return l.passband
}

// Taps returns a copy of the current filter coefficients, or nil when not
// running.
func (l *LowPass) Taps() []float64 {
	if l.state != stateRunning {
		return nil
	}
	return l.eng.Taps()
}
