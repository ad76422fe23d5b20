package decimator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-fir-decimator/internal/testutil"
)

const (
	testInputRate = 48000
	testChannels  = 2
	testPassband  = 6000
	testFactor    = 2
)

func validConfig() *Config {
	return &Config{
		InputRate:  testInputRate,
		Channels:   testChannels,
		Passband:   testPassband,
		Decimation: testFactor,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"default_tap_count", func(c *Config) { c.TapCount = 0 }, false},
		{"explicit_tap_count", func(c *Config) { c.TapCount = 128 }, false},
		{"zero_input_rate", func(c *Config) { c.InputRate = 0 }, true},
		{"negative_input_rate", func(c *Config) { c.InputRate = -48000 }, true},
		{"zero_channels", func(c *Config) { c.Channels = 0 }, true},
		{"too_many_channels", func(c *Config) { c.Channels = maxChannels + 1 }, true},
		{"tap_count_not_power_of_two", func(c *Config) { c.TapCount = 100 }, true},
		{"tap_count_too_small", func(c *Config) { c.TapCount = 2 }, true},
		{"tap_count_too_large", func(c *Config) { c.TapCount = maxTapCount * 2 }, true},
		{"both_decimation_and_rate", func(c *Config) { c.OutputRate = 24000 }, true},
		{"negative_passband", func(c *Config) { c.Passband = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStart_RateDerivation(t *testing.T) {
	tests := []struct {
		name           string
		decimation     int
		outputRate     int
		wantFactor     int
		wantOutputRate int
	}{
		{"from_decimation", 2, 0, 2, 24000},
		{"from_output_rate", 0, 24000, 2, 24000},
		{"from_output_rate_3x", 0, 16000, 3, 16000},
		{"identity", 1, 0, 1, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp, err := New(&Config{
				InputRate:  testInputRate,
				Channels:   1,
				Passband:   testPassband,
				Decimation: tt.decimation,
				OutputRate: tt.outputRate,
			})
			require.NoError(t, err)
			require.NoError(t, lp.Start())
			defer lp.Stop()

			assert.Equal(t, tt.wantFactor, lp.Decimation())
			assert.Equal(t, tt.wantOutputRate, lp.OutputRate())

			// The invariant behind all valid configurations.
			assert.Equal(t, lp.InputRate(), lp.OutputRate()*lp.Decimation())
		})
	}
}

func TestStart_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"neither_decimation_nor_rate", func(c *Config) { c.Decimation = 0 }},
		{"non_integer_ratio", func(c *Config) { c.Decimation = 0; c.OutputRate = 18000 }},
		{"output_rate_above_input", func(c *Config) { c.Decimation = 0; c.OutputRate = 96000 }},
		{"passband_unset", func(c *Config) { c.Passband = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			lp, err := New(cfg)
			require.NoError(t, err)

			err = lp.Start()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.False(t, lp.Running())
		})
	}
}

func TestStart_AlreadyRunning(t *testing.T) {
	lp, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp.Start())
	defer lp.Stop()

	assert.ErrorIs(t, lp.Start(), ErrRunning)
}

func TestSetters_LastOneWins(t *testing.T) {
	lp, err := New(&Config{InputRate: testInputRate, Channels: 1, Passband: testPassband})
	require.NoError(t, err)

	lp.SetDecimation(4)
	lp.SetOutputRate(24000)
	require.NoError(t, lp.Start())
	assert.Equal(t, 2, lp.Decimation(), "output rate setter must win and clear decimation")
	lp.Stop()

	lp.SetOutputRate(24000)
	lp.SetDecimation(4)
	require.NoError(t, lp.Start())
	assert.Equal(t, 4, lp.Decimation(), "decimation setter must win and clear output rate")
	assert.Equal(t, 12000, lp.OutputRate())
	lp.Stop()
}

func TestSetters_NoopWhileRunning(t *testing.T) {
	lp, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp.Start())
	defer lp.Stop()

	lp.SetDecimation(8)
	lp.SetOutputRate(6000)
	assert.Equal(t, testFactor, lp.Decimation())
	assert.Equal(t, 24000, lp.OutputRate())
}

func TestProcess_NotStarted(t *testing.T) {
	lp, err := New(validConfig())
	require.NoError(t, err)

	_, err = lp.Process(make([]float64, 8))
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = lp.ProcessFloat32(make([]float32, 8))
	assert.ErrorIs(t, err, ErrNotStarted)

	lp.Stop() // no-op before start
	assert.False(t, lp.Running())
}

func TestProcess_DecimatesAcrossBlocks(t *testing.T) {
	lp, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp.Start())
	defer lp.Stop()

	// 10*factor frames split unevenly across calls: exactly 10 output
	// frames in total, regardless of the block boundaries.
	const totalFrames = 10 * testFactor
	splits := []int{3, 1, 7, 4, 5}

	var outputFrames int
	fed := 0
	for i := 0; fed < totalFrames; i++ {
		frames := min(splits[i%len(splits)], totalFrames-fed)
		block := make([]float64, frames*testChannels)
		for j := range block {
			block[j] = math.Sin(float64(fed*testChannels+j) * 0.01)
		}
		out, err := lp.Process(block)
		require.NoError(t, err)
		require.Zero(t, len(out)%testChannels)
		outputFrames += len(out) / testChannels
		fed += frames
	}

	assert.Equal(t, 10, outputFrames)
}

func TestProcess_PartialFrameRejected(t *testing.T) {
	lp, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp.Start())
	defer lp.Stop()

	_, err = lp.Process(make([]float64, testChannels+1))
	assert.ErrorIs(t, err, ErrPartialFrame)
}

func TestSetPassband_WhileRunning(t *testing.T) {
	lp, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp.Start())
	defer lp.Stop()

	before := lp.Taps()
	require.NotNil(t, before)

	// Prime the history with a constant signal.
	block := make([]float64, 32*testChannels)
	for i := range block {
		block[i] = 1
	}
	_, err = lp.Process(block)
	require.NoError(t, err)

	lp.SetPassband(12000)
	assert.Equal(t, 12000, lp.Passband())

	after := lp.Taps()
	assert.NotEqual(t, before, after, "redesign must replace the coefficients")

	// Processing continues on the preserved history without error.
	out, err := lp.Process(block)
	require.NoError(t, err)
	assert.Len(t, out, len(block)/testFactor)
	testutil.AssertNoNaNOrInf(t, out)
}

func TestSetPassband_BeforeStart(t *testing.T) {
	lp, err := New(&Config{InputRate: testInputRate, Channels: 1, Decimation: testFactor})
	require.NoError(t, err)

	lp.SetPassband(testPassband)
	assert.Equal(t, testPassband, lp.Passband())
	require.NoError(t, lp.Start())
	defer lp.Stop()

	assert.Len(t, lp.Taps(), DefaultTapCount)
}

func TestTaps_RealValuedAcrossPassbands(t *testing.T) {
	// Every passband in (0, Nyquist] yields finite real coefficients.
	for _, hz := range []int{1, 100, 6000, 12000, 23999, 24000} {
		lp, err := New(&Config{
			InputRate:  testInputRate,
			Channels:   1,
			Passband:   hz,
			Decimation: testFactor,
		})
		require.NoError(t, err)
		require.NoError(t, lp.Start())

		taps := lp.Taps()
		require.Len(t, taps, DefaultTapCount, "passband %d Hz", hz)
		testutil.AssertNoNaNOrInf(t, taps)
		lp.Stop()
	}
}

func TestStopAndRestart(t *testing.T) {
	lp, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp.Start())

	block := make([]float64, 16*testChannels)
	for i := range block {
		block[i] = 0.5
	}
	first, err := lp.Process(block)
	require.NoError(t, err)

	lp.Stop()
	assert.False(t, lp.Running())
	assert.Nil(t, lp.Taps())
	assert.Zero(t, lp.OutputRate())

	// Restart begins with fresh history: same input, same output.
	require.NoError(t, lp.Start())
	defer lp.Stop()
	second, err := lp.Process(block)
	require.NoError(t, err)
	testutil.AssertSlicesInDelta(t, first, second, testutil.DefaultTolerance)
}

func TestProcessFloat32_MatchesFloat64(t *testing.T) {
	lp64, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp64.Start())
	defer lp64.Stop()

	lp32, err := New(validConfig())
	require.NoError(t, err)
	require.NoError(t, lp32.Start())
	defer lp32.Stop()

	const frames = 128
	input64 := make([]float64, frames*testChannels)
	input32 := make([]float32, frames*testChannels)
	for i := range input64 {
		v := math.Sin(float64(i) * 0.05)
		input64[i] = v
		input32[i] = float32(v)
	}

	out64, err := lp64.Process(input64)
	require.NoError(t, err)
	out32, err := lp32.ProcessFloat32(input32)
	require.NoError(t, err)

	require.Len(t, out32, len(out64))
	for i := range out64 {
		assert.InDelta(t, out64[i], float64(out32[i]), testutil.Float32Tolerance)
	}
}

func TestLowPass_AttenuatesAboveCutoff(t *testing.T) {
	// End-to-end: a tone well inside the passband survives decimation, a
	// tone above the cutoff is strongly attenuated.
	lp, err := New(&Config{
		InputRate:  testInputRate,
		Channels:   1,
		Passband:   6000,
		Decimation: testFactor,
	})
	require.NoError(t, err)
	require.NoError(t, lp.Start())
	defer lp.Stop()

	rms := func(freq float64) float64 {
		const frames = 4096
		input := make([]float64, frames)
		for i := range input {
			input[i] = math.Sin(2 * math.Pi * freq * float64(i) / testInputRate)
		}
		out, err := lp.Process(input)
		require.NoError(t, err)

		// Skip the filter warmup.
		out = out[DefaultTapCount:]
		var sum float64
		for _, v := range out {
			sum += v * v
		}
		return math.Sqrt(sum / float64(len(out)))
	}

	sineRMS := 1.0 / math.Sqrt2

	passRMS := rms(1000)
	assert.InDelta(t, sineRMS, passRMS, 0.1, "1 kHz tone must pass")

	lp.Stop()
	require.NoError(t, lp.Start())
	stopRMS := rms(15000)
	assert.Less(t, stopRMS, sineRMS/100, "15 kHz tone must be attenuated")
}
