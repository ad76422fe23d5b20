package decimator

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count
	maxChannels    = 256 // Maximum supported channel count
)

// Filter length constants
const (
	// DefaultTapCount is the filter length used when Config.TapCount is zero.
	DefaultTapCount = 64

	minTapCount = 4       // Minimum filter length (taps)
	maxTapCount = 1 << 16 // Maximum filter length (taps)
)

// Passband defaults for convenience constructors
const (
	// Default passband edge as a percentage of the output rate, leaving a
	// transition band below the new Nyquist frequency.
	defaultPassbandPercent = 45
	percentDivisor         = 100
)
