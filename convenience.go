package decimator

// Common sample rates for convenience constructors.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// defaultPassband returns the default passband edge for a given output rate:
// 45% of the output rate, leaving a transition band before the new Nyquist.
func defaultPassband(outputRate int) int {
	return outputRate * defaultPassbandPercent / percentDivisor
}

// NewForOutputRate creates a LowPass converting inputRate to outputRate with
// a default passband at 45% of the output rate. The input rate must be an
// exact integer multiple of the output rate.
func NewForOutputRate(inputRate, outputRate, channels int) (*LowPass, error) {
	return New(&Config{
		InputRate:  inputRate,
		Channels:   channels,
		Passband:   defaultPassband(outputRate),
		OutputRate: outputRate,
	})
}

// NewHalfRate creates a LowPass halving the sample rate (decimation by 2).
func NewHalfRate(inputRate, channels int) (*LowPass, error) {
	return New(&Config{
		InputRate:  inputRate,
		Channels:   channels,
		Passband:   defaultPassband(inputRate / 2),
		Decimation: 2,
	})
}

// NewHiResToDAT creates a LowPass for 96kHz to 48kHz conversion.
func NewHiResToDAT(channels int) (*LowPass, error) {
	return NewForOutputRate(RateHiRes96, RateDAT, channels)
}

// NewDATtoVoIP creates a LowPass for 48kHz to 16kHz wideband-voice
// conversion (decimation by 3).
func NewDATtoVoIP(channels int) (*LowPass, error) {
	return NewForOutputRate(RateDAT, RateVoIP, channels)
}

// NewStereoHalfRate creates a stereo LowPass halving the sample rate.
func NewStereoHalfRate(inputRate int) (*LowPass, error) {
	return NewHalfRate(inputRate, stereoChannels)
}
