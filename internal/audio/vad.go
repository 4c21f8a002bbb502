package audio

// VADConfig holds configuration for voice activity detection.
type VADConfig struct {
	EnergyThreshold float64 // RMS energy threshold for speech detection
	SilenceFrames   int     // Consecutive silence frames to mark end of utterance
	FrameSize       int     // Samples per frame (320 for 16kHz = 20ms)
}

// DefaultVADConfig returns a default VAD configuration for 16kHz PCM16 input.
func DefaultVADConfig() *VADConfig {
	return &VADConfig{
		EnergyThreshold: 500.0,
		SilenceFrames:   40, // 800ms of silence (40 frames * 20ms)
		FrameSize:       320, // 20ms at 16kHz
	}
}

// VADDetector performs energy-based voice activity detection. It is used
// both to infer end-of-utterance while listening and to detect barge-in
// while the tutor is speaking.
type VADDetector struct {
	config         *VADConfig
	silenceCounter int
	speaking       bool
}

// NewVADDetector creates a new VAD detector.
func NewVADDetector(config *VADConfig) *VADDetector {
	if config == nil {
		config = DefaultVADConfig()
	}
	return &VADDetector{config: config}
}

// ProcessPCM feeds little-endian PCM16 bytes through the detector frame by
// frame. It reports whether speech started or ended anywhere in the buffer.
// A trailing partial frame is evaluated as its own (shorter) frame.
func (v *VADDetector) ProcessPCM(pcm []byte) (speechStarted, speechEnded bool, err error) {
	samples, err := SamplesFromPCM16(pcm)
	if err != nil {
		return false, false, err
	}

	frameSize := v.config.FrameSize
	if frameSize <= 0 {
		// A misconfigured frame size must not stall the caller; treat the
		// whole buffer as one frame.
		frameSize = len(samples)
	}

	for start := 0; start < len(samples); start += frameSize {
		end := start + frameSize
		if end > len(samples) {
			end = len(samples)
		}
		started, ended := v.processFrame(samples[start:end])
		speechStarted = speechStarted || started
		speechEnded = speechEnded || ended
	}

	return speechStarted, speechEnded, nil
}

func (v *VADDetector) processFrame(samples []int16) (speechStarted, speechEnded bool) {
	if CalculateRMS(samples) > v.config.EnergyThreshold {
		v.silenceCounter = 0
		if !v.speaking {
			v.speaking = true
			speechStarted = true
		}
		return speechStarted, false
	}

	v.silenceCounter++
	if v.speaking && v.silenceCounter >= v.config.SilenceFrames {
		v.speaking = false
		v.silenceCounter = 0
		speechEnded = true
	}

	return false, speechEnded
}

// IsSpeaking reports whether speech is currently detected.
func (v *VADDetector) IsSpeaking() bool {
	return v.speaking
}

// Reset clears the detector state. Called when an utterance is finalized
// or a turn is interrupted.
func (v *VADDetector) Reset() {
	v.silenceCounter = 0
	v.speaking = false
}
