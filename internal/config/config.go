package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the voice tutor service
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Deepgram STT API configuration
	DeepgramAPIKey   string `envconfig:"DEEPGRAM_API_KEY" required:"true"`
	DeepgramModel    string `envconfig:"DEEPGRAM_MODEL" default:"nova-2"`
	DeepgramLanguage string `envconfig:"DEEPGRAM_LANGUAGE" default:"en"`

	// OpenAI configuration for tutor reply generation
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// Cartesia TTS API configuration
	CartesiaAPIKey  string `envconfig:"CARTESIA_API_KEY" required:"true"`
	CartesiaModelID string `envconfig:"CARTESIA_MODEL_ID" default:"sonic"`

	// Course-context retrieval service
	RetrievalURL     string `envconfig:"RETRIEVAL_URL" default:"http://localhost:9090/search"`
	RetrievalTimeout int    `envconfig:"RETRIEVAL_TIMEOUT" default:"5"` // seconds
	RetrievalLimit   int    `envconfig:"RETRIEVAL_LIMIT" default:"4"`   // snippets per query

	// Audio processing configuration
	SampleRate         int     `envconfig:"SAMPLE_RATE" default:"16000"`          // PCM16 sample rate expected from clients
	AudioChunkSize     int     `envconfig:"AUDIO_CHUNK_SIZE" default:"8192"`      // Outbound transport chunk size in bytes
	CaptureBufferSize  int     `envconfig:"CAPTURE_BUFFER_SIZE" default:"65536"`  // Per-session utterance ring buffer in bytes
	VADEnergyThreshold float64 `envconfig:"VAD_ENERGY_THRESHOLD" default:"500.0"` // RMS energy threshold for VAD
	VADSilenceFrames   int     `envconfig:"VAD_SILENCE_FRAMES" default:"40"`      // Frames of silence to mark end of utterance
	BargeInEnabled     bool    `envconfig:"BARGE_IN_ENABLED" default:"true"`      // Speech during playback interrupts the tutor

	// Session configuration
	HistoryLimit      int `envconfig:"HISTORY_LIMIT" default:"10"`       // Conversation entries sent to the model
	OutboundQueueSize int `envconfig:"OUTBOUND_QUEUE_SIZE" default:"64"` // Bounded per-session write queue

	// Resilience configuration
	CircuitBreakerMaxFailures  int `envconfig:"CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`
	CircuitBreakerResetTimeout int `envconfig:"CIRCUIT_BREAKER_RESET_TIMEOUT" default:"30"` // seconds
	RetryMaxAttempts           int `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryInitialBackoff        int `envconfig:"RETRY_INITIAL_BACKOFF" default:"100"` // milliseconds
	ReconnectMaxAttempts       int `envconfig:"RECONNECT_MAX_ATTEMPTS" default:"5"`
	ReconnectBackoff           int `envconfig:"RECONNECT_BACKOFF" default:"1000"` // milliseconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from environment variables.
// It first attempts to load from a .env file if one exists, then from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load a .env file (useful for containerized deployments).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.AudioChunkSize <= 0 {
		return nil, fmt.Errorf("AUDIO_CHUNK_SIZE must be positive, got %d", cfg.AudioChunkSize)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("SAMPLE_RATE must be positive, got %d", cfg.SampleRate)
	}
	if cfg.CaptureBufferSize <= 0 {
		return nil, fmt.Errorf("CAPTURE_BUFFER_SIZE must be positive, got %d", cfg.CaptureBufferSize)
	}

	return &cfg, nil
}
