package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/brightpath/voice-tutor/internal/config"
)

// CartesiaClient implements Synthesizer using Cartesia's TTS API.
// One client is shared by all sessions; each Synthesize call is an
// independent request cancelled through its context.
type CartesiaClient struct {
	apiKey     string
	apiURL     string
	modelID    string
	sampleRate int
	httpClient *http.Client
	logger     zerolog.Logger
}

// cartesiaRequest is the request payload for the Cartesia TTS API.
type cartesiaRequest struct {
	Text         string `json:"text"`
	VoiceID      string `json:"voice_id"`
	ModelID      string `json:"model_id,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	SampleRate   int    `json:"sample_rate,omitempty"`
}

// NewCartesiaClient creates a new Cartesia TTS client.
func NewCartesiaClient(cfg *config.Config, logger zerolog.Logger) *CartesiaClient {
	return &CartesiaClient{
		apiKey:     cfg.CartesiaAPIKey,
		apiURL:     "https://api.cartesia.ai/v1/tts",
		modelID:    cfg.CartesiaModelID,
		sampleRate: cfg.SampleRate,
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "cartesia").Logger(),
	}
}

// Synthesize requests PCM16 audio for one sentence in the given voice.
func (c *CartesiaClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	reqBody := cartesiaRequest{
		Text:         text,
		VoiceID:      voiceID,
		ModelID:      c.modelID,
		OutputFormat: "pcm",
		SampleRate:   c.sampleRate,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cartesia API returned status %d", resp.StatusCode)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audioData) == 0 {
		return nil, fmt.Errorf("cartesia returned empty audio")
	}

	c.logger.Debug().
		Str("voice_id", voiceID).
		Int("text_len", len(text)).
		Int("audio_bytes", len(audioData)).
		Msg("Synthesized sentence")

	return audioData, nil
}

// Close releases client resources.
func (c *CartesiaClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
