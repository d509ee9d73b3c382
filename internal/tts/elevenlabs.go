package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const elevenLabsModelID = "eleven_flash_v2_5"

var _ Synthesizer = (*ElevenLabsClient)(nil)

// ElevenLabsClient synthesizes speech through the ElevenLabs text-to-speech
// HTTP endpoint, returning a complete mp3 payload.
type ElevenLabsClient struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
}

func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
		BaseURL:    "https://api.elevenlabs.io",
	}
}

type elevenLabsRequest struct {
	Text          string                 `json:"text"`
	ModelID       string                 `json:"model_id"`
	VoiceSettings map[string]interface{} `json:"voice_settings,omitempty"`
}

// Synthesize renders text with the given voice. Stage directions are
// stripped first; when nothing speakable remains it returns (nil, nil).
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs: api key missing")
	}
	if voiceID == "" {
		return nil, fmt.Errorf("elevenlabs: voice id missing")
	}
	clean := Sanitize(text)
	if clean == "" {
		return nil, nil
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: bad base url: %w", err)
	}
	u.Path = "/v1/text-to-speech/" + voiceID
	q := u.Query()
	q.Set("output_format", "mp3_44100_128")
	u.RawQuery = q.Encode()

	body, _ := json.Marshal(elevenLabsRequest{
		Text:    clean,
		ModelID: elevenLabsModelID,
		VoiceSettings: map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs: status=%d body=%s", resp.StatusCode, string(b))
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read body: %w", err)
	}
	return audio, nil
}
