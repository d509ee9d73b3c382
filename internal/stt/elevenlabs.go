package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const scribeModelID = "scribe_v1"

var _ Transcriber = (*ElevenLabsClient)(nil)

// ElevenLabsClient transcribes recorded clips through the ElevenLabs Scribe
// speech-to-text endpoint (multipart file upload).
type ElevenLabsClient struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
}

func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		APIKey:     apiKey,
		BaseURL:    "https://api.elevenlabs.io",
	}
}

type scribeResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the referenced clip and returns the recognized text.
// audioRef is a filesystem path, optionally with a file:// prefix.
func (c *ElevenLabsClient) Transcribe(ctx context.Context, audioRef string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("elevenlabs stt: api key missing")
	}
	path := strings.TrimPrefix(audioRef, "file://")
	if path == "" {
		return "", fmt.Errorf("elevenlabs stt: empty audio reference")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("elevenlabs stt: open clip: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("model_id", scribeModelID); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("elevenlabs stt: read clip: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("elevenlabs stt: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("elevenlabs stt: status=%d body=%s", resp.StatusCode, string(b))
	}
	var sr scribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("elevenlabs stt: decode response: %w", err)
	}
	return sr.Text, nil
}
