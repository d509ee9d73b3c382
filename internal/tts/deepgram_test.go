package tts

import (
	"context"
	"testing"
)

// Smoke test: without an API key Synthesize must fail fast, before any
// network activity.
func TestDeepgram_Synthesize_NoKey(t *testing.T) {
	d := NewDeepgramClient("", "", nil)
	if _, err := d.Synthesize(context.Background(), "hello", ""); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestDeepgram_Synthesize_EmptyAfterSanitize(t *testing.T) {
	d := NewDeepgramClient("key", "", nil)
	audio, err := d.Synthesize(context.Background(), "(sobs) *crying*", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if audio != nil {
		t.Fatalf("expected nil audio for annotation-only text, got %d bytes", len(audio))
	}
}
