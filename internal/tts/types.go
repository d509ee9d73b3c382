package tts

import "context"

// Synthesizer renders text to speech audio bytes with a given voice.
// Implementations must sanitize the text first (see Sanitize); when nothing
// speakable remains, they return empty bytes and a nil error so callers can
// treat the result as "nothing to play".
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}
