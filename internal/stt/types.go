package stt

import "context"

// Transcriber converts a recorded audio clip, identified by a local file
// reference, into text. A silent clip yields an empty string, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audioRef string) (string, error)
}
