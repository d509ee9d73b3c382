package call

import (
	"context"

	"github.com/AndrewKaranu/ScamShield/internal/scenario"
)

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	// SpeakerCaller is the simulated victim (the trainee).
	SpeakerCaller Speaker = "caller"
	// SpeakerAgent is the scammer persona.
	SpeakerAgent Speaker = "agent"
)

// Turn is one utterance in the call transcript.
type Turn struct {
	Role    Speaker `json:"role"`
	Content string  `json:"content"`
}

// ToolInvocation is a structured signal the generator emitted alongside or
// instead of free text. Invocations are appended to a call-scoped log in
// generator order and never removed.
type ToolInvocation struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// GenerationResult is one generator reply: free text plus any tool
// invocations recognized in the same turn.
type GenerationResult struct {
	Text            string
	ToolInvocations []ToolInvocation
}

// Generator produces the persona's next utterance given the conversation so
// far. Implementations must honor the persona's tool schemas and drop
// invocations of undeclared tools.
type Generator interface {
	Generate(ctx context.Context, transcript []Turn, persona *scenario.Persona) (GenerationResult, error)
}

// Synthesizer renders text to speech. An empty payload with a nil error
// means "nothing to play" (the text sanitized away to nothing).
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Transcriber converts a recorded clip reference into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioRef string) (string, error)
}
