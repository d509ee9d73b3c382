package scenario

import (
	"errors"
	"fmt"
)

// ErrUnknownScenario is returned when a scenario id has no registered persona.
// Unresolved ids are a configuration error; there is no fallback persona.
var ErrUnknownScenario = errors.New("scenario: unknown scenario id")

// Tool describes a structured-output contract the dialogue generator may
// invoke. The shape mirrors an LLM function-calling schema.
type Tool struct {
	Name        string
	Description string
	Parameters  ToolParameters
}

// ToolParameters is the JSON-schema object describing a tool's arguments.
type ToolParameters struct {
	Type       string
	Properties map[string]ToolProperty
	Required   []string
}

// ToolProperty is one field of a tool schema.
type ToolProperty struct {
	Type        string
	Description string
	Enum        []string
}

// Persona is an immutable scam-caller profile: identity, tactics, voice
// selection and the detection tools the generator may call against it.
type Persona struct {
	ID           string
	Name         string
	Description  string
	CallerName   string
	CallerNumber string
	SystemPrompt string
	OpeningLine  string

	// VoiceID is the voice used for live conversation. OpeningVoiceID, when
	// set and different from VoiceID, selects the automated voice used for
	// the scripted opening line; the call then goes through the
	// transfer-to-live-agent choreography.
	VoiceID        string
	OpeningVoiceID string

	Tools []Tool
}

// HasDistinctOpeningVoice reports whether the persona uses a two-stage
// automated-then-live-agent design.
func (p *Persona) HasDistinctOpeningVoice() bool {
	return p.OpeningVoiceID != "" && p.OpeningVoiceID != p.VoiceID
}

// OpeningVoice returns the voice to speak the scripted opening line with.
func (p *Persona) OpeningVoice() string {
	if p.OpeningVoiceID != "" {
		return p.OpeningVoiceID
	}
	return p.VoiceID
}

// DeclaresTool reports whether name is one of the persona's tool schemas.
// Generator output referencing any other name must be ignored.
func (p *Persona) DeclaresTool(name string) bool {
	for _, t := range p.Tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Registry is a static catalogue of personas keyed by scenario id.
type Registry struct {
	personas map[string]*Persona
	order    []string
}

// NewRegistry builds a registry over the given personas.
func NewRegistry(personas ...*Persona) *Registry {
	r := &Registry{personas: make(map[string]*Persona, len(personas))}
	for _, p := range personas {
		if _, dup := r.personas[p.ID]; !dup {
			r.order = append(r.order, p.ID)
		}
		r.personas[p.ID] = p
	}
	return r
}

// Default returns the registry of built-in scam scenarios.
func Default() *Registry {
	return NewRegistry(Grandchild, BankSecurity, HydroQuebec)
}

// Get looks a persona up by id.
func (r *Registry) Get(id string) (*Persona, error) {
	p, ok := r.personas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return p, nil
}

// List returns the registered personas in registration order.
func (r *Registry) List() []*Persona {
	out := make([]*Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.personas[id])
	}
	return out
}
