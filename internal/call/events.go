package call

import "github.com/AndrewKaranu/ScamShield/internal/scenario"

// EventType names a state machine event. The exported set is what the UI
// layer may dispatch; lower-cased types are internal completion events for
// asynchronous work and carry the epoch they were issued under.
type EventType string

const (
	EventAccept         EventType = "ACCEPT"
	EventDecline        EventType = "DECLINE"
	EventEndCall        EventType = "END_CALL"
	EventRestart        EventType = "RESTART"
	EventTick           EventType = "TICK"
	EventToggleMute     EventType = "TOGGLE_MUTE"
	EventToggleSpeaker  EventType = "TOGGLE_SPEAKER"
	EventShowKeypad     EventType = "SHOW_KEYPAD"
	EventHideKeypad     EventType = "HIDE_KEYPAD"
	EventPressKey       EventType = "PRESS_KEY"
	EventStartRecording EventType = "START_RECORDING"
	EventStopRecording  EventType = "STOP_RECORDING"
	EventSubmitText     EventType = "SUBMIT_UTTERANCE"
	EventAudioFinished  EventType = "AUDIO_FINISHED"
	EventAssignPersona  EventType = "ASSIGN_PERSONA"

	evOpeningReady     EventType = "openingReady"
	evOpeningFailed    EventType = "openingFailed"
	evTransferDone     EventType = "transferDone"
	evGreetingReady    EventType = "greetingReady"
	evGreetingFailed   EventType = "greetingFailed"
	evRecordingFailed  EventType = "recordingFailed"
	evTranscriptReady  EventType = "transcriptReady"
	evTranscriptFailed EventType = "transcriptFailed"
	evReplyReady       EventType = "replyReady"
	evReplyFailed      EventType = "replyFailed"
)

// uiEventTypes is the set accepted from outside the engine.
var uiEventTypes = map[EventType]bool{
	EventAccept: true, EventDecline: true, EventEndCall: true,
	EventRestart: true, EventToggleMute: true, EventToggleSpeaker: true,
	EventShowKeypad: true, EventHideKeypad: true, EventPressKey: true,
	EventStartRecording: true, EventStopRecording: true,
	EventSubmitText: true, EventAudioFinished: true, EventAssignPersona: true,
}

// IsUIEvent reports whether t may be dispatched by the UI layer.
func IsUIEvent(t EventType) bool { return uiEventTypes[t] }

// Event is one input to the state machine.
type Event struct {
	Type EventType

	// Key is the pressed keypad digit (PRESS_KEY).
	Key string
	// Text is the typed utterance (SUBMIT_UTTERANCE) or a completed
	// transcription (internal).
	Text string
	// AudioRef is the recorded clip reference (STOP_RECORDING).
	AudioRef string
	// Persona accompanies ASSIGN_PERSONA.
	Persona *scenario.Persona

	// epoch tags internal completion events; zero means external. Stale
	// completions (epoch behind the engine's) are discarded.
	epoch uint64
	// play tags AudioFinished from the embedded playback watcher with the
	// playback generation it watched; zero means the UI reported completion.
	play uint64
	// audio and result carry async operation outputs.
	audio  []byte
	result GenerationResult
}
