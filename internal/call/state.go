package call

// State is one node of the call state machine. The machine is explicit: an
// enum of states and a single transition switch, rather than nested
// declarative config.
type State string

const (
	// StateIncoming is the initial ringing state.
	StateIncoming State = "incoming"
	// StateSpeakingOpening synthesizes the persona's scripted opening line.
	StateSpeakingOpening State = "speakingOpening"
	// StateSpeakingOpeningAudio plays the opening line and waits for
	// AudioFinished.
	StateSpeakingOpeningAudio State = "speakingOpeningAudio"
	// StateConnectingToAgent simulates the automated-system-to-live-agent
	// transfer delay.
	StateConnectingToAgent State = "connectingToAgent"
	// StateGeneratingAgentGreeting produces the live agent's first turn.
	StateGeneratingAgentGreeting State = "generatingAgentGreeting"
	// StateSpeakingAgentGreeting plays the greeting.
	StateSpeakingAgentGreeting State = "speakingAgentGreeting"
	// StateMain is the dialogue loop's idle state.
	StateMain State = "main"
	// StateKeypad shows the keypad overlay.
	StateKeypad State = "keypad"
	// StateRecording captures the victim's spoken utterance.
	StateRecording State = "recording"
	// StateTranscribing converts the captured clip to text.
	StateTranscribing State = "transcribing"
	// StateProcessing runs generation + synthesis for the next reply.
	StateProcessing State = "processing"
	// StateSpeakingReply plays the generated reply.
	StateSpeakingReply State = "speakingReply"
	// StateEnded is terminal until an explicit Restart.
	StateEnded State = "ended"
)

// active reports whether the state belongs to the in-call composite, i.e.
// the per-second timer runs and EndCall/Tick/toggles are accepted.
func (s State) active() bool {
	switch s {
	case StateIncoming, StateEnded:
		return false
	default:
		return true
	}
}
