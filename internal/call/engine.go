package call

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AndrewKaranu/ScamShield/internal/audio"
	"github.com/AndrewKaranu/ScamShield/internal/metrics"
	"github.com/AndrewKaranu/ScamShield/internal/outcome"
	"github.com/AndrewKaranu/ScamShield/internal/scenario"
)

// Deps bundles the engine's collaborators. Audio is optional: when nil the
// engine does not drive playback or recording itself and relies on the UI to
// deliver AUDIO_FINISHED and clip references.
type Deps struct {
	Generator   Generator
	Synthesizer Synthesizer
	Transcriber Transcriber
	Audio       *audio.Session

	TransferDelay     time.Duration
	TickInterval      time.Duration
	GenerateTimeout   time.Duration
	SynthesizeTimeout time.Duration
	TranscribeTimeout time.Duration

	Log *logrus.Entry
}

func (d *Deps) fillDefaults() {
	if d.TransferDelay <= 0 {
		d.TransferDelay = 2 * time.Second
	}
	if d.TickInterval <= 0 {
		d.TickInterval = time.Second
	}
	if d.GenerateTimeout <= 0 {
		d.GenerateTimeout = 20 * time.Second
	}
	if d.SynthesizeTimeout <= 0 {
		d.SynthesizeTimeout = 30 * time.Second
	}
	if d.TranscribeTimeout <= 0 {
		d.TranscribeTimeout = 60 * time.Second
	}
	if d.Log == nil {
		d.Log = logrus.NewEntry(logrus.StandardLogger())
	}
}

// Snapshot is the read-only view of a session exposed after every
// transition for rendering.
type Snapshot struct {
	SessionID    string           `json:"session_id"`
	State        State            `json:"state"`
	Duration     int              `json:"duration"`
	KeypadBuffer string           `json:"keypad_buffer"`
	Muted        bool             `json:"muted"`
	SpeakerOn    bool             `json:"speaker_on"`
	PersonaID    string           `json:"persona_id,omitempty"`
	Transcript   []Turn           `json:"transcript"`
	ToolLog      []ToolInvocation `json:"tool_log"`
	Outcome      outcome.Outcome  `json:"outcome"`
	// LastAudio holds the most recent synthesized payload for UI-side
	// playback (base64 over JSON). Cleared once playback finishes.
	LastAudio []byte `json:"last_audio,omitempty"`
}

// Report summarizes a finished call for persistence and scoring.
type Report struct {
	SessionID       string           `json:"session_id"`
	ScenarioID      string           `json:"scenario_id"`
	Outcome         outcome.Outcome  `json:"outcome"`
	DurationSeconds int              `json:"duration_seconds"`
	Transcript      []Turn           `json:"transcript"`
	ToolLog         []ToolInvocation `json:"tool_log"`
	EndedAt         time.Time        `json:"ended_at"`
}

// Engine is one simulated call session. Events are processed one at a time
// to completion under the engine lock; asynchronous adapter work re-enters
// through Dispatch as epoch-tagged completion events, and anything issued
// before the last EndCall/Restart is discarded as stale.
type Engine struct {
	id   string
	deps Deps
	log  *logrus.Entry

	mu           sync.Mutex
	state        State
	epoch        uint64
	playGen      uint64
	duration     int
	keypad       string
	muted        bool
	speakerOn    bool
	persona      *scenario.Persona
	transcript   []Turn
	toolLog      []ToolInvocation
	outcome      outcome.Outcome
	pendingText  string
	lastAudio    []byte
	activePlayer audio.Player

	observers    map[int]func(Snapshot)
	nextObserver int
	onEnded      func(Report)
}

// New builds an engine in the Incoming state. persona may be nil (practice
// mode without a scripted opening).
func New(id string, persona *scenario.Persona, deps Deps) *Engine {
	deps.fillDefaults()
	return &Engine{
		id:      id,
		deps:    deps,
		log:     deps.Log.WithField("session", id),
		state:   StateIncoming,
		epoch:   1,
		persona: persona,
		outcome: outcome.Ongoing,
	}
}

// AddObserver registers a callback invoked with a snapshot after every
// transition. The returned function removes the observer again.
func (e *Engine) AddObserver(fn func(Snapshot)) func() {
	e.mu.Lock()
	if e.observers == nil {
		e.observers = make(map[int]func(Snapshot))
	}
	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.observers, id)
		e.mu.Unlock()
	}
}

// OnEnded registers the sink invoked with a report each time the session
// reaches Ended.
func (e *Engine) OnEnded(fn func(Report)) {
	e.mu.Lock()
	e.onEnded = fn
	e.mu.Unlock()
}

// Snapshot returns the current state and context.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Dispatch feeds one event through the machine.
func (e *Engine) Dispatch(ev Event) {
	e.mu.Lock()
	if ev.epoch != 0 && ev.epoch != e.epoch {
		e.mu.Unlock()
		return
	}
	prev := e.state
	e.transition(ev)
	snap := e.snapshotLocked()
	ended := prev != StateEnded && e.state == StateEnded
	var report Report
	var sink func(Report)
	if ended {
		report = e.reportLocked()
		sink = e.onEnded
	}
	observers := make([]func(Snapshot), 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
	}
	e.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	if ended && sink != nil {
		sink(report)
	}
}

func (e *Engine) transition(ev Event) {
	// Events accepted from every active substate.
	switch ev.Type {
	case EventEndCall:
		if e.state.active() {
			e.endLocked()
		}
		return
	case EventTick:
		if e.state.active() {
			e.duration++
		}
		return
	case EventToggleMute:
		if e.state.active() {
			e.muted = !e.muted
		}
		return
	case EventToggleSpeaker:
		if e.state.active() {
			e.speakerOn = !e.speakerOn
		}
		return
	}

	switch e.state {
	case StateIncoming:
		switch ev.Type {
		case EventAssignPersona:
			e.persona = ev.Persona
		case EventAccept:
			e.startTicker()
			metrics.CallsStarted.Inc()
			if e.persona != nil {
				e.state = StateSpeakingOpening
				e.startOpening()
			} else {
				e.state = StateMain
			}
		case EventDecline:
			e.endLocked()
		}

	case StateSpeakingOpening:
		switch ev.Type {
		case evOpeningReady:
			e.transcript = append(e.transcript, Turn{Role: SpeakerAgent, Content: e.persona.OpeningLine})
			if len(ev.audio) == 0 {
				// Nothing to play; advance as if the audio already finished.
				e.afterOpeningAudio()
			} else {
				e.lastAudio = ev.audio
				e.state = StateSpeakingOpeningAudio
				e.startPlayback(ev.audio)
			}
		case evOpeningFailed:
			// Fail open: the conversation proceeds without the opening line.
			e.state = StateMain
		}

	case StateSpeakingOpeningAudio:
		if ev.Type == EventAudioFinished && e.playbackDone(ev) {
			e.lastAudio = nil
			e.afterOpeningAudio()
		}

	case StateConnectingToAgent:
		if ev.Type == evTransferDone {
			e.state = StateGeneratingAgentGreeting
			e.startGreeting()
		}

	case StateGeneratingAgentGreeting:
		switch ev.Type {
		case evGreetingReady:
			text := strings.TrimSpace(ev.result.Text)
			if text != "" {
				e.transcript = append(e.transcript, Turn{Role: SpeakerAgent, Content: text})
			}
			e.mergeTools(ev.result.ToolInvocations)
			if len(ev.audio) == 0 {
				e.state = StateMain
			} else {
				e.lastAudio = ev.audio
				e.state = StateSpeakingAgentGreeting
				e.startPlayback(ev.audio)
			}
		case evGreetingFailed:
			e.state = StateMain
		}

	case StateSpeakingAgentGreeting:
		if ev.Type == EventAudioFinished && e.playbackDone(ev) {
			e.lastAudio = nil
			e.state = StateMain
		}

	case StateMain:
		switch ev.Type {
		case EventShowKeypad:
			e.state = StateKeypad
		case EventStartRecording:
			e.state = StateRecording
			e.startRecording()
		case EventSubmitText:
			text := strings.TrimSpace(ev.Text)
			if text == "" {
				return
			}
			e.pendingText = text
			e.state = StateProcessing
			e.startProcessing(text)
		}

	case StateKeypad:
		switch ev.Type {
		case EventPressKey:
			e.keypad += ev.Key
		case EventHideKeypad:
			e.state = StateMain
		}

	case StateRecording:
		switch ev.Type {
		case EventStopRecording:
			e.state = StateTranscribing
			e.startTranscription(ev.AudioRef)
		case evRecordingFailed:
			e.state = StateMain
		}

	case StateTranscribing:
		switch ev.Type {
		case evTranscriptReady:
			text := strings.TrimSpace(ev.Text)
			if text == "" {
				// Silence is a no-op, not an error.
				e.state = StateMain
			} else {
				e.pendingText = text
				e.state = StateProcessing
				e.startProcessing(text)
			}
		case evTranscriptFailed:
			e.state = StateMain
		}

	case StateProcessing:
		switch ev.Type {
		case evReplyReady:
			// Victim utterance first, then the reply: causal order for any
			// downstream transcript consumer.
			e.transcript = append(e.transcript, Turn{Role: SpeakerCaller, Content: e.pendingText})
			e.pendingText = ""
			e.mergeTools(ev.result.ToolInvocations)
			text := strings.TrimSpace(ev.result.Text)
			if text == "" {
				// The persona stopped responding: it hung up on the victim.
				// This completion adds only the victim's utterance; there is
				// no reply turn to record.
				if e.outcome == outcome.Ongoing {
					e.outcome = outcome.AgentHungUp
				}
				e.endLocked()
				return
			}
			e.transcript = append(e.transcript, Turn{Role: SpeakerAgent, Content: text})
			if len(ev.audio) == 0 {
				e.state = StateMain
			} else {
				e.lastAudio = ev.audio
				e.state = StateSpeakingReply
				e.startPlayback(ev.audio)
			}
		case evReplyFailed:
			e.pendingText = ""
			e.state = StateMain
		}

	case StateSpeakingReply:
		if ev.Type == EventAudioFinished && e.playbackDone(ev) {
			e.lastAudio = nil
			e.state = StateMain
		}

	case StateEnded:
		if ev.Type == EventRestart {
			e.resetLocked()
		}
	}
}

// afterOpeningAudio decides the post-opening branch: two-voice personas go
// through the transfer choreography, everyone else lands in the dialogue
// loop.
func (e *Engine) afterOpeningAudio() {
	if e.persona != nil && e.persona.HasDistinctOpeningVoice() {
		e.state = StateConnectingToAgent
		e.startTransfer()
	} else {
		e.state = StateMain
	}
}

// mergeTools appends declared invocations to the call-scoped log in
// generator order and folds the outcome. Unknown tool names are dropped.
func (e *Engine) mergeTools(invs []ToolInvocation) {
	if len(invs) == 0 {
		return
	}
	var names []string
	for _, inv := range invs {
		if e.persona == nil || !e.persona.DeclaresTool(inv.Name) {
			e.log.WithField("tool", inv.Name).Warn("ignoring undeclared tool invocation")
			continue
		}
		e.toolLog = append(e.toolLog, inv)
		names = append(names, inv.Name)
	}
	e.outcome = outcome.Resolve(e.outcome, names)
}

// playbackDone reports whether ev finishes the playback the engine is
// currently waiting on. The embedded watcher tags its completion with the
// playback generation it watched; a UI completion carries no tag and always
// wins, superseding the watcher, whose own late completion then misses the
// advanced generation.
func (e *Engine) playbackDone(ev Event) bool {
	if ev.play != 0 && ev.play != e.playGen {
		return false
	}
	e.finishPlayback()
	return true
}

// finishPlayback invalidates the current playback generation and stops the
// active player so the exclusive audio session frees up for the next clip.
func (e *Engine) finishPlayback() {
	e.playGen++
	if p := e.activePlayer; p != nil {
		e.activePlayer = nil
		p.Release()
	}
}

// endLocked drives the session to Ended, invalidating all in-flight work.
func (e *Engine) endLocked() {
	e.epoch++
	e.state = StateEnded
	e.lastAudio = nil
	e.pendingText = ""
	e.finishPlayback()
	metrics.CallsEnded.WithLabelValues(string(e.outcome)).Inc()
	metrics.CallDuration.Observe(float64(e.duration))
}

// resetLocked returns to Incoming with a zeroed context, preserving the
// assigned persona.
func (e *Engine) resetLocked() {
	e.epoch++
	e.state = StateIncoming
	e.duration = 0
	e.keypad = ""
	e.muted = false
	e.speakerOn = false
	e.transcript = nil
	e.toolLog = nil
	e.outcome = outcome.Ongoing
	e.pendingText = ""
	e.lastAudio = nil
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:    e.id,
		State:        e.state,
		Duration:     e.duration,
		KeypadBuffer: e.keypad,
		Muted:        e.muted,
		SpeakerOn:    e.speakerOn,
		Outcome:      e.outcome,
		Transcript:   append([]Turn(nil), e.transcript...),
		ToolLog:      append([]ToolInvocation(nil), e.toolLog...),
		LastAudio:    append([]byte(nil), e.lastAudio...),
	}
	if e.persona != nil {
		snap.PersonaID = e.persona.ID
	}
	return snap
}

func (e *Engine) reportLocked() Report {
	r := Report{
		SessionID:       e.id,
		Outcome:         e.outcome,
		DurationSeconds: e.duration,
		Transcript:      append([]Turn(nil), e.transcript...),
		ToolLog:         append([]ToolInvocation(nil), e.toolLog...),
		EndedAt:         time.Now(),
	}
	if e.persona != nil {
		r.ScenarioID = e.persona.ID
	}
	return r
}

func (e *Engine) currentEpoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}
