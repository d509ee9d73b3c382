package call

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AndrewKaranu/ScamShield/internal/audio"
	"github.com/AndrewKaranu/ScamShield/internal/outcome"
	"github.com/AndrewKaranu/ScamShield/internal/scenario"
)

type scriptedGenerator struct {
	mu      sync.Mutex
	replies []GenerationResult
	err     error
	block   chan struct{}
	calls   [][]Turn
}

func (g *scriptedGenerator) Generate(ctx context.Context, transcript []Turn, persona *scenario.Persona) (GenerationResult, error) {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, append([]Turn(nil), transcript...))
	if g.err != nil {
		return GenerationResult{}, g.err
	}
	if len(g.replies) == 0 {
		return GenerationResult{Text: "mm-hmm"}, nil
	}
	r := g.replies[0]
	g.replies = g.replies[1:]
	return r, nil
}

func (g *scriptedGenerator) lastCall() []Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return nil
	}
	return g.calls[len(g.calls)-1]
}

type fakeSynth struct {
	mu     sync.Mutex
	err    error
	empty  bool
	voices []string
}

func (s *fakeSynth) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	s.mu.Lock()
	s.voices = append(s.voices, voiceID)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.empty {
		return nil, nil
	}
	return []byte("mp3:" + text), nil
}

func (s *fakeSynth) voiceLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.voices...)
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioRef string) (string, error) {
	return f.text, f.err
}

func testDeps(gen Generator, synth Synthesizer, stt Transcriber) Deps {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return Deps{
		Generator:     gen,
		Synthesizer:   synth,
		Transcriber:   stt,
		TransferDelay: time.Millisecond,
		TickInterval:  time.Hour,
		Log:           logrus.NewEntry(log),
	}
}

func singleVoicePersona() *scenario.Persona {
	return &scenario.Persona{
		ID:          "test-single",
		Name:        "Test Single",
		OpeningLine: "Grandma? It's me, I'm in trouble.",
		VoiceID:     "voice-live",
		Tools:       scenario.DetectionTools,
	}
}

func twoVoicePersona() *scenario.Persona {
	return &scenario.Persona{
		ID:             "test-two",
		Name:           "Test Two",
		OpeningLine:    "This is an automated message from your bank.",
		VoiceID:        "voice-live",
		OpeningVoiceID: "voice-robot",
		Tools:          scenario.DetectionTools,
	}
}

func watch(e *Engine) chan Snapshot {
	ch := make(chan Snapshot, 256)
	e.AddObserver(func(s Snapshot) { ch <- s })
	return ch
}

func waitState(t *testing.T, ch chan Snapshot, want State) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s.State == want {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %q", want)
		}
	}
}

func TestAcceptWithoutPersonaGoesStraightToDialogue(t *testing.T) {
	e := New("s1", nil, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 0 {
		t.Fatalf("expected empty transcript, got %v", snap.Transcript)
	}
}

func TestDeclineEndsImmediately(t *testing.T) {
	e := New("s1", singleVoicePersona(), testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventDecline})
	waitState(t, ch, StateEnded)
}

func TestOpeningFlow_SingleVoice(t *testing.T) {
	p := singleVoicePersona()
	e := New("s1", p, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	snap := waitState(t, ch, StateSpeakingOpeningAudio)
	if len(snap.LastAudio) == 0 {
		t.Fatalf("expected opening audio exposed for playback")
	}
	if len(snap.Transcript) != 1 || snap.Transcript[0].Role != SpeakerAgent || snap.Transcript[0].Content != p.OpeningLine {
		t.Fatalf("expected opening line in transcript, got %v", snap.Transcript)
	}
	e.Dispatch(Event{Type: EventAudioFinished})
	snap = waitState(t, ch, StateMain)
	if len(snap.LastAudio) != 0 {
		t.Fatalf("expected audio cleared after playback")
	}
}

func TestOpeningFlow_TwoVoicePassesThroughTransfer(t *testing.T) {
	gen := &scriptedGenerator{replies: []GenerationResult{{Text: "Thank you for holding, this is Marc."}}}
	synth := &fakeSynth{}
	e := New("s1", twoVoicePersona(), testDeps(gen, synth, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateSpeakingOpeningAudio)
	e.Dispatch(Event{Type: EventAudioFinished})
	waitState(t, ch, StateConnectingToAgent)
	snap := waitState(t, ch, StateSpeakingAgentGreeting)
	if len(snap.Transcript) != 2 {
		t.Fatalf("expected opening + greeting before any user turn, got %v", snap.Transcript)
	}
	if got := snap.Transcript[1].Content; got != "Thank you for holding, this is Marc." {
		t.Fatalf("expected greeting in transcript, got %q", got)
	}
	e.Dispatch(Event{Type: EventAudioFinished})
	waitState(t, ch, StateMain)

	// Automated voice for the scripted opening, live voice for the greeting.
	voices := synth.voiceLog()
	if len(voices) != 2 || voices[0] != "voice-robot" || voices[1] != "voice-live" {
		t.Fatalf("voice selection = %v", voices)
	}
}

func TestOpeningSynthesisFailureFailsOpen(t *testing.T) {
	e := New("s1", singleVoicePersona(), testDeps(&scriptedGenerator{}, &fakeSynth{err: errors.New("api down")}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 0 {
		t.Fatalf("expected no transcript after failed opening, got %v", snap.Transcript)
	}
}

func TestExchangeAppendsCallerThenAgent(t *testing.T) {
	gen := &scriptedGenerator{replies: []GenerationResult{
		{Text: "It's really me, please don't tell mom."},
		{Text: "I need you to send the money today."},
	}}
	e := New("s1", singleVoicePersona(), testDeps(gen, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateSpeakingOpeningAudio)
	e.Dispatch(Event{Type: EventAudioFinished})
	waitState(t, ch, StateMain)

	e.Dispatch(Event{Type: EventSubmitText, Text: "Who is this?"})
	waitState(t, ch, StateSpeakingReply)
	e.Dispatch(Event{Type: EventAudioFinished})
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(snap.Transcript))
	}

	e.Dispatch(Event{Type: EventSubmitText, Text: "You don't sound like him."})
	waitState(t, ch, StateSpeakingReply)
	e.Dispatch(Event{Type: EventAudioFinished})
	snap = waitState(t, ch, StateMain)
	if len(snap.Transcript) != 5 {
		t.Fatalf("expected 5 turns after two exchanges, got %d", len(snap.Transcript))
	}
	if snap.Transcript[3].Role != SpeakerCaller || snap.Transcript[4].Role != SpeakerAgent {
		t.Fatalf("expected caller turn before agent turn, got %v", snap.Transcript[3:])
	}
	// The generator must have seen the pending utterance as the final turn.
	last := gen.lastCall()
	if last[len(last)-1].Content != "You don't sound like him." {
		t.Fatalf("generator input missing pending utterance: %v", last)
	}
}

func TestBlankUtteranceIgnored(t *testing.T) {
	e := New("s1", nil, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventSubmitText, Text: "   "})
	if s := e.Snapshot(); s.State != StateMain {
		t.Fatalf("expected blank utterance ignored, state %q", s.State)
	}
}

func TestOutcomeFoldIsMonotonic(t *testing.T) {
	gen := &scriptedGenerator{replies: []GenerationResult{
		{Text: "Ma'am this is urgent.", ToolInvocations: []ToolInvocation{
			{Name: scenario.ToolSuspicion, Arguments: map[string]interface{}{"suspicion_type": "questioned_identity"}},
		}},
		{Text: "Perfect, read me the numbers.", ToolInvocations: []ToolInvocation{
			{Name: scenario.ToolSensitiveInfo, Arguments: map[string]interface{}{"info_type": "card_number"}},
		}},
		{Text: "And the expiry?", ToolInvocations: []ToolInvocation{
			{Name: scenario.ToolSuspicion, Arguments: map[string]interface{}{"suspicion_type": "refused_request"}},
		}},
	}}
	// Empty synthesis keeps the machine in text-only mode: the opening
	// advances without a playback stop and processing lands back in Main.
	e := New("s1", singleVoicePersona(), testDeps(gen, &fakeSynth{empty: true}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)

	step := func(text string, want outcome.Outcome) {
		t.Helper()
		e.Dispatch(Event{Type: EventSubmitText, Text: text})
		// empty synth audio: processing lands straight back in Main
		snap := waitState(t, ch, StateMain)
		if snap.Outcome != want {
			t.Fatalf("after %q outcome = %q, want %q", text, snap.Outcome, want)
		}
	}
	step("Are you really from the bank?", outcome.VictimSuspicious)
	step("4532 0151 1283 0366", outcome.VictimDisclosed)
	step("Actually, I'm not sure about this.", outcome.VictimDisclosed)

	if snap := e.Snapshot(); len(snap.ToolLog) != 3 {
		t.Fatalf("expected 3 logged invocations, got %d", len(snap.ToolLog))
	}
}

func TestUndeclaredToolInvocationsDropped(t *testing.T) {
	gen := &scriptedGenerator{replies: []GenerationResult{
		{Text: "Sure.", ToolInvocations: []ToolInvocation{{Name: "delete_everything"}}},
	}}
	e := New("s1", nil, testDeps(gen, &fakeSynth{empty: true}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventSubmitText, Text: "hello"})
	snap := waitState(t, ch, StateProcessing)
	snap = waitState(t, ch, StateMain)
	if len(snap.ToolLog) != 0 || snap.Outcome != outcome.Ongoing {
		t.Fatalf("expected undeclared tool dropped, got log=%v outcome=%q", snap.ToolLog, snap.Outcome)
	}
}

func TestEndCallDiscardsInFlightCompletion(t *testing.T) {
	gen := &scriptedGenerator{block: make(chan struct{})}
	e := New("s1", nil, testDeps(gen, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventSubmitText, Text: "hello"})
	waitState(t, ch, StateProcessing)

	e.Dispatch(Event{Type: EventEndCall})
	waitState(t, ch, StateEnded)
	close(gen.block)

	// The late completion must not resurrect the call or touch the
	// transcript.
	time.Sleep(20 * time.Millisecond)
	snap := e.Snapshot()
	if snap.State != StateEnded {
		t.Fatalf("stale completion changed state to %q", snap.State)
	}
	if len(snap.Transcript) != 0 {
		t.Fatalf("stale completion touched transcript: %v", snap.Transcript)
	}
}

func TestRestartResetsContextKeepsPersona(t *testing.T) {
	p := singleVoicePersona()
	e := New("s1", p, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateSpeakingOpeningAudio)
	e.Dispatch(Event{Type: EventTick})
	e.Dispatch(Event{Type: EventToggleMute})
	e.Dispatch(Event{Type: EventEndCall})
	waitState(t, ch, StateEnded)

	// Ticks issued under the ended epoch must not advance the duration.
	e.Dispatch(Event{Type: EventTick, epoch: 1})
	if s := e.Snapshot(); s.Duration != 1 {
		t.Fatalf("stale tick advanced duration: %+v", s)
	}

	e.Dispatch(Event{Type: EventRestart})
	e.Dispatch(Event{Type: EventRestart})
	snap := waitState(t, ch, StateIncoming)
	if snap.Duration != 0 || snap.Muted || len(snap.Transcript) != 0 || snap.Outcome != outcome.Ongoing {
		t.Fatalf("expected zeroed context after restart, got %+v", snap)
	}
	if snap.PersonaID != p.ID {
		t.Fatalf("expected persona preserved across restart, got %q", snap.PersonaID)
	}
}

func TestSilentTranscriptReturnsToDialogue(t *testing.T) {
	e := New("s1", nil, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{text: "   "}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventStartRecording})
	waitState(t, ch, StateRecording)
	e.Dispatch(Event{Type: EventStopRecording, AudioRef: "file:///tmp/clip.m4a"})
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 0 {
		t.Fatalf("silence must not touch the transcript, got %v", snap.Transcript)
	}
}

func TestSpokenUtteranceReachesProcessing(t *testing.T) {
	gen := &scriptedGenerator{replies: []GenerationResult{{Text: "Go on."}}}
	e := New("s1", nil, testDeps(gen, &fakeSynth{empty: true}, &fakeTranscriber{text: "I never gave you my number"}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventStartRecording})
	waitState(t, ch, StateRecording)
	e.Dispatch(Event{Type: EventStopRecording, AudioRef: "file:///tmp/clip.m4a"})
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 2 || snap.Transcript[0].Content != "I never gave you my number" {
		t.Fatalf("expected transcribed exchange, got %v", snap.Transcript)
	}
}

func TestGenerationFailureFailsOpen(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("model overloaded")}
	e := New("s1", nil, testDeps(gen, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventSubmitText, Text: "hello"})
	waitState(t, ch, StateProcessing)
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 0 {
		t.Fatalf("failed generation must not touch the transcript, got %v", snap.Transcript)
	}
}

func TestSynthesisFailureDegradesToTextOnly(t *testing.T) {
	gen := &scriptedGenerator{replies: []GenerationResult{{Text: "Listen carefully."}}}
	e := New("s1", nil, testDeps(gen, &fakeSynth{err: errors.New("quota")}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventSubmitText, Text: "hello"})
	waitState(t, ch, StateProcessing)
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 2 {
		t.Fatalf("expected text-only exchange, got %v", snap.Transcript)
	}
	if len(snap.LastAudio) != 0 {
		t.Fatalf("expected no audio after synthesis failure")
	}
}

func TestEmptyReplyEndsCallAsHangUp(t *testing.T) {
	gen := &scriptedGenerator{replies: []GenerationResult{{Text: ""}}}
	e := New("s1", singleVoicePersona(), testDeps(gen, &fakeSynth{}, &fakeTranscriber{}))
	var reports []Report
	var mu sync.Mutex
	e.OnEnded(func(r Report) {
		mu.Lock()
		reports = append(reports, r)
		mu.Unlock()
	})
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateSpeakingOpeningAudio)
	e.Dispatch(Event{Type: EventAudioFinished})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventSubmitText, Text: "I'm calling the police."})
	snap := waitState(t, ch, StateEnded)
	if snap.Outcome != outcome.AgentHungUp {
		t.Fatalf("outcome = %q, want %q", snap.Outcome, outcome.AgentHungUp)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reports) != 1 || reports[0].Outcome != outcome.AgentHungUp || reports[0].ScenarioID != "test-single" {
		t.Fatalf("unexpected report: %+v", reports)
	}
}

func TestKeypadBuffer(t *testing.T) {
	e := New("s1", nil, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventShowKeypad})
	for _, k := range []string{"1", "2", "#"} {
		e.Dispatch(Event{Type: EventPressKey, Key: k})
	}
	snap := e.Snapshot()
	if snap.State != StateKeypad || snap.KeypadBuffer != "12#" {
		t.Fatalf("keypad = %q in %q, want %q in %q", snap.KeypadBuffer, snap.State, "12#", StateKeypad)
	}
	e.Dispatch(Event{Type: EventHideKeypad})
	if s := e.Snapshot(); s.State != StateMain || s.KeypadBuffer != "12#" {
		t.Fatalf("expected buffer preserved after hide, got %+v", s)
	}
}

func TestTogglesAndTicksOnlyWhileActive(t *testing.T) {
	e := New("s1", nil, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	// Not yet accepted: nothing should change.
	e.Dispatch(Event{Type: EventTick})
	e.Dispatch(Event{Type: EventToggleMute})
	if s := e.Snapshot(); s.Duration != 0 || s.Muted {
		t.Fatalf("ringing call accepted tick/toggle: %+v", s)
	}
	ch := watch(e)
	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateMain)
	e.Dispatch(Event{Type: EventTick})
	e.Dispatch(Event{Type: EventTick})
	e.Dispatch(Event{Type: EventToggleMute})
	e.Dispatch(Event{Type: EventToggleSpeaker})
	snap := e.Snapshot()
	if snap.Duration != 2 || !snap.Muted || !snap.SpeakerOn {
		t.Fatalf("unexpected context after ticks/toggles: %+v", snap)
	}
}

type recPlayer struct {
	mu       sync.Mutex
	playing  bool
	released bool
}

func (p *recPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *recPlayer) Loaded() bool { return true }

func (p *recPlayer) Release() {
	p.mu.Lock()
	p.playing = false
	p.released = true
	p.mu.Unlock()
}

func (p *recPlayer) isReleased() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

func (p *recPlayer) finish() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
}

type recDevice struct {
	mu      sync.Mutex
	players []*recPlayer
}

func (d *recDevice) SetMode(audio.Mode) error { return nil }

func (d *recDevice) Play(data []byte) (audio.Player, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &recPlayer{playing: true}
	d.players = append(d.players, p)
	return p, nil
}

func (d *recDevice) StartRecording() error          { return nil }
func (d *recDevice) StopRecording() (string, error) { return "file:///tmp/clip.m4a", nil }

func (d *recDevice) playCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.players)
}

func (d *recDevice) player(i int) *recPlayer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.players[i]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition never satisfied")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestExternalAudioFinishedSupersedesManagedPlayback(t *testing.T) {
	dev := &recDevice{}
	sess := audio.NewSession(dev)
	sess.SettleDelay = 0
	sess.PollInterval = time.Millisecond
	sess.PlaybackTimeout = time.Second

	gen := &scriptedGenerator{replies: []GenerationResult{{Text: "Thank you for holding, this is Marc."}}}
	deps := testDeps(gen, &fakeSynth{}, &fakeTranscriber{})
	deps.Audio = sess
	e := New("s1", twoVoicePersona(), deps)
	ch := watch(e)

	e.Dispatch(Event{Type: EventAccept})
	waitState(t, ch, StateSpeakingOpeningAudio)
	waitFor(t, func() bool { return dev.playCount() == 1 })

	// The UI reports the opening finished while the device is still playing
	// it. The superseded player must be stopped so the exclusive session
	// frees up for the greeting.
	e.Dispatch(Event{Type: EventAudioFinished})
	waitState(t, ch, StateConnectingToAgent)
	waitFor(t, func() bool { return dev.player(0).isReleased() })

	waitState(t, ch, StateSpeakingAgentGreeting)
	waitFor(t, func() bool { return dev.playCount() == 2 })

	// The superseded opening's own late completion must not end the
	// greeting playback.
	time.Sleep(10 * time.Millisecond)
	if s := e.Snapshot(); s.State != StateSpeakingAgentGreeting {
		t.Fatalf("late opening completion cut the greeting short: %q", s.State)
	}

	dev.player(1).finish()
	snap := waitState(t, ch, StateMain)
	if len(snap.Transcript) != 2 {
		t.Fatalf("expected opening + greeting, got %v", snap.Transcript)
	}
}

func TestRemoveObserver(t *testing.T) {
	e := New("s1", nil, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	var seen int32
	remove := e.AddObserver(func(Snapshot) { atomic.AddInt32(&seen, 1) })
	e.Dispatch(Event{Type: EventAccept})
	if atomic.LoadInt32(&seen) != 1 {
		t.Fatalf("expected one notification, got %d", seen)
	}
	remove()
	e.Dispatch(Event{Type: EventToggleMute})
	if atomic.LoadInt32(&seen) != 1 {
		t.Fatalf("removed observer still notified")
	}
}

func TestAssignPersonaBeforeAccept(t *testing.T) {
	e := New("s1", nil, testDeps(&scriptedGenerator{}, &fakeSynth{}, &fakeTranscriber{}))
	ch := watch(e)
	e.Dispatch(Event{Type: EventAssignPersona, Persona: twoVoicePersona()})
	e.Dispatch(Event{Type: EventAccept})
	snap := waitState(t, ch, StateSpeakingOpeningAudio)
	if snap.PersonaID != "test-two" {
		t.Fatalf("expected assigned persona, got %q", snap.PersonaID)
	}
}
