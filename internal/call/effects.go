package call

import (
	"context"
	"errors"
	"time"

	"github.com/AndrewKaranu/ScamShield/internal/audio"
	"github.com/AndrewKaranu/ScamShield/internal/metrics"
	"github.com/AndrewKaranu/ScamShield/internal/scenario"
)

// Effects run in goroutines and re-enter the machine through Dispatch with
// epoch-tagged completion events. All start methods are called with the
// engine lock held; they capture the current epoch and copies of any
// mutable context before returning.

// startTicker advances the call duration once per interval for as long as
// the epoch it was started under stays current.
func (e *Engine) startTicker() {
	ep := e.epoch
	interval := e.deps.TickInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if e.currentEpoch() != ep {
				return
			}
			e.Dispatch(Event{Type: EventTick, epoch: ep})
		}
	}()
}

// startOpening synthesizes the persona's scripted opening line in the
// opening voice.
func (e *Engine) startOpening() {
	ep := e.epoch
	persona := e.persona
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.deps.SynthesizeTimeout)
		defer cancel()
		data, err := e.deps.Synthesizer.Synthesize(ctx, persona.OpeningLine, persona.OpeningVoice())
		if err != nil {
			e.log.WithError(err).Warn("opening synthesis failed")
			metrics.AdapterErrors.WithLabelValues("synthesis").Inc()
			e.Dispatch(Event{Type: evOpeningFailed, epoch: ep})
			return
		}
		e.Dispatch(Event{Type: evOpeningReady, epoch: ep, audio: data})
	}()
}

// startTransfer waits out the simulated hold before the live agent picks up.
func (e *Engine) startTransfer() {
	ep := e.epoch
	delay := e.deps.TransferDelay
	go func() {
		time.Sleep(delay)
		e.Dispatch(Event{Type: evTransferDone, epoch: ep})
	}()
}

// startGreeting generates and synthesizes the live agent's first turn.
func (e *Engine) startGreeting() {
	ep := e.epoch
	persona := e.persona
	transcript := append([]Turn(nil), e.transcript...)
	go func() {
		result, err := e.generate(transcript, persona)
		if err != nil {
			e.Dispatch(Event{Type: evGreetingFailed, epoch: ep})
			return
		}
		data := e.synthesize(result.Text, persona)
		e.Dispatch(Event{Type: evGreetingReady, epoch: ep, result: result, audio: data})
	}()
}

// startRecording switches the device into capture mode. Without a device the
// UI owns capture and there is nothing to do.
func (e *Engine) startRecording() {
	if e.deps.Audio == nil {
		return
	}
	ep := e.epoch
	go func() {
		if err := e.deps.Audio.StartRecording(); err != nil {
			e.log.WithError(err).Warn("could not start recording")
			e.Dispatch(Event{Type: evRecordingFailed, epoch: ep})
		}
	}()
}

// startTranscription finalizes the recording and converts it to text. ref
// may come from the UI; a managed device's own clip reference is used when
// the event carried none.
func (e *Engine) startTranscription(ref string) {
	ep := e.epoch
	go func() {
		if e.deps.Audio != nil {
			r, err := e.deps.Audio.StopRecording()
			if err != nil {
				e.log.WithError(err).Warn("could not stop recording")
			} else if ref == "" {
				ref = r
			}
		}
		if ref == "" {
			e.Dispatch(Event{Type: evTranscriptFailed, epoch: ep})
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), e.deps.TranscribeTimeout)
		defer cancel()
		text, err := e.deps.Transcriber.Transcribe(ctx, ref)
		if err != nil {
			e.log.WithError(err).Warn("transcription failed")
			metrics.AdapterErrors.WithLabelValues("transcription").Inc()
			e.Dispatch(Event{Type: evTranscriptFailed, epoch: ep})
			return
		}
		e.Dispatch(Event{Type: evTranscriptReady, epoch: ep, Text: text})
	}()
}

// startProcessing generates the persona's reply to the pending utterance and
// synthesizes it.
func (e *Engine) startProcessing(utterance string) {
	ep := e.epoch
	persona := e.persona
	transcript := append([]Turn(nil), e.transcript...)
	transcript = append(transcript, Turn{Role: SpeakerCaller, Content: utterance})
	go func() {
		result, err := e.generate(transcript, persona)
		if err != nil {
			e.Dispatch(Event{Type: evReplyFailed, epoch: ep})
			return
		}
		data := e.synthesize(result.Text, persona)
		e.Dispatch(Event{Type: evReplyReady, epoch: ep, result: result, audio: data})
	}()
}

// startPlayback plays a synthesized payload on the managed device and
// reports AudioFinished tagged with a fresh playback generation, so a UI
// completion that superseded this clip makes the watcher's own completion a
// no-op. Without a device the UI plays Snapshot.LastAudio and dispatches
// AudioFinished itself.
func (e *Engine) startPlayback(data []byte) {
	if e.deps.Audio == nil {
		return
	}
	ep := e.epoch
	e.playGen++
	gen := e.playGen
	go func() {
		// The previous clip's player releases the exclusive session within
		// one poll interval of being superseded; wait that out instead of
		// failing the turn.
		var p audio.Player
		var err error
		for attempt := 0; attempt < 40; attempt++ {
			p, err = e.deps.Audio.Play(data)
			if err == nil || !errors.Is(err, audio.ErrBusy) {
				break
			}
			time.Sleep(50 * time.Millisecond)
			if e.currentEpoch() != ep {
				return
			}
		}
		if err != nil {
			e.log.WithError(err).Warn("playback failed")
			e.Dispatch(Event{Type: EventAudioFinished, epoch: ep, play: gen})
			return
		}
		if p == nil {
			e.Dispatch(Event{Type: EventAudioFinished, epoch: ep, play: gen})
			return
		}

		e.mu.Lock()
		stale := e.epoch != ep || e.playGen != gen
		if !stale {
			e.activePlayer = p
		}
		e.mu.Unlock()
		if stale {
			p.Release()
		}

		// Await even a superseded playback: completion is what releases the
		// exclusive session for the next clip.
		err = e.deps.Audio.AwaitCompletion(context.Background(), p)
		if err != nil && !errors.Is(err, audio.ErrPlaybackTimeout) {
			e.log.WithError(err).Warn("playback wait failed")
		}
		e.mu.Lock()
		if e.activePlayer == p {
			e.activePlayer = nil
		}
		e.mu.Unlock()
		e.Dispatch(Event{Type: EventAudioFinished, epoch: ep, play: gen})
	}()
}

func (e *Engine) generate(transcript []Turn, persona *scenario.Persona) (GenerationResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.deps.GenerateTimeout)
	defer cancel()
	result, err := e.deps.Generator.Generate(ctx, transcript, persona)
	if err != nil {
		e.log.WithError(err).Warn("generation failed")
		metrics.AdapterErrors.WithLabelValues("generation").Inc()
		return GenerationResult{}, err
	}
	return result, nil
}

// synthesize is best effort: a failed synthesis degrades to a text-only turn
// instead of failing the exchange.
func (e *Engine) synthesize(text string, persona *scenario.Persona) []byte {
	if text == "" || e.deps.Synthesizer == nil || persona == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.deps.SynthesizeTimeout)
	defer cancel()
	data, err := e.deps.Synthesizer.Synthesize(ctx, text, persona.VoiceID)
	if err != nil {
		e.log.WithError(err).Warn("reply synthesis failed")
		metrics.AdapterErrors.WithLabelValues("synthesis").Inc()
		return nil
	}
	return data
}
