package audio

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultSettleDelay is how long to wait after a mode switch before the
	// opposite direction is reliable.
	DefaultSettleDelay = 200 * time.Millisecond

	// DefaultPollInterval is the playback completion polling cadence.
	DefaultPollInterval = 150 * time.Millisecond

	// DefaultPlaybackTimeout force-completes playback if the player never
	// reports finished.
	DefaultPlaybackTimeout = 30 * time.Second
)

// Session serializes access to the exclusive audio device and owns the
// current mode. Only one playback or one recording may be active at a time.
type Session struct {
	mu     sync.Mutex
	dev    Device
	mode   Mode
	active bool

	SettleDelay     time.Duration
	PollInterval    time.Duration
	PlaybackTimeout time.Duration
}

func NewSession(dev Device) *Session {
	return &Session{
		dev:             dev,
		SettleDelay:     DefaultSettleDelay,
		PollInterval:    DefaultPollInterval,
		PlaybackTimeout: DefaultPlaybackTimeout,
	}
}

// ensureMode switches the device mode if needed, waiting out the settle
// delay after a real switch. Callers hold s.mu.
func (s *Session) ensureMode(mode Mode) error {
	if s.mode == mode {
		return nil
	}
	if err := s.dev.SetMode(mode); err != nil {
		return fmt.Errorf("audio: switch to %s mode: %w", mode, err)
	}
	s.mode = mode
	if s.SettleDelay > 0 {
		time.Sleep(s.SettleDelay)
	}
	return nil
}

// Play switches to playback mode and starts the clip, returning the player
// handle for completion polling. Empty audio returns (nil, nil): nothing to
// play.
func (s *Session) Play(audio []byte) (Player, error) {
	if len(audio) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return nil, ErrBusy
	}
	if err := s.ensureMode(ModePlayback); err != nil {
		return nil, err
	}
	p, err := s.dev.Play(audio)
	if err != nil {
		return nil, fmt.Errorf("audio: start playback: %w", err)
	}
	s.active = true
	return p, nil
}

// StartRecording switches to recording mode and starts capturing.
func (s *Session) StartRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrBusy
	}
	if err := s.ensureMode(ModeRecording); err != nil {
		return err
	}
	if err := s.dev.StartRecording(); err != nil {
		return fmt.Errorf("audio: start recording: %w", err)
	}
	s.active = true
	return nil
}

// StopRecording finishes the capture, restores playback mode for the reply
// that follows, and returns the clip reference.
func (s *Session) StopRecording() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, err := s.dev.StopRecording()
	s.active = false
	if err != nil {
		return "", fmt.Errorf("audio: stop recording: %w", err)
	}
	if merr := s.ensureMode(ModePlayback); merr != nil {
		// The clip is already captured; mode restore failure is not fatal.
		return ref, nil
	}
	return ref, nil
}

// AwaitCompletion polls the player until it reports loaded-and-not-playing,
// releasing it on completion. The safety timeout force-completes a hung
// playback and reports ErrPlaybackTimeout.
func (s *Session) AwaitCompletion(ctx context.Context, p Player) error {
	defer s.release()
	if p == nil {
		return nil
	}
	defer p.Release()

	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := s.PlaybackTimeout
	if timeout <= 0 {
		timeout = DefaultPlaybackTimeout
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrPlaybackTimeout
		case <-ticker.C:
			if !p.Playing() && p.Loaded() {
				return nil
			}
		}
	}
}

func (s *Session) release() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
