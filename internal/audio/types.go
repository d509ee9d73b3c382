package audio

import "errors"

// Mode is the exclusive audio-session mode. Mobile platforms cannot reliably
// record and play at the same time; switching modes needs a short settling
// delay before the opposite direction works.
type Mode int

const (
	ModeIdle Mode = iota
	ModePlayback
	ModeRecording
)

func (m Mode) String() string {
	switch m {
	case ModePlayback:
		return "playback"
	case ModeRecording:
		return "recording"
	default:
		return "idle"
	}
}

// Player is a handle onto an external audio player. The environment offers
// no push-based completion event; completion is detected by polling
// Playing/Loaded (see AwaitCompletion).
type Player interface {
	Playing() bool
	Loaded() bool
	// Release stops playback and frees the underlying player. Releasing
	// more than once is a no-op.
	Release()
}

// Device is the platform audio capability: one exclusive player/recorder
// pair behind an explicit mode switch. Passed in rather than reached through
// a global so sessions stay isolated and testable.
type Device interface {
	SetMode(Mode) error
	Play(audio []byte) (Player, error)
	StartRecording() error
	// StopRecording finishes the active recording and returns a reference to
	// the captured clip.
	StopRecording() (string, error)
}

// ErrBusy is returned when a play or record request would overlap an active
// use of the exclusive device.
var ErrBusy = errors.New("audio: device busy")

// ErrPlaybackTimeout reports that the safety timeout force-completed a
// playback whose natural completion signal never arrived. It is a recovered
// condition, not a failure of the call.
var ErrPlaybackTimeout = errors.New("audio: playback completion timeout")
