package tts

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/websocket/interfaces"
	clientinterfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces/v1"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/speak"
	"github.com/sirupsen/logrus"
)

var _ Synthesizer = (*DeepgramClient)(nil)

// DeepgramClient synthesizes speech over the Deepgram speak websocket,
// collecting the binary frames into a single linear16 payload. Deepgram
// selects the voice by model name, so voiceID is interpreted as an Aura
// model (falling back to the configured default).
type DeepgramClient struct {
	apiKey       string
	defaultModel string
	sampleRate   int
	encoding     string
	log          *logrus.Entry
}

func NewDeepgramClient(apiKey, defaultModel string, log *logrus.Entry) *DeepgramClient {
	if defaultModel == "" {
		defaultModel = "aura-2-thalia-en"
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DeepgramClient{
		apiKey:       apiKey,
		defaultModel: defaultModel,
		sampleRate:   48000,
		encoding:     "linear16",
		log:          log,
	}
}

func (d *DeepgramClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("deepgram: api key missing")
	}
	clean := Sanitize(text)
	if clean == "" {
		return nil, nil
	}
	model := voiceID
	if model == "" {
		model = d.defaultModel
	}

	options := &clientinterfaces.WSSpeakOptions{
		Model:      model,
		Encoding:   d.encoding,
		SampleRate: d.sampleRate,
	}

	var (
		mu           sync.Mutex
		buf          bytes.Buffer
		lastRecvUnix int64
		seenAudio    int32
	)

	cb := &speakCollector{onBinary: func(data []byte) error {
		if len(data) == 0 {
			return nil
		}
		atomic.StoreInt64(&lastRecvUnix, time.Now().UnixNano())
		atomic.StoreInt32(&seenAudio, 1)
		mu.Lock()
		buf.Write(data)
		mu.Unlock()
		return nil
	}}

	dg, err := speak.NewWSUsingCallback(ctx, d.apiKey, &clientinterfaces.ClientOptions{}, options, cb)
	if err != nil {
		return nil, fmt.Errorf("deepgram: create ws client: %w", err)
	}

	stopped := false
	stopClient := func() {
		if !stopped {
			stopped = true
			dg.Stop()
		}
	}
	defer stopClient()

	if ok := dg.Connect(); !ok {
		return nil, fmt.Errorf("deepgram: connect failed")
	}
	if err := dg.SpeakWithText(clean); err != nil {
		return nil, fmt.Errorf("deepgram: speak text: %w", err)
	}
	if err := dg.Flush(); err != nil {
		d.log.WithError(err).Warn("deepgram: flush error")
	}

	// No explicit end-of-stream frame; treat a quiet window after the first
	// audio as completion, bounded by a hard deadline.
	idleWindow := 400 * time.Millisecond
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.Now().Add(12 * time.Second)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if atomic.LoadInt32(&seenAudio) == 1 {
				last := time.Unix(0, atomic.LoadInt64(&lastRecvUnix))
				if time.Since(last) > idleWindow {
					mu.Lock()
					out := append([]byte(nil), buf.Bytes()...)
					mu.Unlock()
					return out, nil
				}
			}
			if time.Now().After(deadline) {
				mu.Lock()
				out := append([]byte(nil), buf.Bytes()...)
				mu.Unlock()
				if len(out) == 0 {
					return nil, fmt.Errorf("deepgram: no audio before deadline")
				}
				return out, nil
			}
		}
	}
}

type speakCollector struct{ onBinary func([]byte) error }

func (s *speakCollector) Open(*msginterfaces.OpenResponse) error         { return nil }
func (s *speakCollector) Metadata(*msginterfaces.MetadataResponse) error { return nil }
func (s *speakCollector) Flush(*msginterfaces.FlushedResponse) error     { return nil }
func (s *speakCollector) Clear(*msginterfaces.ClearedResponse) error     { return nil }
func (s *speakCollector) Close(*msginterfaces.CloseResponse) error       { return nil }
func (s *speakCollector) Warning(*msginterfaces.WarningResponse) error   { return nil }
func (s *speakCollector) Error(*msginterfaces.ErrorResponse) error       { return nil }
func (s *speakCollector) UnhandledEvent([]byte) error                    { return nil }
func (s *speakCollector) Binary(byMsg []byte) error {
	if s.onBinary != nil {
		return s.onBinary(byMsg)
	}
	return nil
}
