package ordering

import (
	"context"
	"errors"
	"fmt"
	"sync"

	events "github.com/mrdaebak/dinner-core/core/events"
	"github.com/mrdaebak/dinner-core/core/speechtotext"
)

// ErrSpeechUnsupported reports that no utterance source is available.
// Toggling performs no state change in that case.
var ErrSpeechUnsupported = errors.New("speech capture unsupported: no speech-to-text client configured")

type captureState string

const (
	captureIdle      captureState = "IDLE"
	captureListening captureState = "LISTENING"
)

// utteranceCapture wraps the external utterance source and produces a single
// finalized text utterance per user turn.
//
// The machine is IDLE → LISTENING → IDLE. While listening it accumulates the
// latest interim and the latest final transcript; when listening stops, for
// either reason, the utterance is the final transcript if non-empty, then
// the last interim transcript, then empty.
type utteranceCapture struct {
	mu sync.Mutex

	client SpeechToText
	state  captureState

	interim   string
	final     string
	utterance string

	emitEvent eventEmitter
}

func newUtteranceCapture(client SpeechToText) *utteranceCapture {
	return &utteranceCapture{
		client:    client,
		state:     captureIdle,
		emitEvent: noopEventEmitter,
	}
}

func (c *utteranceCapture) set(client SpeechToText) {
	if c != nil {
		c.client = client
	}
}

func (c *utteranceCapture) SetEventEmitter(emitEvent eventEmitter) {
	if c != nil {
		if emitEvent != nil {
			c.emitEvent = emitEvent
		} else {
			c.emitEvent = noopEventEmitter
		}
	}
}

func (c *utteranceCapture) IsListening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state == captureListening
}

// Utterance returns the finalized utterance of the most recent listening
// round.
func (c *utteranceCapture) Utterance() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.utterance
}

// Toggle starts listening when idle and stops it when listening. Stopping
// through Toggle is a user-initiated cancellation: whatever transcript
// arrived so far is finalized immediately.
func (c *utteranceCapture) Toggle(ctx context.Context) error {
	c.mu.Lock()

	if c.client == nil {
		c.mu.Unlock()
		return ErrSpeechUnsupported
	}

	if c.state == captureListening {
		client := c.client
		emit := c.finalizeLocked()
		c.mu.Unlock()

		emit()
		requestSourceStop(ctx, client)
		return nil
	}

	c.state = captureListening
	c.interim = ""
	c.final = ""
	emitEvent := c.emitEvent
	c.mu.Unlock()

	emitEvent(events.NewListeningStarted())

	if err := c.client.Transcribe(ctx,
		speechtotext.WithInterimTranscriptionCallback(c.handleInterimTranscript),
		speechtotext.WithTranscriptionCallback(c.handleFinalTranscript),
		speechtotext.WithListeningEndedCallback(c.handleSourceEnded),
	); err != nil {
		c.mu.Lock()
		c.state = captureIdle
		c.mu.Unlock()
		emitEvent(events.NewListeningStopped())
		return fmt.Errorf("failed to start transcribing: %w", err)
	}

	return nil
}

// SendAudio forwards an audio chunk to the utterance source while listening.
// It is a no-op otherwise.
func (c *utteranceCapture) SendAudio(audio []byte) error {
	c.mu.Lock()
	client := c.client
	listening := c.state == captureListening
	c.mu.Unlock()

	if client == nil || !listening {
		return nil
	}
	return client.SendAudio(audio)
}

func (c *utteranceCapture) handleInterimTranscript(transcript string) {
	c.mu.Lock()
	if c.state != captureListening {
		c.mu.Unlock()
		return
	}
	c.interim = transcript
	emitEvent := c.emitEvent
	c.mu.Unlock()

	emitEvent(events.NewUserTranscriptInterimUpdated(transcript))
}

func (c *utteranceCapture) handleFinalTranscript(transcript string) {
	c.mu.Lock()
	if c.state != captureListening {
		c.mu.Unlock()
		return
	}
	c.final = transcript
	emitEvent := c.emitEvent
	c.mu.Unlock()

	emitEvent(events.NewUserTranscriptFinal(transcript))
}

// handleSourceEnded fires when the utterance source stops delivering events
// on its own, without a stop request from the user.
func (c *utteranceCapture) handleSourceEnded() {
	c.mu.Lock()
	if c.state != captureListening {
		c.mu.Unlock()
		return
	}
	emit := c.finalizeLocked()
	c.mu.Unlock()

	emit()
}

// finalizeLocked transitions to IDLE and settles the utterance. It returns
// the deferred event emission so callers can release the lock first.
func (c *utteranceCapture) finalizeLocked() func() {
	c.state = captureIdle

	utterance := c.final
	if utterance == "" {
		utterance = c.interim
	}
	c.utterance = utterance

	emitEvent := c.emitEvent
	return func() {
		emitEvent(events.NewUserTranscriptInterimUpdated(""))
		emitEvent(events.NewUtteranceCaptured(utterance))
		emitEvent(events.NewListeningStopped())
	}
}

// requestSourceStop asks the utterance source to stop listening, using
// whichever stop surface the client exposes.
func requestSourceStop(ctx context.Context, client SpeechToText) {
	var err error
	switch c := client.(type) {
	case interface{ StopStream() error }:
		err = c.StopStream()
	case interface{ Stop(context.Context) error }:
		err = c.Stop(ctx)
	case interface{ Close(context.Context) error }:
		err = c.Close(ctx)
	case interface{ Close() error }:
		err = c.Close()
	}

	if err != nil {
		logger.Warn("failed to stop utterance source", "error", err)
	}
}
